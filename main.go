package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pathakanu/pillpal/internal/auth"
	"github.com/pathakanu/pillpal/internal/community"
	"github.com/pathakanu/pillpal/internal/config"
	"github.com/pathakanu/pillpal/internal/database"
	"github.com/pathakanu/pillpal/internal/notify"
	myopenai "github.com/pathakanu/pillpal/internal/openai"
	"github.com/pathakanu/pillpal/internal/reminder"
	"github.com/pathakanu/pillpal/internal/store"
	"github.com/pathakanu/pillpal/internal/twilio"
	"github.com/pathakanu/pillpal/internal/voice"
	"github.com/pathakanu/pillpal/internal/web"
)

func main() {
	logger := log.New(os.Stdout, "[pillpal] ", log.LstdFlags|log.Lshortfile)
	cfg := config.Load()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database init failed: %v", err)
	}
	stores := store.New(db)

	storage, err := voice.NewLocalStorage(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatalf("upload storage init failed: %v", err)
	}

	twilioClient := twilio.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	openAIClient := myopenai.New(cfg.OpenAIAPIKey)

	notifier := notify.New(stores.Users, stores.Reminders, twilioClient, openAIClient, notify.Options{
		Schedule: cfg.CaretakerAlertSchedule,
		After:    cfg.CaretakerAlertAfter,
		Location: cfg.LocalTimezone,
	}, logger)
	if err := notifier.Start(); err != nil {
		logger.Fatalf("scheduler start: %v", err)
	}

	srv, err := web.New(web.Deps{
		Auth:         auth.NewService(stores.Users),
		Sessions:     auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure),
		Reminders:    reminder.NewService(stores.Reminders, stores.VoiceFiles),
		Voice:        voice.NewService(stores.VoiceFiles, storage, cfg.MaxUploadSize),
		Community:    community.NewService(stores.Feed),
		Logger:       logger,
		Now:          cfg.Now,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		logger.Fatalf("web init failed: %v", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	waitForShutdown(server, notifier, logger)
}

func waitForShutdown(server *http.Server, notifier *notify.Notifier, logger *log.Logger) {
	stopCtx := make(chan os.Signal, 1)
	signal.Notify(stopCtx, syscall.SIGINT, syscall.SIGTERM)
	<-stopCtx
	logger.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("server shutdown error: %v", err)
	}
	notifier.Stop()
}
