// Package web is the PillPal HTTP surface: routing, sessions, flash messages
// and page rendering on top of the domain services.
package web

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pathakanu/pillpal/internal/auth"
	"github.com/pathakanu/pillpal/internal/community"
	"github.com/pathakanu/pillpal/internal/reminder"
	"github.com/pathakanu/pillpal/internal/voice"
)

const (
	pathIndex          = "/"
	pathLogin          = "/login"
	pathRegister       = "/register"
	pathLogout         = "/logout"
	pathDashboard      = "/dashboard"
	pathAddReminder    = "/add_reminder"
	pathUploadVoice    = "/upload_voice"
	pathMarkTaken      = "/mark_taken"
	pathDeleteReminder = "/delete_reminder"
	pathPlayVoice      = "/play_voice"
	pathCommunity      = "/community"
	pathDueSoon        = "/api/due_soon"
	pathHealth         = "/healthz"
)

const (
	paramReminderID  = "reminderID"
	paramVoiceFileID = "voiceFileID"
)

// multipartOverhead is the slack allowed on top of the file cap for the
// other form fields and multipart framing.
const multipartOverhead = 1 << 20

// Deps are the collaborators a Server needs.
type Deps struct {
	Auth      *auth.Service
	Sessions  *auth.Sessions
	Reminders *reminder.Service
	Voice     *voice.Service
	Community *community.Service
	Logger    *log.Logger
	// Now returns the current time on the shared wall clock.
	Now          func() time.Time
	CookieSecure bool
}

// Server holds the request handlers.
type Server struct {
	auth      *auth.Service
	sessions  *auth.Sessions
	reminders *reminder.Service
	voice     *voice.Service
	community *community.Service
	logger    *log.Logger
	now       func() time.Time
	flash     *flashes
	pages     *renderer
}

// New builds a Server. It fails only if the embedded templates do not parse.
func New(d Deps) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		auth:      d.Auth,
		sessions:  d.Sessions,
		reminders: d.Reminders,
		voice:     d.Voice,
		community: d.Community,
		logger:    d.Logger,
		now:       now,
		flash:     &flashes{secure: d.CookieSecure},
		pages:     pages,
	}, nil
}

// Routes returns the HTTP handler for the whole application.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.loadSession)

	r.Get(pathHealth, handleHealthCheck)
	r.Get(pathIndex, s.handleIndex)
	r.Get(pathLogin, s.handle(s.showLogin, pathLogin))
	r.Post(pathLogin, s.handle(s.login, pathLogin))
	r.Get(pathRegister, s.handle(s.showRegister, pathRegister))
	r.Post(pathRegister, s.handle(s.register, pathRegister))
	r.Get(pathLogout, s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)

		// Flash redirects land on the dashboard, so it reports every failure
		// as internal.
		r.Get(pathDashboard, s.handle(s.dashboard, pathIndex))
		r.Get(pathAddReminder, s.handle(s.showAddReminder, pathDashboard))
		r.Post(pathAddReminder, s.handle(s.addReminder, pathAddReminder))
		r.Get(pathUploadVoice, s.handle(s.showUploadVoice, pathDashboard))
		r.Post(pathUploadVoice, s.handle(s.uploadVoice, pathUploadVoice))
		r.Get(pathWithParam(pathMarkTaken, paramReminderID), s.handle(s.markTaken, pathDashboard))
		r.Get(pathWithParam(pathDeleteReminder, paramReminderID), s.handle(s.deleteReminder, pathDashboard))
		r.Get(pathWithParam(pathPlayVoice, paramVoiceFileID), s.handle(s.playVoice, pathDashboard))
		r.Get(pathCommunity, s.handle(s.showCommunity, pathDashboard))
		r.Post(pathCommunity, s.handle(s.postCommunity, pathCommunity))
		r.Get(pathDueSoon, s.handle(s.dueSoon, pathDashboard))
	})

	return r
}

func pathWithParam(basePath, paramName string) string {
	return basePath + "/{" + paramName + "}"
}

func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if auth.SessionFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, pathDashboard, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, pathLogin, http.StatusSeeOther)
}
