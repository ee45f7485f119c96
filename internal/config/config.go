package config

import (
	"crypto/rand"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret []byte
	SessionTTL    time.Duration
	CookieSecure  bool
	UploadDir     string
	MaxUploadSize int64

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	OpenAIAPIKey     string

	CaretakerAlertSchedule string
	CaretakerAlertAfter    time.Duration

	LocalTimezone *time.Location
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	timezoneName := getenvDefault("LOCAL_TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid LOCAL_TIMEZONE %q, defaulting to system local: %v", timezoneName, err)
		location = time.Local
	}

	return &Config{
		Port:          getenvDefault("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: sessionSecret(os.Getenv("SESSION_SECRET")),
		SessionTTL:    time.Duration(ParseIntEnv("SESSION_TTL_HOURS", 168)) * time.Hour,
		CookieSecure:  parseBoolEnv("COOKIE_SECURE", false),
		UploadDir:     getenvDefault("UPLOAD_DIR", "uploads"),
		MaxUploadSize: int64(ParseIntEnv("MAX_UPLOAD_MB", 16)) << 20,

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),

		CaretakerAlertSchedule: getenvDefault("CARETAKER_ALERT_SCHEDULE", "@every 1m"),
		CaretakerAlertAfter:    time.Duration(ParseIntEnv("CARETAKER_ALERT_AFTER_MINUTES", 30)) * time.Minute,

		LocalTimezone: location,
	}
}

// Now returns the current time on the configured wall clock.
func (c *Config) Now() time.Time {
	return time.Now().In(c.LocalTimezone)
}

// sessionSecret never falls back to a fixed key: without SESSION_SECRET a
// random one is generated and sessions end with the process.
func sessionSecret(value string) []byte {
	if value != "" {
		return []byte(value)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("config: generate session secret: %v", err)
	}
	log.Printf("config: SESSION_SECRET not set, generated a random key (sessions will not survive a restart)")
	return buf
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// ParseIntEnv returns the integer value for an environment variable or the provided default.
func ParseIntEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		log.Printf("config: unable to parse %s=%q as positive int: %v", key, value, err)
		return def
	}
	return parsed
}

func parseBoolEnv(key string, def bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as bool: %v", key, value, err)
		return def
	}
	return parsed
}
