package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "pillpal_flash"

// Flash categories, used as CSS classes.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

type flashes struct {
	secure bool
}

func (f *flashes) set(w http.ResponseWriter, category, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(category + "\n" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// pop reads and clears the pending flash, if any.
func (f *flashes) pop(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(string(raw), "\n")
	if !ok || message == "" {
		return nil
	}
	return &Flash{Category: category, Message: message}
}
