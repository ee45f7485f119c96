package web

import (
	"errors"
	"net/http"

	"github.com/pathakanu/pillpal/internal/apperr"
)

// appHandler is a handler that reports failures instead of writing them.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// handle adapts h to http.HandlerFunc. Application errors become a flash
// message and a redirect to fallback; anything else is logged and answered
// with 500.
func (s *Server) handle(h appHandler, fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
			s.flash.set(w, flashError, appErr.Message)
			http.Redirect(w, r, fallback, http.StatusSeeOther)
			return
		}

		s.logger.Printf("web: %s %s: %v", r.Method, r.URL.Path, err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(http.StatusText(http.StatusInternalServerError)))
	}
}

// redirectWithFlash sets a flash message and redirects to target.
func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, category, message string) error {
	s.flash.set(w, category, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
	return nil
}

// internalOnly marks err as a server failure, so handle answers 500 instead
// of redirecting.
func internalOnly(err error) error {
	if err == nil || apperr.KindOf(err) == apperr.KindInternal {
		return err
	}
	return apperr.Internal(err)
}
