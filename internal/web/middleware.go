package web

import (
	"context"
	"net/http"

	"github.com/pathakanu/pillpal/internal/auth"
	"github.com/pathakanu/pillpal/internal/model"
)

type userKey struct{}

// loadSession decodes the session cookie onto the request context.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Read(r)
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
	})
}

// requireLogin redirects to the login page unless the session names an
// existing user, whom it stores on the context.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := auth.SessionFrom(r.Context())
		if !sess.Authenticated() {
			http.Redirect(w, r, pathLogin, http.StatusSeeOther)
			return
		}
		user, err := s.auth.CurrentUser(r.Context(), sess)
		if err != nil {
			s.logger.Printf("web: %s %s: load user: %v", r.Method, r.URL.Path, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if user == nil {
			s.sessions.Clear(w)
			http.Redirect(w, r, pathLogin, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

// currentUser returns the user stored by requireLogin.
func currentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userKey{}).(*model.User)
	return user
}
