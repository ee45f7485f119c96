package web

import (
	"net/http"

	"github.com/pathakanu/pillpal/internal/auth"
)

func (s *Server) showLogin(w http.ResponseWriter, r *http.Request) error {
	return s.render(w, r, "login", "Log in", nil)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	user, err := s.auth.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		return err
	}
	if err := s.sessions.Establish(w, user.ID); err != nil {
		return err
	}
	return s.redirectWithFlash(w, r, pathDashboard, flashSuccess, "Welcome back!")
}

func (s *Server) showRegister(w http.ResponseWriter, r *http.Request) error {
	return s.render(w, r, "register", "Create account", nil)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) error {
	user, err := s.auth.Register(r.Context(), auth.RegisterInput{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		CaretakerName:   r.PostFormValue("caretaker_name"),
		CaretakerNumber: r.PostFormValue("caretaker_number"),
	})
	if err != nil {
		return err
	}
	if err := s.sessions.Establish(w, user.ID); err != nil {
		return err
	}
	return s.redirectWithFlash(w, r, pathDashboard, flashSuccess, "Account created successfully! Welcome to PillPal.")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	_ = s.redirectWithFlash(w, r, pathLogin, flashInfo, "You have been logged out.")
}
