package web

import "net/http"

func (s *Server) showCommunity(w http.ResponseWriter, r *http.Request) error {
	entries, err := s.community.Feed(r.Context())
	if err != nil {
		return err
	}
	return s.render(w, r, "community", "Community", entries)
}

func (s *Server) postCommunity(w http.ResponseWriter, r *http.Request) error {
	if _, err := s.community.Post(r.Context(), currentUser(r), r.PostFormValue("message")); err != nil {
		return err
	}
	http.Redirect(w, r, pathCommunity, http.StatusSeeOther)
	return nil
}
