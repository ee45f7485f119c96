package web

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pathakanu/pillpal/internal/apperr"
	"github.com/pathakanu/pillpal/internal/voice"
)

const maxMultipartMemory = 8 << 20

func (s *Server) showUploadVoice(w http.ResponseWriter, r *http.Request) error {
	return s.render(w, r, "upload_voice", "Upload voice", s.voice.MaxSize()>>20)
}

func (s *Server) uploadVoice(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.voice.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return s.voice.TooLargeError()
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return apperr.Validation("The upload could not be read. Please try again.")
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	in := voice.UploadInput{Name: r.FormValue("name")}
	file, header, err := r.FormFile("voice_file")
	switch {
	case err == nil:
		defer file.Close()
		if header.Size > s.voice.MaxSize() {
			return s.voice.TooLargeError()
		}
		in.OriginalFilename = header.Filename
		in.Content = file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return apperr.Validation("The upload could not be read. Please try again.")
	}

	if _, err := s.voice.Upload(r.Context(), currentUser(r).ID, in, s.now()); err != nil {
		return err
	}
	return s.redirectWithFlash(w, r, pathDashboard, flashSuccess, "Voice recording uploaded successfully!")
}

func (s *Server) playVoice(w http.ResponseWriter, r *http.Request) error {
	pb, err := s.voice.Open(r.Context(), currentUser(r).ID, chi.URLParam(r, paramVoiceFileID))
	if err != nil {
		return err
	}
	defer pb.Close()

	w.Header().Set("Content-Type", pb.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": pb.Meta.OriginalFilename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, pb.Meta.OriginalFilename, pb.ModTime, pb.File)
	return nil
}
