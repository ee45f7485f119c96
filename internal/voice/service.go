// Package voice stores user-uploaded audio prompts and serves them back to
// their owner only.
package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pathakanu/pillpal/internal/apperr"
	"github.com/pathakanu/pillpal/internal/model"
	"github.com/pathakanu/pillpal/internal/store"
)

// DefaultMaxSize is the upload cap used when none is configured.
const DefaultMaxSize int64 = 16 << 20

// UploadInput is one submitted voice recording.
type UploadInput struct {
	Name             string
	OriginalFilename string
	// Content is nil when no file was submitted.
	Content io.Reader
}

// Playback is an opened voice file. Close it when done.
type Playback struct {
	File        *os.File
	Meta        *model.VoiceFile
	ContentType string
	ModTime     time.Time
}

func (p *Playback) Close() error {
	return p.File.Close()
}

// Service uploads and fetches voice files.
type Service struct {
	files   store.VoiceFiles
	storage *LocalStorage
	maxSize int64
}

func NewService(files store.VoiceFiles, storage *LocalStorage, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Service{files: files, storage: storage, maxSize: maxSize}
}

// MaxSize returns the upload cap in bytes.
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Upload validates and stores a recording for userID.
func (s *Service) Upload(ctx context.Context, userID string, in UploadInput, now time.Time) (*model.VoiceFile, error) {
	if in.Content == nil || strings.TrimSpace(in.OriginalFilename) == "" {
		return nil, apperr.Validation("No file selected.")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Please provide a name for this voice recording.")
	}
	if !Allowed(in.OriginalFilename) {
		return nil, apperr.UnsupportedMedia("Invalid file type. Please upload an MP3, WAV, OGG, or M4A file.")
	}

	original := SanitizeFilename(in.OriginalFilename)
	if !Allowed(original) {
		original = "recording." + Extension(in.OriginalFilename)
	}
	filename := StorageName(userID, original)

	if _, err := s.storage.Save(filename, in.Content, s.maxSize); err != nil {
		if errors.Is(err, errTooLarge) {
			return nil, s.tooLarge()
		}
		return nil, apperr.Internal(err)
	}

	record := &model.VoiceFile{
		ID:               uuid.NewString(),
		UserID:           userID,
		Name:             name,
		Filename:         filename,
		OriginalFilename: original,
		UploadedAt:       now,
	}
	if err := s.files.Create(ctx, record); err != nil {
		_ = s.storage.Remove(filename)
		return nil, apperr.Internal(err)
	}
	return record, nil
}

// List returns the user's recordings in upload order.
func (s *Service) List(ctx context.Context, userID string) ([]model.VoiceFile, error) {
	files, err := s.files.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return files, nil
}

// Open returns the stored bytes of a recording owned by userID. Other users'
// ids are reported as NotFound.
func (s *Service) Open(ctx context.Context, userID, voiceFileID string) (*Playback, error) {
	meta, err := s.files.Get(ctx, userID, voiceFileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Voice file not found.")
		}
		return nil, apperr.Internal(err)
	}

	f, err := s.storage.Open(meta.Filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NotFound("Voice file not found.")
		}
		return nil, apperr.Internal(err)
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectReader(f); err == nil {
		contentType = mt.String()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, apperr.Internal(err)
	}

	var modTime time.Time
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}
	return &Playback{File: f, Meta: meta, ContentType: contentType, ModTime: modTime}, nil
}

func (s *Service) tooLarge() error {
	return apperr.TooLarge(fmt.Sprintf("File is too large. The limit is %d MB.", s.maxSize>>20))
}

// TooLargeError is the error returned for uploads over the cap; the web layer
// uses it when the request body itself is rejected.
func (s *Service) TooLargeError() error {
	return s.tooLarge()
}

// StorageName builds a collision-free file name from the owner, a random
// token and the sanitized original name.
func StorageName(userID, sanitizedOriginal string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s_%s", SanitizeFilename(userID), token, sanitizedOriginal)
}
