package voice

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// errTooLarge is returned by LocalStorage.Save when the content exceeds the limit.
var errTooLarge = errors.New("voice: content exceeds size limit")

// LocalStorage keeps voice file bytes in a single directory.
type LocalStorage struct {
	dir    string
	logger *log.Logger
}

// NewLocalStorage creates dir if needed.
func NewLocalStorage(dir string, logger *log.Logger) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LocalStorage{dir: dir, logger: logger}, nil
}

// Save writes at most limit bytes from content to filename. The file is
// created exclusively and removed again on any failure.
func (s *LocalStorage) Save(filename string, content io.Reader, limit int64) (written int64, err error) {
	path := s.path(filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", filename, cerr)
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
				s.logger.Printf("voice storage: remove partial %s: %v", filename, rerr)
			}
		}
	}()

	written, err = io.Copy(f, io.LimitReader(content, limit+1))
	if err != nil {
		return written, fmt.Errorf("write %s: %w", filename, err)
	}
	if written > limit {
		return written, errTooLarge
	}
	return written, nil
}

// Open opens filename for reading. The caller closes it.
func (s *LocalStorage) Open(filename string) (*os.File, error) {
	return os.Open(s.path(filename))
}

// Remove deletes filename, ignoring files that are already gone.
func (s *LocalStorage) Remove(filename string) error {
	if err := os.Remove(s.path(filename)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// path confines filename to the storage directory.
func (s *LocalStorage) path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}
