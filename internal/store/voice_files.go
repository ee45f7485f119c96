package store

import (
	"context"

	"github.com/pathakanu/pillpal/internal/model"
	"gorm.io/gorm"
)

type VoiceFileStore struct {
	db *gorm.DB
}

func NewVoiceFileStore(db *gorm.DB) *VoiceFileStore {
	return &VoiceFileStore{db: db}
}

func (s *VoiceFileStore) Create(ctx context.Context, file *model.VoiceFile) error {
	return s.db.WithContext(ctx).Create(file).Error
}

func (s *VoiceFileStore) ListByUser(ctx context.Context, userID string) ([]model.VoiceFile, error) {
	var files []model.VoiceFile
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at ASC").
		Find(&files).Error
	return files, err
}

// Get returns the voice file only if userID owns it.
func (s *VoiceFileStore) Get(ctx context.Context, userID, id string) (*model.VoiceFile, error) {
	var file model.VoiceFile
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&file).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &file, nil
}
