package store

import (
	"context"

	"github.com/pathakanu/pillpal/internal/model"
	"gorm.io/gorm"
)

type FeedStore struct {
	db *gorm.DB
}

func NewFeedStore(db *gorm.DB) *FeedStore {
	return &FeedStore{db: db}
}

func (s *FeedStore) Append(ctx context.Context, msg *model.CommunityMessage) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

// List returns every message in posting order.
func (s *FeedStore) List(ctx context.Context) ([]model.CommunityMessage, error) {
	var msgs []model.CommunityMessage
	err := s.db.WithContext(ctx).Order("seq ASC").Find(&msgs).Error
	return msgs, err
}
