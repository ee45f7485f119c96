package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/pathakanu/pillpal/internal/model"
	"github.com/pathakanu/pillpal/internal/store"
	"github.com/pathakanu/pillpal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStoreEmailIsCaseInsensitive(t *testing.T) {
	s := testutil.NewStores(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, &model.User{ID: "u1", Name: "A", Email: "A@X.com", PasswordHash: "h"}))

	got, err := s.Users.GetByEmail(ctx, "a@x.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "a@x.com", got.Email)

	err = s.Users.Create(ctx, &model.User{ID: "u2", Name: "B", Email: "a@X.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	_, err = s.Users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserStoreListWithCaretaker(t *testing.T) {
	s := testutil.NewStores(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, &model.User{ID: "u1", Name: "A", Email: "a@x.com", PasswordHash: "h", CaretakerNumber: "+15550001"}))
	require.NoError(t, s.Users.Create(ctx, &model.User{ID: "u2", Name: "B", Email: "b@x.com", PasswordHash: "h"}))

	users, err := s.Users.ListWithCaretaker(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}

func TestReminderStoreScopesByUser(t *testing.T) {
	s := testutil.NewStores(t)
	ctx := context.Background()

	require.NoError(t, s.Reminders.Create(ctx, &model.Reminder{ID: "r1", UserID: "alice", MedicationName: "Aspirin", Dosage: "1 tab", Time: "09:00"}))

	err := s.Reminders.MarkTaken(ctx, "bob", "r1", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Reminders.Delete(ctx, "bob", "r1"))
	list, err := s.Reminders.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Taken)

	require.NoError(t, s.Reminders.MarkTaken(ctx, "alice", "r1", time.Now()))
	require.NoError(t, s.Reminders.MarkAlerted(ctx, "alice", "r1", "2026-10-17"))
	list, err = s.Reminders.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, list[0].Taken)
	assert.NotNil(t, list[0].TakenAt)
	assert.Equal(t, "2026-10-17", list[0].AlertedOn)

	require.NoError(t, s.Reminders.Delete(ctx, "alice", "r1"))
	require.NoError(t, s.Reminders.Delete(ctx, "alice", "r1"))
	list, err = s.Reminders.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestVoiceFileStoreOwnership(t *testing.T) {
	s := testutil.NewStores(t)
	ctx := context.Background()

	require.NoError(t, s.VoiceFiles.Create(ctx, &model.VoiceFile{ID: "v1", UserID: "alice", Name: "Morning", Filename: "alice_x_a.mp3", OriginalFilename: "a.mp3"}))

	_, err := s.VoiceFiles.Get(ctx, "bob", "v1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.VoiceFiles.Get(ctx, "alice", "v1")
	require.NoError(t, err)
	assert.Equal(t, "Morning", got.Name)

	files, err := s.VoiceFiles.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFeedStoreKeepsPostingOrder(t *testing.T) {
	s := testutil.NewStores(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, s.Feed.Append(ctx, &model.CommunityMessage{Username: "A", Message: text}))
	}
	msgs, err := s.Feed.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Message)
	assert.Equal(t, "third", msgs[2].Message)
}
