package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLogRepo_LatestEmpty(t *testing.T) {
	repo := NewSQLiteSaveLogRepo(testutil.NewTestDB(t))

	_, err := repo.Latest(context.Background(), "ROADMAP.md")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveLogRepo_AppendAndList(t *testing.T) {
	repo := NewSQLiteSaveLogRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		rec := &domain.SaveRecord{Document: "ROADMAP.md", SavedAt: at.Add(time.Duration(i) * time.Minute), Bytes: i * 100, Phases: 2, Items: i}
		require.NoError(t, repo.Append(ctx, rec))
		assert.NotZero(t, rec.ID)
	}
	require.NoError(t, repo.Append(ctx, &domain.SaveRecord{Document: "other.md", Bytes: 1}))

	latest, err := repo.Latest(ctx, "ROADMAP.md")
	require.NoError(t, err)
	assert.Equal(t, 300, latest.Bytes)
	assert.True(t, latest.SavedAt.Equal(at.Add(3*time.Minute)))

	recent, err := repo.ListRecent(ctx, "ROADMAP.md", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].Items)
	assert.Equal(t, 2, recent[1].Items)
}
