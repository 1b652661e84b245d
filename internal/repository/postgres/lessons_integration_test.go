package postgresrepo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonhub/lessongo/internal/repository"
	"github.com/lessonhub/lessongo/internal/testdb"
)

// A negative delta far larger than the remaining space must floor the
// counter at zero, never below.
func TestLessonRepo_AdjustSpace_ClampsAtZero(t *testing.T) {
	store := NewStore(testdb.New(t))
	ctx := context.Background()

	l, err := store.Lessons().Create(ctx, "Physics", "Leeds", 35, 3)
	require.NoError(t, err)

	updated, err := store.Lessons().AdjustSpace(ctx, l.ID, -100)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Space)

	// still adjustable upward afterwards
	updated, err = store.Lessons().AdjustSpace(ctx, l.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Space)
}

func TestLessonRepo_AdjustSpace_UnknownLesson(t *testing.T) {
	store := NewStore(testdb.New(t))

	_, err := store.Lessons().AdjustSpace(context.Background(), uuid.New(), -1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLessonRepo_ListByIDs_ReturnsEachLessonOnce(t *testing.T) {
	store := NewStore(testdb.New(t))
	ctx := context.Background()

	l, err := store.Lessons().Create(ctx, "Chemistry", "Manchester", 30, 5)
	require.NoError(t, err)

	resolved, err := store.Lessons().ListByIDs(ctx, []uuid.UUID{l.ID, l.ID})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, l.ID, resolved[0].ID)
}
