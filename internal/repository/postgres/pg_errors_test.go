package postgresrepo

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lessonhub/lessongo/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestTranslateDBErr(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "no rows becomes not found",
			in:   pgx.ErrNoRows,
			want: repository.ErrNotFound,
		},
		{
			name: "unique violation becomes conflict",
			in:   &pgconn.PgError{Code: "23505"},
			want: repository.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateDBErr(tt.in), tt.want)
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, translateDBErr(nil))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		err := errors.New("connection reset")
		assert.Equal(t, err, translateDBErr(err))
	})
}

func TestWrapDBErr_AddsOperation(t *testing.T) {
	err := wrapDBErr("postgresrepo.LessonRepo.Get", pgx.ErrNoRows)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "postgresrepo.LessonRepo.Get")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("timeout")))
}
