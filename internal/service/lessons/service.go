package lessons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lessonhub/lessongo/internal/domain"
	redisx "github.com/lessonhub/lessongo/internal/redis"
	"github.com/lessonhub/lessongo/internal/repository"
	postgresrepo "github.com/lessonhub/lessongo/internal/repository/postgres"
	redisrepo "github.com/lessonhub/lessongo/internal/repository/redis"
	"github.com/lessonhub/lessongo/internal/uow"
)

type Config struct {
	ListTTL   time.Duration
	LessonTTL time.Duration
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.LessonsPubSub
	uow    *uow.UoW
	cfg    Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.LessonsPubSub,
	cfg Config,
) *Service {
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = 30 * time.Second
	}

	if cfg.LessonTTL <= 0 {
		cfg.LessonTTL = 60 * time.Second
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
	}
}

// List returns lessons, optionally filtered by a case-insensitive substring
// over topic or location. Only the unfiltered listing goes through the
// cache; search results are read straight from the store.
func (s *Service) List(ctx context.Context, search string) ([]domain.Lesson, error) {
	const op = "service.lessons.List"

	if search != "" {
		out, err := s.store.Lessons().List(ctx, search)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return out, nil
	}

	out, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyLessonList(),
		s.cfg.ListTTL,
		func(ctx context.Context) ([]domain.Lesson, error) {
			return s.store.Lessons().List(ctx, "")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Get retrieves a lesson by its ID, utilizing the caching layer.
//
// Returns:
//   - *domain.Lesson: the retrieved lesson, or nil if not found.
//   - error: lessons.ErrLessonNotFound if the lesson is not found.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	const op = "service.lessons.Get"

	lesson, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyLesson(id),
		s.cfg.LessonTTL,
		func(ctx context.Context) (domain.Lesson, error) {
			l, err := s.store.Lessons().Get(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Lesson{}, ErrLessonNotFound
				}

				return domain.Lesson{}, err
			}

			return *l, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &lesson, nil
}

// Create inserts a lesson within a transactional Unit of Work, then drops
// the cached listing and fans out a lesson-changed event.
//
// Returns:
//   - *domain.Lesson: the created lesson with its generated ID.
//   - error: lessons.ErrLessonConflict on a uniqueness violation.
func (s *Service) Create(ctx context.Context, topic, location string, price float64, space int) (*domain.Lesson, error) {
	const op = "service.lessons.Create"

	var created *domain.Lesson

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		l, err := s.store.Lessons().With(tx).Create(ctx, topic, location, price, space)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrLessonConflict)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		created = l

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateLesson(ctx, l.ID)
			_ = s.pubsub.PublishLessonChanged(ctx, l.ID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// AdjustSpace applies a signed delta to a lesson's remaining space. The
// store clamps the result at zero, so a large negative delta can never
// drive space below it.
//
// Returns:
//   - *domain.Lesson: the lesson after the adjustment.
//   - error: lessons.ErrLessonNotFound if the lesson is not found.
func (s *Service) AdjustSpace(ctx context.Context, id uuid.UUID, delta int) (*domain.Lesson, error) {
	const op = "service.lessons.AdjustSpace"

	var updated *domain.Lesson

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		l, err := s.store.Lessons().With(tx).AdjustSpace(ctx, id, delta)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrLessonNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		updated = l

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateLesson(ctx, id)
			_ = s.pubsub.PublishLessonChanged(ctx, id)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
