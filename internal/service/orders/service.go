package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lessonhub/lessongo/internal/domain"
	"github.com/lessonhub/lessongo/internal/repository"
	postgresrepo "github.com/lessonhub/lessongo/internal/repository/postgres"
	redisrepo "github.com/lessonhub/lessongo/internal/repository/redis"
	"github.com/lessonhub/lessongo/internal/uow"
)

type Service struct {
	store   *postgresrepo.Store
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
}

func New(store *postgresrepo.Store, limiter *redisrepo.SlidingWindowLimiter) *Service {
	return &Service{
		store:   store,
		limiter: limiter,
		uow:     uow.NewUoW(store),
	}
}

// CreateOrderInput carries a client purchase request. LessonIDs stay raw
// strings so the id-format check happens in the documented validation
// order, after the presence checks.
type CreateOrderInput struct {
	Name           string
	PhoneNumber    string
	LessonIDs      []string
	NumberOfSpaces int
	Email          string
	Notes          string
}

// Create validates a purchase request, resolves every referenced lesson,
// derives the total price and persists the order with an embedded lesson
// snapshot. The whole order is rejected when any lesson id fails to
// resolve; no partial booking is written.
//
// Seat capacity is NOT consumed here. Callers adjust it through the
// separate space endpoint.
//
// Returns:
//   - *domain.Order: the persisted order including the generated id.
//   - error: orders.ValidationError for a malformed payload.
//   - error: orders.ErrLessonsNotFound when any lesson id does not resolve.
//   - error: orders.RateLimitedError when the caller is over the window.
func (s *Service) Create(ctx context.Context, in CreateOrderInput, rlKey string) (*domain.Order, error) {
	const op = "service.orders.Create"

	lessonIDs, err := validateCreate(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, RateLimitedError{RetryAfter: retry.String()})
		}
	}

	order := &domain.Order{
		Name:           strings.TrimSpace(in.Name),
		PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
		LessonIDs:      lessonIDs,
		NumberOfSpaces: in.NumberOfSpaces,
		Status:         domain.OrderPending,
		Email:          strings.TrimSpace(in.Email),
		Notes:          in.Notes,
	}

	err = s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		resolved, err := s.store.Lessons().With(tx).ListByIDs(ctx, lessonIDs)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		// All-or-nothing: a single unresolved id rejects the order. A
		// duplicated id also lands here since the store returns each
		// lesson once.
		if len(resolved) != len(lessonIDs) {
			return fmt.Errorf("%s: %w", op, ErrLessonsNotFound)
		}

		details, sum := buildSnapshot(lessonIDs, resolved)
		order.TotalPrice = sum * float64(in.NumberOfSpaces)
		order.LessonDetails = details

		if err := s.store.Orders().With(tx).Create(ctx, order); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// buildSnapshot copies the resolved lessons into the order's denormalized
// detail list, preserving the requested id order, and returns the price sum.
func buildSnapshot(ids []uuid.UUID, resolved []domain.Lesson) ([]domain.LessonDetail, float64) {
	byID := make(map[uuid.UUID]domain.Lesson, len(resolved))
	for _, l := range resolved {
		byID[l.ID] = l
	}

	var sum float64
	details := make([]domain.LessonDetail, 0, len(ids))
	for _, id := range ids {
		l := byID[id]
		sum += l.Price
		details = append(details, domain.LessonDetail{
			ID:       l.ID,
			Topic:    l.Topic,
			Price:    l.Price,
			Location: l.Location,
		})
	}

	return details, sum
}

// validateCreate applies the documented checks in order, short-circuiting
// on the first failure, and parses the lesson ids last.
func validateCreate(in CreateOrderInput) ([]uuid.UUID, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, missingField("name")
	}

	if strings.TrimSpace(in.PhoneNumber) == "" {
		return nil, missingField("phoneNumber")
	}

	if len(in.LessonIDs) == 0 {
		return nil, missingField("lessonIDs")
	}

	if in.NumberOfSpaces == 0 {
		return nil, missingField("numberOfSpaces")
	}

	if in.NumberOfSpaces < 0 {
		return nil, ValidationError{
			Field: "numberOfSpaces",
			Msg:   "numberOfSpaces must be a positive number",
		}
	}

	ids := make([]uuid.UUID, 0, len(in.LessonIDs))
	for _, raw := range in.LessonIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, ValidationError{
				Field: "lessonIDs",
				Msg:   "invalid id format",
			}
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// Get retrieves an order by its ID.
//
// Returns:
//   - *domain.Order: the retrieved order, or nil if not found.
//   - error: orders.ErrOrderNotFound if the order is not found.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const op = "service.orders.Get"

	o, err := s.store.Orders().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	const op = "service.orders.List"

	out, err := s.store.Orders().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
