package postgresrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lessonhub/lessongo/internal/domain"
)

type LessonRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *LessonRepo) With(db DB) *LessonRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *LessonRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a lesson and returns it with the generated id.
//
// Returns:
//   - *domain.Lesson: the created lesson.
//   - error: repository.ErrConflict on a uniqueness violation.
func (r *LessonRepo) Create(ctx context.Context, topic, location string, price float64, space int) (*domain.Lesson, error) {
	const op = "postgresrepo.LessonRepo.Create"

	db := r.handle()

	l := domain.Lesson{
		Topic:    topic,
		Location: location,
		Price:    price,
		Space:    space,
	}
	err := db.QueryRow(ctx,
		`INSERT INTO lessons(topic, location, price, space)
       	 VALUES ($1, $2, $3, $4)
     	 RETURNING id, created_at`,
		topic, location, price, space,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &l, nil
}

// Get retrieves a lesson by its ID.
//
// Returns:
//   - *domain.Lesson: the lesson when found.
//   - error: repository.ErrNotFound if the lesson is not found.
func (r *LessonRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	const op = "postgresrepo.LessonRepo.Get"

	db := r.handle()

	var l domain.Lesson
	err := db.QueryRow(ctx,
		`SELECT id, topic, price, location, space, created_at
       	 FROM lessons WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.Topic, &l.Price, &l.Location, &l.Space, &l.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &l, nil
}

// List returns lessons, optionally filtered by a case-insensitive substring
// match over topic or location.
func (r *LessonRepo) List(ctx context.Context, search string) ([]domain.Lesson, error) {
	const op = "postgresrepo.LessonRepo.List"

	db := r.handle()

	var rows pgx.Rows
	var err error

	if search == "" {
		rows, err = db.Query(ctx,
			`SELECT id, topic, price, location, space, created_at
			 FROM lessons
			 ORDER BY created_at`,
		)
	} else {
		rows, err = db.Query(ctx,
			`SELECT id, topic, price, location, space, created_at
			 FROM lessons
			 WHERE topic ILIKE $1 OR location ILIKE $1
			 ORDER BY created_at`,
			"%"+search+"%",
		)
	}
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.Topic, &l.Price, &l.Location, &l.Space, &l.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListByIDs resolves the given lesson IDs. Callers compare the returned
// count against the requested count to detect missing lessons.
func (r *LessonRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Lesson, error) {
	const op = "postgresrepo.LessonRepo.ListByIDs"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, topic, price, location, space, created_at
		 FROM lessons
		 WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.Topic, &l.Price, &l.Location, &l.Space, &l.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// AdjustSpace applies a signed delta to a lesson's remaining space, floored
// at zero, and returns the updated lesson.
//
// Returns:
//   - *domain.Lesson: the lesson after the update.
//   - error: repository.ErrNotFound if the lesson is not found.
func (r *LessonRepo) AdjustSpace(ctx context.Context, id uuid.UUID, delta int) (*domain.Lesson, error) {
	const op = "postgresrepo.LessonRepo.AdjustSpace"

	db := r.handle()

	var l domain.Lesson
	err := db.QueryRow(ctx,
		`UPDATE lessons
		 SET space = GREATEST(space + $2, 0)
		 WHERE id = $1
		 RETURNING id, topic, price, location, space, created_at`,
		id, delta,
	).Scan(&l.ID, &l.Topic, &l.Price, &l.Location, &l.Space, &l.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &l, nil
}
