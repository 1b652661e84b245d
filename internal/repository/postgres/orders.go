package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lessonhub/lessongo/internal/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create persists an order, embedding the lesson snapshot as jsonb, and
// fills in the generated id and order date.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	const op = "postgresrepo.OrderRepo.Create"

	db := r.handle()

	details, err := json.Marshal(o.LessonDetails)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	err = db.QueryRow(ctx,
		`INSERT INTO orders(
			name, phone_number, lesson_ids, number_of_spaces,
			total_price, status, email, notes, lesson_details)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
     	 RETURNING id, order_date`,
		o.Name, o.PhoneNumber, o.LessonIDs, o.NumberOfSpaces,
		o.TotalPrice, o.Status, o.Email, o.Notes, details,
	).Scan(&o.ID, &o.OrderDate)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Get retrieves an order by its ID.
//
// Returns:
//   - *domain.Order: the order when found.
//   - error: repository.ErrNotFound if the order is not found.
func (r *OrderRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const op = "postgresrepo.OrderRepo.Get"

	db := r.handle()

	var o domain.Order
	var details []byte
	err := db.QueryRow(ctx,
		`SELECT id, name, phone_number, lesson_ids, number_of_spaces,
		        total_price, order_date, status, email, notes, lesson_details
       	 FROM orders WHERE id = $1`,
		id,
	).Scan(
		&o.ID, &o.Name, &o.PhoneNumber, &o.LessonIDs, &o.NumberOfSpaces,
		&o.TotalPrice, &o.OrderDate, &o.Status, &o.Email, &o.Notes, &details,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if err := json.Unmarshal(details, &o.LessonDetails); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &o, nil
}

// List returns all orders, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	const op = "postgresrepo.OrderRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, phone_number, lesson_ids, number_of_spaces,
		        total_price, order_date, status, email, notes, lesson_details
		 FROM orders
		 ORDER BY order_date DESC`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var details []byte

		if err := rows.Scan(
			&o.ID, &o.Name, &o.PhoneNumber, &o.LessonIDs, &o.NumberOfSpaces,
			&o.TotalPrice, &o.OrderDate, &o.Status, &o.Email, &o.Notes, &details,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		if err := json.Unmarshal(details, &o.LessonDetails); err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
