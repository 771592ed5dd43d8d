package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	model "github.com/chatfood/chatfood/internal/model/order"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrPhoneMismatch    = errors.New("phone number does not match the order")
	ErrAlreadyDelivered = errors.New("order already delivered")
)

// Service implements the order actions exposed to the services module's
// tools: status lookup, cancellation and commenting.
type Service struct {
	db *sql.DB
}

// NewService prepares the orders table and seeds sample orders when empty.
func NewService(ctx context.Context, db *sql.DB) (*Service, error) {
	const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id           INTEGER PRIMARY KEY,
	person_name  TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	items        TEXT NOT NULL,
	status       TEXT NOT NULL,
	comment      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL
)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create orders table: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	if count == 0 {
		for _, o := range model.Seed() {
			created := o.CreatedAt
			if created.IsZero() {
				created = time.Now().UTC()
			}
			if _, err := db.ExecContext(ctx,
				`INSERT INTO orders (id, person_name, phone_number, items, status, comment, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				o.ID, o.PersonName, o.PhoneNumber, o.Items, string(o.Status), o.Comment, created,
			); err != nil {
				return nil, fmt.Errorf("seed orders: %w", err)
			}
		}
	}

	return &Service{db: db}, nil
}

// Status returns the order with the given id.
func (s *Service) Status(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, person_name, phone_number, items, status, comment, created_at
		 FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.PersonName, &o.PhoneNumber, &o.Items, &status, &o.Comment, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("query order %d: %w", id, err)
	}

	o.Status = model.Status(status)
	return o, nil
}

// Cancel cancels an undelivered order after verifying the phone number.
func (s *Service) Cancel(ctx context.Context, id int64, phone string) (model.Order, error) {
	o, err := s.Status(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	if o.PhoneNumber != phone {
		return model.Order{}, ErrPhoneMismatch
	}
	if o.Status == model.StatusDelivered {
		return model.Order{}, ErrAlreadyDelivered
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, string(model.StatusCanceled), id); err != nil {
		return model.Order{}, fmt.Errorf("cancel order %d: %w", id, err)
	}

	o.Status = model.StatusCanceled
	return o, nil
}

// Comment attaches a comment to an order on behalf of the given person.
func (s *Service) Comment(ctx context.Context, id int64, person, comment string) (model.Order, error) {
	o, err := s.Status(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	stored := comment
	if person != "" {
		stored = person + ": " + comment
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE orders SET comment = ? WHERE id = ?`, stored, id); err != nil {
		return model.Order{}, fmt.Errorf("comment order %d: %w", id, err)
	}

	o.Comment = stored
	return o, nil
}
