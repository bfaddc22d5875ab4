package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Filter narrows a booking list query. Now is the reference instant for the
// CURRENT/PAST/FUTURE states and is ignored for the status states.
type Filter struct {
	State State
	Now   time.Time
}

// Repository defines booking data access
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	// UpdateStatus performs a compare-and-swap on the status column and
	// reports whether a row was updated. A false result means the booking no
	// longer carries the expected current status.
	UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error)
	ListByBooker(ctx context.Context, bookerID int64, f Filter, limit, offset int) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, f Filter, limit, offset int) ([]Booking, error)
	LastForItem(ctx context.Context, itemID int64, before time.Time, status Status) (*Booking, error)
	NextForItem(ctx context.Context, itemID int64, after time.Time, status Status) (*Booking, error)
	ExistsCompleted(ctx context.Context, itemID, bookerID int64, before time.Time, status Status) (bool, error)
}

// PostgresRepository handles booking database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a new booking repository
func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookingColumns = `b.id, b.item_id, b.booker_id, b.start_date, b.end_date, b.status, b.created_at, b.updated_at`

// Create inserts a new booking
func (r *PostgresRepository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query,
		b.ItemID,
		b.BookerID,
		b.Start,
		b.End,
		b.Status,
		now,
	).Scan(&b.ID)
}

// GetByID returns a booking by ID, nil when unknown
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatus swaps the status only if the current value still matches from.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error) {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ListByBooker returns bookings created by bookerID, filtered and ordered by
// start descending.
func (r *PostgresRepository) ListByBooker(ctx context.Context, bookerID int64, f Filter, limit, offset int) ([]Booking, error) {
	return r.list(ctx, "b.booker_id", bookerID, f, limit, offset)
}

// ListByOwner returns bookings of items owned by ownerID, filtered and
// ordered by start descending.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64, f Filter, limit, offset int) ([]Booking, error) {
	return r.list(ctx, "i.owner_id", ownerID, f, limit, offset)
}

// list is the single parametric query behind both subject roles: the subject
// column selects booker vs item owner, the filter appends the time-window or
// status predicate.
func (r *PostgresRepository) list(ctx context.Context, subjectColumn string, subjectID int64, f Filter, limit, offset int) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		WHERE ` + subjectColumn + ` = $1`
	args := []interface{}{subjectID}

	switch f.State {
	case StateCurrent:
		query += ` AND b.start_date <= $2 AND b.end_date >= $2`
		args = append(args, f.Now)
	case StatePast:
		query += ` AND b.end_date < $2`
		args = append(args, f.Now)
	case StateFuture:
		query += ` AND b.start_date > $2`
		args = append(args, f.Now)
	case StateWaiting, StateRejected:
		query += ` AND b.status = $2`
		args = append(args, string(f.State))
	}

	query += fmt.Sprintf(` ORDER BY b.start_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	return bookings, err
}

// LastForItem returns the latest booking of the item with the given status
// starting before the instant, nil when none exists.
func (r *PostgresRepository) LastForItem(ctx context.Context, itemID int64, before time.Time, status Status) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.item_id = $1 AND b.start_date < $2 AND b.status = $3
		ORDER BY b.start_date DESC
		LIMIT 1
	`
	return r.one(ctx, query, itemID, before, status)
}

// NextForItem returns the earliest booking of the item with the given status
// starting after the instant, nil when none exists.
func (r *PostgresRepository) NextForItem(ctx context.Context, itemID int64, after time.Time, status Status) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.item_id = $1 AND b.start_date > $2 AND b.status = $3
		ORDER BY b.start_date ASC
		LIMIT 1
	`
	return r.one(ctx, query, itemID, after, status)
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...interface{}) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, query, args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ExistsCompleted checks whether bookerID had a booking of the item with the
// given status that ended before the instant. Used to gate comment creation.
func (r *PostgresRepository) ExistsCompleted(ctx context.Context, itemID, bookerID int64, before time.Time, status Status) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE item_id = $1 AND booker_id = $2 AND end_date < $3 AND status = $4
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, itemID, bookerID, before, status)
	return exists, err
}
