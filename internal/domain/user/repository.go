package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines user data access
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}

// PostgresRepository handles user database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a new user repository
func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id
	`
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query, u.Name, u.Email, now).Scan(&u.ID)
}

// GetByID returns a user by ID, nil when unknown
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by id
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	query := `SELECT * FROM users ORDER BY id`
	var users []User
	err := r.db.SelectContext(ctx, &users, query)
	return users, err
}

// Update persists name and email changes
func (r *PostgresRepository) Update(ctx context.Context, u *User) error {
	query := `UPDATE users SET name = $1, email = $2, updated_at = $3 WHERE id = $4`
	u.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.UpdatedAt, u.ID)
	return err
}

// Delete removes a user
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
