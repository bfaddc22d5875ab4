package request

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository handles item request database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new item request repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new item request
func (r *Repository) Create(ctx context.Context, req *ItemRequest) error {
	query := `
		INSERT INTO requests (description, requester_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	req.CreatedAt = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query, req.Description, req.RequesterID, req.CreatedAt).Scan(&req.ID)
}

// GetByID returns an item request by ID, nil when unknown
func (r *Repository) GetByID(ctx context.Context, id int64) (*ItemRequest, error) {
	query := `SELECT * FROM requests WHERE id = $1`
	var req ItemRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByRequester returns the user's own requests, newest first
func (r *Repository) ListByRequester(ctx context.Context, requesterID int64) ([]ItemRequest, error) {
	query := `
		SELECT * FROM requests
		WHERE requester_id = $1
		ORDER BY created_at DESC
	`
	var requests []ItemRequest
	err := r.db.SelectContext(ctx, &requests, query, requesterID)
	return requests, err
}

// ListOthers returns requests created by other users, newest first
func (r *Repository) ListOthers(ctx context.Context, requesterID int64, limit, offset int) ([]ItemRequest, error) {
	query := `
		SELECT * FROM requests
		WHERE requester_id <> $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var requests []ItemRequest
	err := r.db.SelectContext(ctx, &requests, query, requesterID, limit, offset)
	return requests, err
}

// ItemsByRequest returns the items listed in answer to a request
func (r *Repository) ItemsByRequest(ctx context.Context, requestID int64) ([]ItemAnswer, error) {
	query := `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE request_id = $1
		ORDER BY id
	`
	var items []ItemAnswer
	err := r.db.SelectContext(ctx, &items, query, requestID)
	return items, err
}
