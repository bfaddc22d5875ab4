package item

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines item data access
type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Item, error)
	Update(ctx context.Context, i *Item) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, text string, limit, offset int) ([]Item, error)
	CreateComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, itemID int64) ([]Comment, error)
}

// PostgresRepository handles item database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a new item repository
func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new item
func (r *PostgresRepository) Create(ctx context.Context, i *Item) error {
	query := `
		INSERT INTO items (name, description, available, owner_id, request_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query,
		i.Name,
		i.Description,
		i.Available,
		i.OwnerID,
		i.RequestID,
		now,
	).Scan(&i.ID)
}

// GetByID returns an item by ID, nil when unknown
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query := `SELECT * FROM items WHERE id = $1`
	var i Item
	err := r.db.GetContext(ctx, &i, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ListByOwner returns the owner's items ordered by id
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Item, error) {
	query := `
		SELECT * FROM items
		WHERE owner_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	var items []Item
	err := r.db.SelectContext(ctx, &items, query, ownerID, limit, offset)
	return items, err
}

// Update persists item field changes
func (r *PostgresRepository) Update(ctx context.Context, i *Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, available = $3, updated_at = $4
		WHERE id = $5
	`
	i.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, i.Name, i.Description, i.Available, i.UpdatedAt, i.ID)
	return err
}

// Delete removes an item
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM items WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Search returns available items whose name or description contains the text,
// case-insensitive, ordered by id
func (r *PostgresRepository) Search(ctx context.Context, text string, limit, offset int) ([]Item, error) {
	query := `
		SELECT * FROM items
		WHERE available = true
		  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	var items []Item
	err := r.db.SelectContext(ctx, &items, query, text, limit, offset)
	return items, err
}

// CreateComment inserts a new comment
func (r *PostgresRepository) CreateComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (text, item_id, author_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	c.CreatedAt = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query, c.Text, c.ItemID, c.AuthorID, c.CreatedAt).Scan(&c.ID)
}

// ListComments returns the item's comments with author names, oldest first
func (r *PostgresRepository) ListComments(ctx context.Context, itemID int64) ([]Comment, error) {
	query := `
		SELECT c.id, c.text, c.item_id, c.author_id, u.name AS author_name, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = $1
		ORDER BY c.created_at
	`
	var comments []Comment
	err := r.db.SelectContext(ctx, &comments, query, itemID)
	return comments, err
}
