package item

import "time"

// Item represents a shareable item listed by its owner
type Item struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Available   bool      `db:"available"`
	OwnerID     int64     `db:"owner_id"`
	RequestID   *int64    `db:"request_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Comment represents feedback left by a booker after a completed stay.
// AuthorName is populated by a join with users.
type Comment struct {
	ID         int64     `db:"id"`
	Text       string    `db:"text"`
	ItemID     int64     `db:"item_id"`
	AuthorID   int64     `db:"author_id"`
	AuthorName string    `db:"author_name"`
	CreatedAt  time.Time `db:"created_at"`
}
