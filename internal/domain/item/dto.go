package item

import "time"

// CreateRequest for creating an item
type CreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=2000"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

// UpdateRequest for partial item updates
type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Available   *bool   `json:"available"`
}

// CommentRequest for creating a comment
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// BookingShort is the trimmed booking view on an owner's item response
type BookingShort struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// CommentResponse for API response
type CommentResponse struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	AuthorName string `json:"authorName"`
	Created    string `json:"created"`
}

// ItemResponse for API response. LastBooking and NextBooking are only
// populated when the requester owns the item.
type ItemResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Available   bool               `json:"available"`
	RequestID   *int64             `json:"requestId,omitempty"`
	LastBooking *BookingShort      `json:"lastBooking,omitempty"`
	NextBooking *BookingShort      `json:"nextBooking,omitempty"`
	Comments    []*CommentResponse `json:"comments"`
}

// ToResponse converts entity to response without enrichment
func (i *Item) ToResponse() *ItemResponse {
	return &ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
		Comments:    []*CommentResponse{},
	}
}

// ToResponse converts entity to response
func (c *Comment) ToResponse() *CommentResponse {
	return &CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.CreatedAt.Format(time.RFC3339),
	}
}
