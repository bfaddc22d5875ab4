package request

import "time"

// ItemRequest represents a user's request for an item not currently listed
type ItemRequest struct {
	ID          int64     `db:"id"`
	Description string    `db:"description"`
	RequesterID int64     `db:"requester_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// ItemAnswer is an item listed in answer to a request
type ItemAnswer struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Available   bool   `db:"available"`
	OwnerID     int64  `db:"owner_id"`
	RequestID   int64  `db:"request_id"`
}

// CreateRequest for creating an item request
type CreateRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
}

// AnswerResponse for API response
type AnswerResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   int64  `json:"requestId"`
}

// ItemRequestResponse for API response
type ItemRequestResponse struct {
	ID          int64             `json:"id"`
	Description string            `json:"description"`
	Created     string            `json:"created"`
	Items       []*AnswerResponse `json:"items"`
}

// ToResponse converts entity to response with its answers
func (r *ItemRequest) ToResponse(answers []ItemAnswer) *ItemRequestResponse {
	resp := &ItemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.CreatedAt.Format(time.RFC3339),
		Items:       []*AnswerResponse{},
	}
	for i := range answers {
		a := answers[i]
		resp.Items = append(resp.Items, &AnswerResponse{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Available:   a.Available,
			OwnerID:     a.OwnerID,
			RequestID:   a.RequestID,
		})
	}
	return resp
}
