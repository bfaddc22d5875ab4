package item

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sharekit/sharekit-api/internal/pkg/apperror"
	"github.com/sharekit/sharekit-api/internal/pkg/cache"
	"github.com/sharekit/sharekit-api/internal/pkg/clock"
)

// BookingShortInfo is the booking view the item service needs
type BookingShortInfo struct {
	ID       int64
	BookerID int64
}

// BookingProvider resolves booking context for item views and the comment
// gate. Implemented by an adapter over the booking store.
type BookingProvider interface {
	LastApproved(ctx context.Context, itemID int64, before time.Time) (*BookingShortInfo, error)
	NextApproved(ctx context.Context, itemID int64, after time.Time) (*BookingShortInfo, error)
	HasCompletedStay(ctx context.Context, itemID, userID int64, before time.Time) (bool, error)
}

// UserInfo is the user view the item service needs
type UserInfo struct {
	ID   int64
	Name string
}

// UserProvider resolves users, nil when unknown
type UserProvider interface {
	UserInfo(ctx context.Context, userID int64) (*UserInfo, error)
}

// Service handles item business logic
type Service struct {
	repo     Repository
	bookings BookingProvider
	users    UserProvider
	cache    *cache.Cache
	clock    clock.Clock
}

// NewService creates a new item service
func NewService(repo Repository, bookings BookingProvider, users UserProvider, c *cache.Cache, clk clock.Clock) *Service {
	return &Service{repo: repo, bookings: bookings, users: users, cache: c, clock: clk}
}

// Create lists a new item for the owner
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*ItemResponse, error) {
	owner, err := s.users.UserInfo(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}
	if owner == nil {
		return nil, apperror.NotFound("User %d not found", ownerID)
	}

	i := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	log.Info().Int64("item_id", i.ID).Int64("owner_id", ownerID).Msg("Item created")
	return i.ToResponse(), nil
}

// Update applies a partial update. Only the owner may edit an item.
func (s *Service) Update(ctx context.Context, ownerID, itemID int64, req UpdateRequest) (*ItemResponse, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if i == nil {
		return nil, apperror.NotFound("Item %d not found", itemID)
	}
	if i.OwnerID != ownerID {
		return nil, apperror.Forbidden("Only the owner may edit item %d", itemID)
	}

	if req.Name != nil {
		i.Name = *req.Name
	}
	if req.Description != nil {
		i.Description = *req.Description
	}
	if req.Available != nil {
		i.Available = *req.Available
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.cache.Delete(ctx, viewKey(itemID))

	return s.enrich(ctx, i, ownerID == i.OwnerID)
}

// GetByID returns an item. The owner's view carries the last and next
// approved bookings; non-owner views are served from cache when possible.
func (s *Service) GetByID(ctx context.Context, requesterID, itemID int64) (*ItemResponse, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if i == nil {
		return nil, apperror.NotFound("Item %d not found", itemID)
	}

	isOwner := requesterID == i.OwnerID
	if !isOwner {
		// Only the booking-free view is cacheable: owner views depend on now.
		var cached ItemResponse
		if s.cache.Get(ctx, viewKey(itemID), &cached) {
			return &cached, nil
		}
		resp, err := s.enrich(ctx, i, false)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, viewKey(itemID), resp)
		return resp, nil
	}

	return s.enrich(ctx, i, true)
}

// ListByOwner returns the owner's items with booking enrichment
func (s *Service) ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]*ItemResponse, error) {
	if err := checkPaging(from, size); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByOwner(ctx, ownerID, size, from)
	if err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}

	responses := make([]*ItemResponse, 0, len(items))
	for idx := range items {
		resp, err := s.enrich(ctx, &items[idx], true)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// Search returns available items matching the text. An empty text matches
// nothing.
func (s *Service) Search(ctx context.Context, text string, from, size int) ([]*ItemResponse, error) {
	if err := checkPaging(from, size); err != nil {
		return nil, err
	}
	if text == "" {
		return []*ItemResponse{}, nil
	}

	items, err := s.repo.Search(ctx, text, size, from)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}

	responses := make([]*ItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, items[idx].ToResponse())
	}
	return responses, nil
}

// Delete removes an item. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, ownerID, itemID int64) error {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if i == nil {
		return apperror.NotFound("Item %d not found", itemID)
	}
	if i.OwnerID != ownerID {
		return apperror.Forbidden("Only the owner may delete item %d", itemID)
	}
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.cache.Delete(ctx, viewKey(itemID))
	return nil
}

// CreateComment stores feedback from a booker. The author must have an
// approved booking of the item that ended before now.
func (s *Service) CreateComment(ctx context.Context, authorID, itemID int64, req CommentRequest) (*CommentResponse, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if i == nil {
		return nil, apperror.NotFound("Item %d not found", itemID)
	}

	author, err := s.users.UserInfo(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}
	if author == nil {
		return nil, apperror.NotFound("User %d not found", authorID)
	}

	completed, err := s.bookings.HasCompletedStay(ctx, itemID, authorID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("check completed stay: %w", err)
	}
	if !completed {
		return nil, apperror.Forbidden("User %d has no completed booking of item %d", authorID, itemID)
	}

	c := &Comment{
		Text:       req.Text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	s.cache.Delete(ctx, viewKey(itemID))

	return c.ToResponse(), nil
}

// enrich assembles the full item view: comments always, last/next approved
// bookings only for the owner.
func (s *Service) enrich(ctx context.Context, i *Item, isOwner bool) (*ItemResponse, error) {
	resp := i.ToResponse()

	comments, err := s.repo.ListComments(ctx, i.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	for idx := range comments {
		resp.Comments = append(resp.Comments, comments[idx].ToResponse())
	}

	if !isOwner {
		return resp, nil
	}

	now := s.clock.Now()
	last, err := s.bookings.LastApproved(ctx, i.ID, now)
	if err != nil {
		return nil, fmt.Errorf("resolve last booking: %w", err)
	}
	if last != nil {
		resp.LastBooking = &BookingShort{ID: last.ID, BookerID: last.BookerID}
	}
	next, err := s.bookings.NextApproved(ctx, i.ID, now)
	if err != nil {
		return nil, fmt.Errorf("resolve next booking: %w", err)
	}
	if next != nil {
		resp.NextBooking = &BookingShort{ID: next.ID, BookerID: next.BookerID}
	}
	return resp, nil
}

func checkPaging(from, size int) error {
	if from < 0 {
		return apperror.Validation("from must not be negative")
	}
	if size <= 0 {
		return apperror.Validation("size must be positive")
	}
	return nil
}

func viewKey(itemID int64) string {
	return fmt.Sprintf("item:view:%d", itemID)
}
