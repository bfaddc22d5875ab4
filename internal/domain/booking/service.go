package booking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sharekit/sharekit-api/internal/pkg/apperror"
	"github.com/sharekit/sharekit-api/internal/pkg/clock"
)

// ItemInfo is the item view the booking service needs
type ItemInfo struct {
	ID        int64
	Name      string
	OwnerID   int64
	Available bool
}

// ItemProvider resolves items, nil when unknown
type ItemProvider interface {
	ItemInfo(ctx context.Context, itemID int64) (*ItemInfo, error)
}

// UserInfo is the user view the booking service needs
type UserInfo struct {
	ID   int64
	Name string
}

// UserProvider resolves users, nil when unknown
type UserProvider interface {
	UserInfo(ctx context.Context, userID int64) (*UserInfo, error)
}

// Service handles booking business logic
type Service struct {
	repo  Repository
	items ItemProvider
	users UserProvider
	clock clock.Clock
}

// NewService creates a new booking service
func NewService(repo Repository, items ItemProvider, users UserProvider, clk clock.Clock) *Service {
	return &Service{repo: repo, items: items, users: users, clock: clk}
}

// Create validates and stores a new booking in status WAITING.
func (s *Service) Create(ctx context.Context, bookerID int64, req CreateRequest) (*BookingResponse, error) {
	booker, err := s.users.UserInfo(ctx, bookerID)
	if err != nil {
		return nil, fmt.Errorf("resolve booker: %w", err)
	}
	if booker == nil {
		return nil, apperror.NotFound("User %d not found", bookerID)
	}

	item, err := s.items.ItemInfo(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("resolve item: %w", err)
	}
	if item == nil {
		return nil, apperror.NotFound("Item %d not found", req.ItemID)
	}

	if !req.End.After(req.Start) {
		return nil, apperror.Validation("Booking end must be after start")
	}
	if req.Start.Before(s.clock.Now()) {
		return nil, apperror.Validation("Booking start must not be in the past")
	}
	if item.OwnerID == bookerID {
		// An owner cannot book their own item.
		return nil, apperror.Forbidden("Owner cannot book own item")
	}
	if !item.Available {
		return nil, apperror.Validation("Item %d is not available for booking", item.ID)
	}

	b := &Booking{
		ItemID:   req.ItemID,
		BookerID: bookerID,
		Start:    req.Start,
		End:      req.End,
		Status:   StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	log.Info().
		Int64("booking_id", b.ID).
		Int64("item_id", b.ItemID).
		Int64("booker_id", b.BookerID).
		Msg("Booking created")

	return toResponse(b, item, booker), nil
}

// Decide approves or rejects a WAITING booking. Only the item owner may
// decide.
func (s *Service) Decide(ctx context.Context, bookingID, ownerID int64, approved bool) (*BookingResponse, error) {
	a := actionReject
	if approved {
		a = actionApprove
	}
	return s.transition(ctx, bookingID, a, func(b *Booking, item *ItemInfo) error {
		if item.OwnerID != ownerID {
			return apperror.Forbidden("Only the item owner may approve or reject a booking")
		}
		return nil
	})
}

// Cancel moves a WAITING or APPROVED booking to CANCELED. Only the booker may
// cancel.
func (s *Service) Cancel(ctx context.Context, bookingID, bookerID int64) (*BookingResponse, error) {
	return s.transition(ctx, bookingID, actionCancel, func(b *Booking, item *ItemInfo) error {
		if b.BookerID != bookerID {
			return apperror.Forbidden("Only the booker may cancel a booking")
		}
		return nil
	})
}

// transition loads the booking, runs the permission check, resolves the next
// status from the transition table and applies it with a compare-and-swap so
// two concurrent decisions cannot both succeed.
func (s *Service) transition(ctx context.Context, bookingID int64, a action, permitted func(*Booking, *ItemInfo) error) (*BookingResponse, error) {
	b, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := permitted(b, item); err != nil {
		return nil, err
	}

	next, err := nextStatus(b.Status, a)
	if err != nil {
		return nil, err
	}

	swapped, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, next)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if !swapped {
		return nil, apperror.Conflict("Booking %d status changed concurrently", b.ID)
	}
	b.Status = next

	log.Info().
		Int64("booking_id", b.ID).
		Str("status", string(next)).
		Msg("Booking status updated")

	booker, err := s.users.UserInfo(ctx, b.BookerID)
	if err != nil {
		return nil, fmt.Errorf("resolve booker: %w", err)
	}
	return toResponse(b, item, booker), nil
}

// GetByID returns a booking visible to its booker or the item owner.
func (s *Service) GetByID(ctx context.Context, bookingID, requesterID int64) (*BookingResponse, error) {
	b, item, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if requesterID != b.BookerID && requesterID != item.OwnerID {
		// Existence of other users' bookings is not disclosed.
		return nil, apperror.NotFound("Booking %d not found", bookingID)
	}
	booker, err := s.users.UserInfo(ctx, b.BookerID)
	if err != nil {
		return nil, fmt.Errorf("resolve booker: %w", err)
	}
	return toResponse(b, item, booker), nil
}

// ListByBooker returns bookings created by the subject, newest start first.
func (s *Service) ListByBooker(ctx context.Context, bookerID int64, state string, from, size int) ([]*BookingResponse, error) {
	st, booker, err := s.listArgs(ctx, bookerID, state, from, size)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListByBooker(ctx, bookerID, Filter{State: st, Now: s.clock.Now()}, size, from)
	if err != nil {
		return nil, fmt.Errorf("list bookings by booker: %w", err)
	}

	responses := make([]*BookingResponse, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		item, err := s.items.ItemInfo(ctx, b.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolve item: %w", err)
		}
		responses = append(responses, toResponse(b, item, booker))
	}
	return responses, nil
}

// ListByOwner returns bookings of the subject's items, newest start first.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64, state string, from, size int) ([]*BookingResponse, error) {
	st, _, err := s.listArgs(ctx, ownerID, state, from, size)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListByOwner(ctx, ownerID, Filter{State: st, Now: s.clock.Now()}, size, from)
	if err != nil {
		return nil, fmt.Errorf("list bookings by owner: %w", err)
	}

	responses := make([]*BookingResponse, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		item, err := s.items.ItemInfo(ctx, b.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolve item: %w", err)
		}
		booker, err := s.users.UserInfo(ctx, b.BookerID)
		if err != nil {
			return nil, fmt.Errorf("resolve booker: %w", err)
		}
		responses = append(responses, toResponse(b, item, booker))
	}
	return responses, nil
}

func (s *Service) listArgs(ctx context.Context, subjectID int64, state string, from, size int) (State, *UserInfo, error) {
	st, err := ParseState(state)
	if err != nil {
		return "", nil, err
	}
	if from < 0 {
		return "", nil, apperror.Validation("from must not be negative")
	}
	if size <= 0 {
		return "", nil, apperror.Validation("size must be positive")
	}
	subject, err := s.users.UserInfo(ctx, subjectID)
	if err != nil {
		return "", nil, fmt.Errorf("resolve user: %w", err)
	}
	if subject == nil {
		return "", nil, apperror.NotFound("User %d not found", subjectID)
	}
	return st, subject, nil
}

func (s *Service) load(ctx context.Context, bookingID int64) (*Booking, *ItemInfo, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("get booking: %w", err)
	}
	if b == nil {
		return nil, nil, apperror.NotFound("Booking %d not found", bookingID)
	}
	item, err := s.items.ItemInfo(ctx, b.ItemID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve item: %w", err)
	}
	if item == nil {
		return nil, nil, apperror.NotFound("Item %d not found", b.ItemID)
	}
	return b, item, nil
}
