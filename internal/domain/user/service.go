package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sharekit/sharekit-api/internal/pkg/apperror"
)

const sqlStateUniqueViolation = "23505"

// Service handles user business logic
type Service struct {
	repo Repository
}

// NewService creates a new user service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new user
func (s *Service) Create(ctx context.Context, req CreateRequest) (*UserResponse, error) {
	u := &User{Name: req.Name, Email: req.Email}
	if err := s.repo.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("Email %s is already registered", req.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u.ToResponse(), nil
}

// GetByID returns a user by id
func (s *Service) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, apperror.NotFound("User %d not found", id)
	}
	return u.ToResponse(), nil
}

// List returns all users
func (s *Service) List(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	responses := make([]*UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses, nil
}

// Update applies a partial update to a user
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, apperror.NotFound("User %d not found", id)
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("Email %s is already registered", u.Email)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u.ToResponse(), nil
}

// Delete removes a user by id
func (s *Service) Delete(ctx context.Context, id int64) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return apperror.NotFound("User %d not found", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == sqlStateUniqueViolation
}
