package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stackline/user-gateway/models"
	"github.com/stackline/user-gateway/repositories"
	"go.uber.org/zap"
)

// UserService implements user lookups and management. Authorization happens
// in the request pipeline before these methods run; they only enforce data
// integrity.
type UserService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return user, nil
}

// GetBySubject retrieves the user behind a token subject
func (s *UserService) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return s.GetByID(ctx, id)
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to list users", err)
	}
	return users, nil
}

// Update applies the mutable fields of the request to the user
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Roles != nil {
		user.Roles = req.Roles
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapLookupError(err)
	}

	s.logger.Info("user updated", zap.String("id", id.String()))
	return user, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return mapLookupError(err)
	}
	s.logger.Info("user deleted", zap.String("id", id.String()))
	return nil
}

// BulkDisable disables the given accounts and returns how many were changed.
// Unknown IDs are skipped rather than failing the whole batch.
func (s *UserService) BulkDisable(ctx context.Context, ids []uuid.UUID) (int, error) {
	disabled := 0
	for _, id := range ids {
		if err := s.users.SetEnabled(ctx, id, false); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return disabled, NewDomainError(ErrorTypeInternal, "failed to disable user", err)
		}
		disabled++
	}
	s.logger.Info("bulk disable completed", zap.Int("disabled", disabled), zap.Int("requested", len(ids)))
	return disabled, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserNotFound
	}
	return NewDomainError(ErrorTypeInternal, "user store failure", err)
}
