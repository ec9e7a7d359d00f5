package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stackline/user-gateway/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// UserRepository handles user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByUsername reports whether a user with the username exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether a user with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List retrieves all users ordered by creation time
	List(ctx context.Context) ([]*models.User, error)

	// Update updates a user's mutable fields
	Update(ctx context.Context, user *models.User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// SetEnabled flips a user's enabled flag
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error

	// TouchLastLogin records a successful login
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}
