package identity

import (
	"context"

	"github.com/medbook/medbook/internal/domain"
)

// Repository defines the interface for user persistence. There are no
// update or delete operations: user records are immutable once created.
type Repository interface {
	// CreateUser inserts a new user. Returns ErrEmailExists when the email
	// is already taken; uniqueness is enforced by the storage layer, not by
	// a prior existence check.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}
