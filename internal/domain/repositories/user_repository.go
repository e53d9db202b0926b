package repositories

import (
	"context"

	"github.com/google/uuid"

	"civic-connect.backend/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByMobileNumber(ctx context.Context, mobileNumber string) (*entities.User, error)
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*entities.User, error)
	GetByCivicID(ctx context.Context, civicID string) (*entities.User, error)
	LinkFirebaseUID(ctx context.Context, id uuid.UUID, firebaseUID string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
}
