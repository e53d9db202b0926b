package repositories

import (
	"context"

	"github.com/google/uuid"

	"civic-connect.backend/internal/domain/entities"
)

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	Create(ctx context.Context, issue *entities.Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Issue, error)
	List(ctx context.Context) ([]*entities.Issue, error)
	// ListExcludingUser returns issues not reported by the given user,
	// newest first. Used for the nearby feed.
	ListExcludingUser(ctx context.Context, userID uuid.UUID) ([]*entities.Issue, error)
}
