package repositories

import (
	"context"

	"github.com/google/uuid"

	"civic-connect.backend/internal/domain/entities"
)

// VouchRepository defines the interface for vouch data access
type VouchRepository interface {
	// VouchIdentified records a vouch for the user and increments the
	// issue counter atomically. Returns the updated count, or
	// ErrAlreadyExists if the user already vouched this issue.
	VouchIdentified(ctx context.Context, issueID, userID uuid.UUID) (int, error)
	// VouchAnonymous increments the issue counter without a ledger row.
	VouchAnonymous(ctx context.Context, issueID uuid.UUID) (int, error)
	HasVouched(ctx context.Context, issueID, userID uuid.UUID) (bool, error)
	ListVouchedIssues(ctx context.Context, userID uuid.UUID) ([]*entities.VouchedIssue, error)
}
