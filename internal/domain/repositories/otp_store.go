package repositories

import (
	"context"

	"civic-connect.backend/internal/domain/entities"
)

// OTPChallenge is the decoded state of a consumed challenge
type OTPChallenge struct {
	MobileNumber string
	AuthType     entities.AuthType
	Pending      *entities.PendingProfile
}

// OTPChallengeStore defines the interface for one-time-code challenges.
// Issue returns the plaintext code so the caller can hand it to an SMS
// sender; only a hash is persisted.
type OTPChallengeStore interface {
	Issue(ctx context.Context, mobileNumber string, authType entities.AuthType, pending *entities.PendingProfile) (string, error)
	// Consume verifies the code and removes the challenge. It returns
	// ErrNotFound when no challenge exists, ErrOTPExpired when the
	// logical window has lapsed, and ErrOTPMismatch on a wrong code.
	Consume(ctx context.Context, mobileNumber string, authType entities.AuthType, code string) (*OTPChallenge, error)
}
