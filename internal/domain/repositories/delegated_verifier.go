package repositories

import (
	"context"

	"civic-connect.backend/internal/domain/entities"
)

// DelegatedVerifier validates tokens minted by an external identity
// provider and extracts the phone assertion they carry. Returns
// ErrUnauthorized for bad tokens and ErrUnavailable when the provider
// integration is not configured.
type DelegatedVerifier interface {
	Verify(ctx context.Context, idToken string) (*entities.DelegatedIdentity, error)
}
