package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/domain/repositories"
	"civic-connect.backend/pkg/logger"
)

// VouchUsecase handles vouch ledger business logic
type VouchUsecase struct {
	primary       repositories.VouchRepository
	fallback      repositories.VouchRepository
	primaryIssues repositories.IssueRepository
	fallbackIssue repositories.IssueRepository
}

// NewVouchUsecase creates a new vouch usecase
func NewVouchUsecase(
	primary, fallback repositories.VouchRepository,
	primaryIssues, fallbackIssues repositories.IssueRepository,
) *VouchUsecase {
	return &VouchUsecase{
		primary:       primary,
		fallback:      fallback,
		primaryIssues: primaryIssues,
		fallbackIssue: fallbackIssues,
	}
}

// Vouch records an endorsement. Identified callers get one vouch per
// issue; anonymous callers only move the counter. Repeats are reported,
// not errors, so clients can render the state directly.
func (u *VouchUsecase) Vouch(ctx context.Context, issueID uuid.UUID, identity *entities.Identity) (*entities.VouchResult, error) {
	if identity == nil {
		return u.vouchAnonymous(ctx, issueID)
	}
	return u.vouchIdentified(ctx, issueID, identity.UserID)
}

func (u *VouchUsecase) vouchIdentified(ctx context.Context, issueID, userID uuid.UUID) (*entities.VouchResult, error) {
	count, err := u.primary.VouchIdentified(ctx, issueID, userID)
	switch {
	case err == nil:
		return &entities.VouchResult{
			IssueID:     issueID,
			VouchCount:  count,
			UserVouched: true,
			UserID:      &userID,
			Source:      SourceDatabase,
		}, nil
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		issue, getErr := u.primaryIssues.GetByID(ctx, issueID)
		if getErr != nil {
			return nil, getErr
		}
		return &entities.VouchResult{
			IssueID:        issueID,
			VouchCount:     issue.VouchCount,
			AlreadyVouched: true,
			UserVouched:    true,
			UserID:         &userID,
			Source:         SourceDatabase,
		}, nil
	case errors.Is(err, domainerrors.ErrNotFound):
		// The issue may only exist in the memory fallback
		return u.vouchIdentifiedFallback(ctx, issueID, userID, err)
	default:
		logger.Warn(ctx, "primary vouch store unavailable, using memory fallback", zap.Error(err))
		return u.vouchIdentifiedFallback(ctx, issueID, userID, err)
	}
}

func (u *VouchUsecase) vouchIdentifiedFallback(ctx context.Context, issueID, userID uuid.UUID, primaryErr error) (*entities.VouchResult, error) {
	count, err := u.fallback.VouchIdentified(ctx, issueID, userID)
	switch {
	case err == nil:
		return &entities.VouchResult{
			IssueID:     issueID,
			VouchCount:  count,
			UserVouched: true,
			UserID:      &userID,
			Source:      SourceMemory,
		}, nil
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		issue, getErr := u.fallbackIssue.GetByID(ctx, issueID)
		if getErr != nil {
			return nil, getErr
		}
		return &entities.VouchResult{
			IssueID:        issueID,
			VouchCount:     issue.VouchCount,
			AlreadyVouched: true,
			UserVouched:    true,
			UserID:         &userID,
			Source:         SourceMemory,
		}, nil
	case errors.Is(err, domainerrors.ErrNotFound):
		return nil, primaryErr
	default:
		return nil, err
	}
}

func (u *VouchUsecase) vouchAnonymous(ctx context.Context, issueID uuid.UUID) (*entities.VouchResult, error) {
	count, err := u.primary.VouchAnonymous(ctx, issueID)
	if err == nil {
		return &entities.VouchResult{IssueID: issueID, VouchCount: count, Source: SourceDatabase}, nil
	}

	if !errors.Is(err, domainerrors.ErrNotFound) {
		logger.Warn(ctx, "primary vouch store unavailable, using memory fallback", zap.Error(err))
	}
	count, fbErr := u.fallback.VouchAnonymous(ctx, issueID)
	if fbErr != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		return nil, fbErr
	}
	return &entities.VouchResult{IssueID: issueID, VouchCount: count, Source: SourceMemory}, nil
}

// Status reports the counter and whether the caller vouched, without
// side effects.
func (u *VouchUsecase) Status(ctx context.Context, issueID uuid.UUID, identity *entities.Identity) (*entities.VouchStatus, error) {
	issue, err := u.primaryIssues.GetByID(ctx, issueID)
	source := SourceDatabase
	vouches := u.primary
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "primary issue store unavailable, reading memory fallback", zap.Error(err))
		}
		fbIssue, fbErr := u.fallbackIssue.GetByID(ctx, issueID)
		if fbErr != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, err
			}
			return nil, fbErr
		}
		issue, source, vouches = fbIssue, SourceMemory, u.fallback
	}

	status := &entities.VouchStatus{
		IssueID:    issueID,
		Title:      issue.Title,
		VouchCount: issue.VouchCount,
		Source:     source,
	}
	if identity != nil {
		has, err := vouches.HasVouched(ctx, issueID, identity.UserID)
		if err != nil {
			return nil, err
		}
		status.UserVouched = has
	}
	return status, nil
}

// ListVouched returns the issues the user vouched, most recent first
func (u *VouchUsecase) ListVouched(ctx context.Context, userID uuid.UUID) ([]*entities.VouchedIssue, string, error) {
	vouched, err := u.primary.ListVouchedIssues(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "primary vouch store unavailable, listing memory fallback", zap.Error(err))
		vouched, fbErr := u.fallback.ListVouchedIssues(ctx, userID)
		if fbErr != nil {
			return nil, "", fbErr
		}
		return vouched, SourceMemory, nil
	}
	return vouched, SourceDatabase, nil
}
