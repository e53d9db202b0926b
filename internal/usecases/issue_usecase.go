package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/domain/repositories"
	"civic-connect.backend/pkg/logger"
)

// Issue sources reported to clients so they can tell durable writes
// from fallback ones.
const (
	SourceDatabase = "database"
	SourceMemory   = "memory"
)

// IssueUsecase handles issue reporting business logic
type IssueUsecase struct {
	primary  repositories.IssueRepository
	fallback repositories.IssueRepository
	media    repositories.MediaStore
}

// NewIssueUsecase creates a new issue usecase
func NewIssueUsecase(primary, fallback repositories.IssueRepository, media repositories.MediaStore) *IssueUsecase {
	return &IssueUsecase{primary: primary, fallback: fallback, media: media}
}

// CreateIssue uploads any attached media and persists the issue,
// falling back to the in-memory store when the database is down.
// Reporting keeps working without media: a failed upload is logged and
// the issue lands without that attachment.
func (u *IssueUsecase) CreateIssue(ctx context.Context, identity *entities.Identity, input *entities.CreateIssueInput, image, audio *entities.MediaUpload) (*entities.Issue, string, error) {
	issue := &entities.Issue{
		ID:              uuid.New(),
		Title:           input.Title,
		Description:     input.Description,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Category:        input.Category,
		Priority:        input.Priority,
		DescriptionMode: input.DescriptionMode,
		Status:          entities.IssueStatusOpen,
		VouchCount:      entities.InitialVouchCount,
		CreatedAt:       time.Now(),
	}
	if identity != nil {
		userID := identity.UserID
		issue.UserID = &userID
	}

	if image != nil {
		url, storedName, err := u.media.Upload(ctx, repositories.MediaKindImage, image.Filename, image.Data, image.ContentType)
		if err != nil {
			logger.Warn(ctx, "image upload failed", zap.Error(err))
		} else {
			issue.ImageURL = null.StringFrom(url)
			issue.ImageFilename = null.StringFrom(storedName)
		}
	}
	if audio != nil {
		url, storedName, err := u.media.Upload(ctx, repositories.MediaKindAudio, audio.Filename, audio.Data, audio.ContentType)
		if err != nil {
			logger.Warn(ctx, "audio upload failed", zap.Error(err))
		} else {
			issue.AudioURL = null.StringFrom(url)
			issue.AudioFilename = null.StringFrom(storedName)
		}
	}

	if err := u.primary.Create(ctx, issue); err != nil {
		logger.Warn(ctx, "primary issue store unavailable, using memory fallback", zap.Error(err))
		if fbErr := u.fallback.Create(ctx, issue); fbErr != nil {
			return nil, "", fbErr
		}
		return issue, SourceMemory, nil
	}
	return issue, SourceDatabase, nil
}

// ListIssues returns all issues, newest first
func (u *IssueUsecase) ListIssues(ctx context.Context) ([]*entities.Issue, string, error) {
	issues, err := u.primary.List(ctx)
	if err != nil {
		logger.Warn(ctx, "primary issue store unavailable, listing memory fallback", zap.Error(err))
		issues, fbErr := u.fallback.List(ctx)
		if fbErr != nil {
			return nil, "", fbErr
		}
		return issues, SourceMemory, nil
	}
	return issues, SourceDatabase, nil
}

// ListNearby returns issues for the feed, hiding the caller's own
// reports when the caller is identified.
func (u *IssueUsecase) ListNearby(ctx context.Context, identity *entities.Identity) ([]*entities.Issue, string, error) {
	if identity == nil {
		return u.ListIssues(ctx)
	}

	issues, err := u.primary.ListExcludingUser(ctx, identity.UserID)
	if err != nil {
		logger.Warn(ctx, "primary issue store unavailable, listing memory fallback", zap.Error(err))
		issues, fbErr := u.fallback.ListExcludingUser(ctx, identity.UserID)
		if fbErr != nil {
			return nil, "", fbErr
		}
		return issues, SourceMemory, nil
	}
	return issues, SourceDatabase, nil
}

// GetIssue returns one issue, checking the fallback when the primary
// store does not know the id.
func (u *IssueUsecase) GetIssue(ctx context.Context, id uuid.UUID) (*entities.Issue, string, error) {
	issue, err := u.primary.GetByID(ctx, id)
	if err == nil {
		return issue, SourceDatabase, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		logger.Warn(ctx, "primary issue store unavailable, reading memory fallback", zap.Error(err))
	}

	issue, fbErr := u.fallback.GetByID(ctx, id)
	if fbErr != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", fbErr
	}
	return issue, SourceMemory, nil
}
