package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/infrastructure/models"
)

// IssueRepository implements issue data operations
type IssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Create creates a new issue
func (r *IssueRepository) Create(ctx context.Context, issue *entities.Issue) error {
	m := &models.Issue{
		ID:              issue.ID,
		UserID:          issue.UserID,
		Title:           issue.Title,
		Description:     issue.Description,
		Latitude:        issue.Latitude,
		Longitude:       issue.Longitude,
		Category:        issue.Category,
		Priority:        issue.Priority,
		DescriptionMode: issue.DescriptionMode,
		Status:          string(issue.Status),
		VouchCount:      issue.VouchCount,
		ImageFilename:   issue.ImageFilename.Ptr(),
		AudioFilename:   issue.AudioFilename.Ptr(),
		ImageURL:        issue.ImageURL.Ptr(),
		AudioURL:        issue.AudioURL.Ptr(),
		CreatedAt:       issue.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets an issue by ID
func (r *IssueRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	var m models.Issue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return issueToEntity(&m), nil
}

// List lists all issues, newest first
func (r *IssueRepository) List(ctx context.Context) ([]*entities.Issue, error) {
	var issueModels []models.Issue
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&issueModels).Error; err != nil {
		return nil, err
	}

	issues := make([]*entities.Issue, 0, len(issueModels))
	for _, m := range issueModels {
		model := m
		issues = append(issues, issueToEntity(&model))
	}
	return issues, nil
}

// ListExcludingUser lists issues not reported by the given user, newest first
func (r *IssueRepository) ListExcludingUser(ctx context.Context, userID uuid.UUID) ([]*entities.Issue, error) {
	var issueModels []models.Issue
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL OR user_id <> ?", userID).
		Order("created_at DESC").
		Find(&issueModels).Error
	if err != nil {
		return nil, err
	}

	issues := make([]*entities.Issue, 0, len(issueModels))
	for _, m := range issueModels {
		model := m
		issues = append(issues, issueToEntity(&model))
	}
	return issues, nil
}

func issueToEntity(m *models.Issue) *entities.Issue {
	return &entities.Issue{
		ID:              m.ID,
		UserID:          m.UserID,
		Title:           m.Title,
		Description:     m.Description,
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		Category:        m.Category,
		Priority:        m.Priority,
		DescriptionMode: m.DescriptionMode,
		Status:          entities.IssueStatus(m.Status),
		VouchCount:      m.VouchCount,
		ImageFilename:   null.StringFromPtr(m.ImageFilename),
		AudioFilename:   null.StringFromPtr(m.AudioFilename),
		ImageURL:        null.StringFromPtr(m.ImageURL),
		AudioURL:        null.StringFromPtr(m.AudioURL),
		CreatedAt:       m.CreatedAt,
	}
}
