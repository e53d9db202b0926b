package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/infrastructure/models"
)

// VouchRepository implements vouch ledger operations
type VouchRepository struct {
	db *gorm.DB
}

// NewVouchRepository creates a new vouch repository
func NewVouchRepository(db *gorm.DB) *VouchRepository {
	return &VouchRepository{db: db}
}

// VouchIdentified inserts a ledger row and bumps the issue counter in
// one transaction. The composite unique index on (issue_id, user_id)
// makes concurrent duplicates lose cleanly: the insert fails, the
// transaction rolls back, and the counter is untouched.
func (r *VouchRepository) VouchIdentified(ctx context.Context, issueID, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issue models.Issue
		if err := tx.Where("id = ?", issueID).First(&issue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNotFound
			}
			return err
		}

		v := &models.Vouch{
			ID:        uuid.New(),
			IssueID:   issueID,
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(v).Error; err != nil {
			if isDuplicateErr(err) {
				return domainerrors.ErrAlreadyExists
			}
			return err
		}

		result := tx.Model(&models.Issue{}).
			Where("id = ?", issueID).
			Update("vouch_count", gorm.Expr("vouch_count + 1"))
		if result.Error != nil {
			return result.Error
		}

		// Re-read after the increment so the reported count reflects
		// concurrent committed vouches, not the row as of tx start.
		var updated models.Issue
		if err := tx.Select("vouch_count").Where("id = ?", issueID).First(&updated).Error; err != nil {
			return err
		}
		count = updated.VouchCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// VouchAnonymous bumps the issue counter without a ledger row
func (r *VouchRepository) VouchAnonymous(ctx context.Context, issueID uuid.UUID) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Issue{}).
			Where("id = ?", issueID).
			Update("vouch_count", gorm.Expr("vouch_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}

		var issue models.Issue
		if err := tx.Select("vouch_count").Where("id = ?", issueID).First(&issue).Error; err != nil {
			return err
		}
		count = issue.VouchCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// HasVouched reports whether the user already vouched the issue
func (r *VouchRepository) HasVouched(ctx context.Context, issueID, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Vouch{}).
		Where("issue_id = ? AND user_id = ?", issueID, userID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListVouchedIssues returns the issues the user vouched, most recent vouch first
func (r *VouchRepository) ListVouchedIssues(ctx context.Context, userID uuid.UUID) ([]*entities.VouchedIssue, error) {
	var vouchModels []models.Vouch
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&vouchModels).Error
	if err != nil {
		return nil, err
	}

	vouched := make([]*entities.VouchedIssue, 0, len(vouchModels))
	for _, v := range vouchModels {
		var m models.Issue
		if err := r.db.WithContext(ctx).Where("id = ?", v.IssueID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		vouched = append(vouched, &entities.VouchedIssue{
			Issue:     issueToEntity(&m),
			VouchedAt: v.CreatedAt,
		})
	}
	return vouched, nil
}
