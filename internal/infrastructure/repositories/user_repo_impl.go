package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:           user.ID,
		MobileNumber: user.MobileNumber,
		FirebaseUID:  user.FirebaseUID.Ptr(),
		CivicID:      user.CivicID,
		IsVerified:   user.IsVerified,
		AuthProvider: string(user.AuthProvider),
		FullName:     user.FullName.Ptr(),
		Email:        user.Email.Ptr(),
		Address:      user.Address.Ptr(),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateErr(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByMobileNumber gets a user by normalized mobile number
func (r *UserRepository) GetByMobileNumber(ctx context.Context, mobileNumber string) (*entities.User, error) {
	return r.getBy(ctx, "mobile_number = ?", mobileNumber)
}

// GetByFirebaseUID gets a user by delegated provider subject id
func (r *UserRepository) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*entities.User, error) {
	return r.getBy(ctx, "firebase_uid = ?", firebaseUID)
}

// GetByCivicID gets a user by civic id
func (r *UserRepository) GetByCivicID(ctx context.Context, civicID string) (*entities.User, error) {
	return r.getBy(ctx, "civic_id = ?", civicID)
}

// LinkFirebaseUID attaches a delegated provider subject id to an existing user
func (r *UserRepository) LinkFirebaseUID(ctx context.Context, id uuid.UUID, firebaseUID string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"firebase_uid":  firebaseUID,
		"auth_provider": string(entities.AuthProviderFirebase),
		"is_verified":   true,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return domainerrors.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateProfile updates the editable profile fields and returns the fresh row
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	updates := map[string]interface{}{
		"full_name":  input.FullName,
		"email":      input.Email,
		"address":    input.Address,
		"updated_at": time.Now(),
	}
	if input.CivicID != "" {
		updates["civic_id"] = input.CivicID
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return nil, domainerrors.ErrAlreadyExists
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) getBy(ctx context.Context, query string, arg interface{}) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

func userToEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:           m.ID,
		MobileNumber: m.MobileNumber,
		FirebaseUID:  null.StringFromPtr(m.FirebaseUID),
		CivicID:      m.CivicID,
		IsVerified:   m.IsVerified,
		AuthProvider: entities.AuthProvider(m.AuthProvider),
		FullName:     null.StringFromPtr(m.FullName),
		Email:        null.StringFromPtr(m.Email),
		Address:      null.StringFromPtr(m.Address),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// isDuplicateErr reports whether err is a unique constraint violation.
// GORM only translates these for some drivers, so the message is
// checked for the postgres and sqlite variants as well.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
