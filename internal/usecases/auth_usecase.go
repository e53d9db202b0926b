package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/domain/repositories"
	"civic-connect.backend/pkg/crypto"
	"civic-connect.backend/pkg/jwt"
	"civic-connect.backend/pkg/logger"
	"civic-connect.backend/pkg/phone"
)

const (
	civicIDPrefix       = "CIV"
	civicIDAttemptsPass = 5
)

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	otpStore   repositories.OTPChallengeStore
	smsSender  repositories.SMSSender
	verifier   repositories.DelegatedVerifier
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	otpStore repositories.OTPChallengeStore,
	smsSender repositories.SMSSender,
	verifier repositories.DelegatedVerifier,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		otpStore:   otpStore,
		smsSender:  smsSender,
		verifier:   verifier,
		jwtService: jwtService,
	}
}

// SendOTP issues a one-time code after checking the flow makes sense
// for the phone: login requires an existing account, register a free one.
func (u *AuthUsecase) SendOTP(ctx context.Context, input *entities.SendOTPInput) (string, error) {
	mobile, ok := phone.Normalize(input.MobileNumber)
	if !ok {
		return "", fmt.Errorf("mobile number required: %w", domainerrors.ErrInvalidInput)
	}

	_, err := u.userRepo.GetByMobileNumber(ctx, mobile)
	switch input.Type {
	case entities.AuthTypeLogin:
		if errors.Is(err, domainerrors.ErrNotFound) {
			return "", domainerrors.NewNotFound("Mobile number not registered. Please register first.", err)
		}
		if err != nil {
			return "", err
		}
	case entities.AuthTypeRegister:
		if err == nil {
			return "", domainerrors.NewConflict("Mobile number already registered. Please login instead.", domainerrors.ErrAlreadyExists)
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown auth type %q: %w", input.Type, domainerrors.ErrInvalidInput)
	}

	code, err := u.otpStore.Issue(ctx, mobile, input.Type, input.UserData)
	if err != nil {
		return "", err
	}
	if err := u.smsSender.SendOTP(ctx, mobile, code); err != nil {
		return "", err
	}
	return mobile, nil
}

// VerifyOTP consumes the challenge and either logs the user in or
// provisions the account, returning the user and a session token.
func (u *AuthUsecase) VerifyOTP(ctx context.Context, input *entities.VerifyOTPInput) (*entities.User, string, error) {
	mobile, ok := phone.Normalize(input.MobileNumber)
	if !ok {
		return nil, "", fmt.Errorf("mobile number required: %w", domainerrors.ErrInvalidInput)
	}

	challenge, err := u.otpStore.Consume(ctx, mobile, input.Type, input.OTP)
	if err != nil {
		return nil, "", err
	}

	var user *entities.User
	switch input.Type {
	case entities.AuthTypeLogin:
		user, err = u.userRepo.GetByMobileNumber(ctx, mobile)
		if err != nil {
			return nil, "", err
		}
	case entities.AuthTypeRegister:
		pending := challenge.Pending
		if pending == nil {
			pending = input.UserData
		}
		user, err = u.provisionUser(ctx, mobile, "", entities.AuthProviderOTP, pending)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", fmt.Errorf("unknown auth type %q: %w", input.Type, domainerrors.ErrInvalidInput)
	}

	token, err := u.jwtService.Generate(user.ID, user.MobileNumber)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// FirebaseAuth verifies a delegated phone token, reconciles it with the
// user table, and mints a session token.
func (u *AuthUsecase) FirebaseAuth(ctx context.Context, input *entities.FirebaseAuthInput) (*entities.User, string, error) {
	assertion, err := u.verifier.Verify(ctx, input.IDToken)
	if err != nil {
		return nil, "", err
	}

	user, err := u.reconcileDelegated(ctx, assertion)
	if err != nil {
		return nil, "", err
	}

	token, err := u.jwtService.Generate(user.ID, user.MobileNumber)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResolveCredential turns a bearer token into a caller identity. Both
// trust domains are tried in order: a self-issued session token first,
// then a delegated provider token. Anything unresolvable yields a nil
// identity rather than an error, so callers degrade to anonymous.
func (u *AuthUsecase) ResolveCredential(ctx context.Context, token string) *entities.Identity {
	if token == "" {
		return nil
	}

	if claims, err := u.jwtService.Validate(token); err == nil {
		identity := &entities.Identity{
			UserID:       claims.UserID,
			MobileNumber: claims.MobileNumber,
			Credential:   entities.CredentialSession,
		}
		if user, err := u.userRepo.GetByID(ctx, claims.UserID); err == nil {
			identity.CivicID = user.CivicID
			identity.FirebaseUID = user.FirebaseUID.String
		}
		return identity
	}

	assertion, err := u.verifier.Verify(ctx, token)
	if err != nil {
		return nil
	}

	user, err := u.reconcileDelegated(ctx, assertion)
	if err != nil {
		logger.Warn(ctx, "delegated identity reconciliation failed", zap.Error(err))
		return nil
	}

	return &entities.Identity{
		UserID:       user.ID,
		MobileNumber: user.MobileNumber,
		FirebaseUID:  user.FirebaseUID.String,
		CivicID:      user.CivicID,
		Credential:   entities.CredentialDelegated,
	}
}

// GetProfile returns the user by id
func (u *AuthUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// UpdateProfile updates the editable profile fields
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.userRepo.UpdateProfile(ctx, userID, input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.NewConflict("Civic ID already taken", err)
		}
		return nil, err
	}
	return user, nil
}

// reconcileDelegated maps a verified phone assertion onto a user row:
// by subject id first, then by phone (linking the subject), else a
// fresh account. Create races against another request fall back to a
// re-lookup.
func (u *AuthUsecase) reconcileDelegated(ctx context.Context, assertion *entities.DelegatedIdentity) (*entities.User, error) {
	mobile, ok := phone.Normalize(assertion.PhoneNumber)
	if !ok {
		return nil, fmt.Errorf("token carries no usable phone number: %w", domainerrors.ErrUnauthorized)
	}

	user, err := u.userRepo.GetByFirebaseUID(ctx, assertion.SubjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	user, err = u.userRepo.GetByMobileNumber(ctx, mobile)
	if err == nil {
		if linkErr := u.userRepo.LinkFirebaseUID(ctx, user.ID, assertion.SubjectID); linkErr != nil && !errors.Is(linkErr, domainerrors.ErrAlreadyExists) {
			return nil, linkErr
		}
		return u.userRepo.GetByID(ctx, user.ID)
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	user, err = u.provisionUser(ctx, mobile, assertion.SubjectID, entities.AuthProviderFirebase, nil)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, domainerrors.ErrAlreadyExists) {
		// Lost a provisioning race; the winner's row serves both requests
		if user, lookupErr := u.userRepo.GetByFirebaseUID(ctx, assertion.SubjectID); lookupErr == nil {
			return user, nil
		}
		if user, lookupErr := u.userRepo.GetByMobileNumber(ctx, mobile); lookupErr == nil {
			return user, nil
		}
	}
	return nil, err
}

func (u *AuthUsecase) provisionUser(ctx context.Context, mobile, firebaseUID string, provider entities.AuthProvider, pending *entities.PendingProfile) (*entities.User, error) {
	civicID, err := u.generateCivicID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entities.User{
		ID:           uuid.New(),
		MobileNumber: mobile,
		CivicID:      civicID,
		IsVerified:   true,
		AuthProvider: provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if firebaseUID != "" {
		user.FirebaseUID = null.StringFrom(firebaseUID)
	}
	if pending != nil {
		if pending.FullName != "" {
			user.FullName = null.StringFrom(pending.FullName)
		}
		if pending.Email != "" {
			user.Email = null.StringFrom(pending.Email)
		}
		if pending.Address != "" {
			user.Address = null.StringFrom(pending.Address)
		}
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// generateCivicID draws random ids until one is free: a handful of
// 6-digit attempts, then 7-digit ones when the short space runs hot.
func (u *AuthUsecase) generateCivicID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 2*civicIDAttemptsPass; attempt++ {
		min, max := int64(100000), int64(1000000)
		if attempt >= civicIDAttemptsPass {
			min, max = 1000000, 10000000
		}

		n, err := crypto.RandomIntInRange(min, max)
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s%d", civicIDPrefix, n)

		_, err = u.userRepo.GetByCivicID(ctx, candidate)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not allocate a free civic id")
}
