package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/interfaces/http/middleware"
	"civic-connect.backend/internal/interfaces/http/response"
	"civic-connect.backend/internal/usecases"
)

// AuthService is the surface of the auth usecase the handler needs
type AuthService interface {
	SendOTP(ctx context.Context, input *entities.SendOTPInput) (string, error)
	VerifyOTP(ctx context.Context, input *entities.VerifyOTPInput) (*entities.User, string, error)
	FirebaseAuth(ctx context.Context, input *entities.FirebaseAuthInput) (*entities.User, string, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
}

var _ AuthService = (*usecases.AuthUsecase)(nil)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// SendOTP handles one-time-code requests
// POST /auth/send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var input entities.SendOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.NewBadRequest(err.Error(), err))
		return
	}

	mobile, err := h.authUsecase.SendOTP(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":       "OTP sent successfully",
		"mobile_number": mobile,
	})
}

// VerifyOTP handles one-time-code verification for both flows
// POST /auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var input entities.VerifyOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.NewBadRequest(err.Error(), err))
		return
	}

	user, token, err := h.authUsecase.VerifyOTP(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Login successful"
	if input.Type == entities.AuthTypeRegister {
		message = "Registration successful"
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": message,
		"user":    user,
		"token":   token,
	})
}

// FirebaseAuth handles delegated phone authentication
// POST /auth/firebase
func (h *AuthHandler) FirebaseAuth(c *gin.Context) {
	var input entities.FirebaseAuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.NewBadRequest(err.Error(), err))
		return
	}

	user, token, err := h.authUsecase.FirebaseAuth(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Authentication successful",
		"token":   token,
		"user":    user,
	})
}

// GetProfile returns the caller's profile
// GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Error(c, domainerrors.NewUnauthorized("Authentication required", nil))
		return
	}

	user, err := h.authUsecase.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the caller's profile
// PUT /auth/update-profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Error(c, domainerrors.NewUnauthorized("Authentication required", nil))
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.NewBadRequest(err.Error(), err))
		return
	}

	user, err := h.authUsecase.UpdateProfile(c.Request.Context(), identity.UserID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
