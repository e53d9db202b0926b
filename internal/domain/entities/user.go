package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AuthProvider records how a user's identity was established
type AuthProvider string

const (
	AuthProviderOTP      AuthProvider = "otp"
	AuthProviderFirebase AuthProvider = "firebase"
)

// AuthType distinguishes the two OTP flows
type AuthType string

const (
	AuthTypeLogin    AuthType = "login"
	AuthTypeRegister AuthType = "register"
)

// User represents a user entity
type User struct {
	ID           uuid.UUID    `json:"id"`
	MobileNumber string       `json:"mobile_number"`
	FirebaseUID  null.String  `json:"firebase_uid,omitempty"`
	CivicID      string       `json:"civic_id"`
	IsVerified   bool         `json:"is_verified"`
	AuthProvider AuthProvider `json:"auth_provider"`
	FullName     null.String  `json:"full_name"`
	Email        null.String  `json:"email"`
	Address      null.String  `json:"address"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// PendingProfile carries optional profile fields submitted with a
// registration OTP request, applied once the OTP is verified.
type PendingProfile struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}

// SendOTPInput represents input for requesting an OTP
type SendOTPInput struct {
	MobileNumber string          `json:"mobile_number" binding:"required,len=10"`
	Type         AuthType        `json:"type" binding:"required,oneof=login register"`
	UserData     *PendingProfile `json:"user_data"`
}

// VerifyOTPInput represents input for verifying an OTP
type VerifyOTPInput struct {
	MobileNumber string          `json:"mobile_number" binding:"required,len=10"`
	OTP          string          `json:"otp" binding:"required,len=6"`
	Type         AuthType        `json:"type" binding:"required,oneof=login register"`
	UserData     *PendingProfile `json:"user_data"`
}

// FirebaseAuthInput represents input for delegated phone authentication
type FirebaseAuthInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

// UpdateProfileInput represents input for updating a user profile
type UpdateProfileInput struct {
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Address  string `json:"address" binding:"required"`
	CivicID  string `json:"civic_id"`
}
