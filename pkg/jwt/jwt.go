package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents session token claims binding a user to a mobile number.
type Claims struct {
	UserID       uuid.UUID `json:"user_id"`
	MobileNumber string    `json:"mobile_number"`
	jwt.RegisteredClaims
}

// JWTService issues and validates self-signed session tokens
type JWTService struct {
	secret        []byte
	sessionExpiry time.Duration
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, sessionExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:        []byte(secret),
		sessionExpiry: sessionExpiry,
	}
}

// Generate issues a session token for the given user identity
func (s *JWTService) Generate(userID uuid.UUID, mobileNumber string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       userID,
		MobileNumber: mobileNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signJWTToken(token, s.secret)
}

// Validate validates a session token and returns the claims.
// Expiry is reported as ErrExpiredToken so callers can log the distinction;
// every other failure collapses to ErrInvalidToken. Callers must not branch
// security decisions on the reason.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
