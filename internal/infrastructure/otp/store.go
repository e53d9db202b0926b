// Package otp stores one-time-code challenges in Redis. The payload is
// encrypted with AES-256-GCM and the code itself is only kept as a
// bcrypt hash, so a Redis dump leaks neither codes nor profile data.
package otp

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
	"civic-connect.backend/internal/domain/repositories"
	"civic-connect.backend/pkg/crypto"
	"civic-connect.backend/pkg/redis"
)

type challengePayload struct {
	CodeHash     string                   `json:"code_hash"`
	MobileNumber string                   `json:"mobile_number"`
	AuthType     string                   `json:"auth_type"`
	Pending      *entities.PendingProfile `json:"pending,omitempty"`
	ExpiresAt    time.Time                `json:"expires_at"`
}

// Store implements repositories.OTPChallengeStore on Redis
type Store struct {
	encryptionKey []byte
	window        time.Duration
}

var (
	setChallengeValue    = redis.Set
	getDelChallengeValue = redis.GetDel
	nowFunc              = time.Now
)

// NewStore creates a challenge store. The window is the logical code
// lifetime; keys linger in Redis for twice that so an expired code can
// be reported as expired rather than unknown.
func NewStore(encryptionKeyHex string, window time.Duration) (*Store, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &Store{encryptionKey: key, window: window}, nil
}

func challengeKey(mobileNumber string, authType entities.AuthType) string {
	return "otp:" + mobileNumber + ":" + string(authType)
}

// Issue generates a fresh code, persists its hash, and returns the
// plaintext code for delivery. Reissuing replaces any earlier
// challenge for the same phone and flow.
func (s *Store) Issue(ctx context.Context, mobileNumber string, authType entities.AuthType, pending *entities.PendingProfile) (string, error) {
	code, err := crypto.GenerateOTP()
	if err != nil {
		return "", err
	}

	hash, err := crypto.HashOTP(code)
	if err != nil {
		return "", err
	}

	payload := challengePayload{
		CodeHash:     hash,
		MobileNumber: mobileNumber,
		AuthType:     string(authType),
		Pending:      pending,
		ExpiresAt:    nowFunc().Add(s.window),
	}
	jsonData, err := json.Marshal(&payload)
	if err != nil {
		return "", err
	}

	encrypted, err := s.encrypt(jsonData)
	if err != nil {
		return "", err
	}

	if err := setChallengeValue(ctx, challengeKey(mobileNumber, authType), encrypted, 2*s.window); err != nil {
		return "", err
	}
	return code, nil
}

// Consume verifies and removes the challenge. The key is removed even
// when the code is wrong, so each challenge allows exactly one attempt.
func (s *Store) Consume(ctx context.Context, mobileNumber string, authType entities.AuthType, code string) (*repositories.OTPChallenge, error) {
	encrypted, err := getDelChallengeValue(ctx, challengeKey(mobileNumber, authType))
	if err != nil {
		if redis.IsNil(err) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	jsonData, err := s.decrypt(encrypted)
	if err != nil {
		return nil, err
	}

	var payload challengePayload
	if err := json.Unmarshal(jsonData, &payload); err != nil {
		return nil, err
	}

	if nowFunc().After(payload.ExpiresAt) {
		return nil, domainerrors.ErrOTPExpired
	}
	if !crypto.CheckOTP(code, payload.CodeHash) {
		return nil, domainerrors.ErrOTPMismatch
	}

	return &repositories.OTPChallenge{
		MobileNumber: payload.MobileNumber,
		AuthType:     entities.AuthType(payload.AuthType),
		Pending:      payload.Pending,
	}, nil
}

func (s *Store) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *Store) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}
