package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// OTPLength is the number of digits in a one-time passcode
	OTPLength = 6
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
	randomInt                  = rand.Int
)

// GenerateOTP generates a uniformly random numeric one-time passcode.
func GenerateOTP() (string, error) {
	code, err := RandomIntInRange(0, 1000000)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", code), nil
}

// HashOTP hashes a one-time passcode for at-rest storage using bcrypt
func HashOTP(code string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(code), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash otp: %w", err)
	}
	return string(bytes), nil
}

// CheckOTP compares a submitted passcode with a stored hash
func CheckOTP(code, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	return err == nil
}

// RandomIntInRange returns a uniform random integer in [min, max)
func RandomIntInRange(min, max int64) (int64, error) {
	if max <= min {
		return 0, fmt.Errorf("invalid range [%d, %d)", min, max)
	}
	n, err := randomInt(rand.Reader, big.NewInt(max-min))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random int: %w", err)
	}
	return min + n.Int64(), nil
}

// GenerateRandomToken generates a random token of specified byte length,
// hex encoded
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
