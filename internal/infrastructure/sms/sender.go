// Package sms delivers one-time codes. Only a log-backed sender is
// wired for now; a gateway integration drops in behind the same
// interface.
package sms

import (
	"context"

	"go.uber.org/zap"

	"civic-connect.backend/pkg/logger"
)

// LogSender implements repositories.SMSSender by logging the code.
// Development only: codes land in the server log instead of a phone.
type LogSender struct{}

// NewLogSender creates a log-backed sender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// SendOTP logs the code for the given number
func (s *LogSender) SendOTP(ctx context.Context, mobileNumber, code string) error {
	logger.Info(ctx, "OTP issued",
		zap.String("mobile_number", maskMobile(mobileNumber)),
		zap.String("otp", code),
	)
	return nil
}

func maskMobile(mobileNumber string) string {
	if len(mobileNumber) <= 4 {
		return mobileNumber
	}
	return "******" + mobileNumber[len(mobileNumber)-4:]
}
