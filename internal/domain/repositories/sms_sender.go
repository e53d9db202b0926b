package repositories

import "context"

// SMSSender delivers one-time codes to phones
type SMSSender interface {
	SendOTP(ctx context.Context, mobileNumber, code string) error
}
