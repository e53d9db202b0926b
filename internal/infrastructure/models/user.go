package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	MobileNumber string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	FirebaseUID  *string   `gorm:"type:varchar(128);uniqueIndex"`
	CivicID      string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	IsVerified   bool      `gorm:"default:false;not null"`
	AuthProvider string    `gorm:"type:varchar(20);not null;default:'otp'"`
	FullName     *string   `gorm:"type:varchar(100)"`
	Email        *string   `gorm:"type:varchar(255)"`
	Address      *string   `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
