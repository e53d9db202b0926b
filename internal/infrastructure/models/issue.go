package models

import (
	"time"

	"github.com/google/uuid"
)

type Issue struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID          *uuid.UUID `gorm:"type:uuid;index"`
	Title           string     `gorm:"type:varchar(255);not null"`
	Description     string     `gorm:"type:text;not null"`
	Latitude        float64    `gorm:"type:double precision"`
	Longitude       float64    `gorm:"type:double precision"`
	Category        string     `gorm:"type:varchar(50)"`
	Priority        string     `gorm:"type:varchar(20)"`
	DescriptionMode string     `gorm:"type:varchar(20)"`
	Status          string     `gorm:"type:varchar(20);not null;default:'Open'"`
	VouchCount      int        `gorm:"not null;default:1"`
	ImageFilename   *string    `gorm:"type:varchar(255)"`
	AudioFilename   *string    `gorm:"type:varchar(255)"`
	ImageURL        *string    `gorm:"type:text"`
	AudioURL        *string    `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
