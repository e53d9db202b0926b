package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// IssueStatus represents issue lifecycle states
type IssueStatus string

const (
	IssueStatusOpen     IssueStatus = "Open"
	IssueStatusResolved IssueStatus = "Resolved"
)

// InitialVouchCount is the vouch counter value assigned to a new issue.
const InitialVouchCount = 1

// Issue represents a reported civic problem
type Issue struct {
	ID              uuid.UUID   `json:"id"`
	UserID          *uuid.UUID  `json:"user_id,omitempty"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Latitude        float64     `json:"latitude"`
	Longitude       float64     `json:"longitude"`
	Category        string      `json:"category"`
	Priority        string      `json:"priority"`
	DescriptionMode string      `json:"description_mode,omitempty"`
	Status          IssueStatus `json:"status"`
	VouchCount      int         `json:"vouch_count"`
	ImageFilename   null.String `json:"image_filename"`
	AudioFilename   null.String `json:"audio_filename"`
	ImageURL        null.String `json:"image_url"`
	AudioURL        null.String `json:"audio_url"`
	CreatedAt       time.Time   `json:"created_at"`
}

// CreateIssueInput represents the multipart form fields of an issue report
type CreateIssueInput struct {
	Title           string  `form:"title" binding:"required"`
	Description     string  `form:"description" binding:"required"`
	Latitude        float64 `form:"latitude"`
	Longitude       float64 `form:"longitude"`
	Category        string  `form:"category"`
	Priority        string  `form:"priority"`
	DescriptionMode string  `form:"description_mode"`
}

// MediaUpload is an in-memory media attachment read from a multipart form
type MediaUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
