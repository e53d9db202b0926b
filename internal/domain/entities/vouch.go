package entities

import (
	"time"

	"github.com/google/uuid"
)

// Vouch is a one-per-user endorsement of an issue
type Vouch struct {
	ID        uuid.UUID `json:"id"`
	IssueID   uuid.UUID `json:"issue_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// VouchResult is the outcome of a vouch attempt
type VouchResult struct {
	IssueID        uuid.UUID  `json:"issue_id"`
	VouchCount     int        `json:"vouch_count"`
	AlreadyVouched bool       `json:"already_vouched"`
	UserVouched    bool       `json:"user_vouched"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	Source         string     `json:"source"`
}

// VouchStatus is the side-effect-free read companion of VouchResult
type VouchStatus struct {
	IssueID     uuid.UUID `json:"issue_id"`
	Title       string    `json:"title"`
	VouchCount  int       `json:"vouch_count"`
	UserVouched bool      `json:"user_vouched"`
	Source      string    `json:"source"`
}

// VouchedIssue is an issue joined with the caller's vouch timestamp
type VouchedIssue struct {
	Issue     *Issue    `json:"issue"`
	VouchedAt time.Time `json:"vouched_at"`
}
