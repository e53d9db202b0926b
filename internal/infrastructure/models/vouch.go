package models

import (
	"time"

	"github.com/google/uuid"
)

type Vouch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	IssueID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vouches_issue_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vouches_issue_user"`
	CreatedAt time.Time
	Issue     Issue `gorm:"foreignKey:IssueID"`
	User      User  `gorm:"foreignKey:UserID"`
}

func (Vouch) TableName() string {
	return "vouches"
}
