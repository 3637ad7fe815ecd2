package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation statuses. Transitions are monotonic: pending may move to
// accepted, declined or expired; terminal states never change.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
	InviteStatusExpired  = "expired"
)

// Invitation is a time-bounded, token-addressed offer for an email address to
// join a project. Rows are never hard-deleted; terminal records stay around
// so a spent token cannot be replayed.
type Invitation struct {
	InviteID     uuid.UUID      `gorm:"column:invite_id;type:uuid;primaryKey" json:"invite_id"`
	ProjectID    uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	InviterID    uuid.UUID      `gorm:"column:inviter_id;type:uuid;not null" json:"inviter_id"`
	InviteeEmail string         `gorm:"column:invitee_email;not null;index" json:"invitee_email"`
	InviteeID    *uuid.UUID     `gorm:"column:invitee_id;type:uuid" json:"invitee_id"`
	InviteToken  string         `gorm:"column:invite_token;not null;uniqueIndex" json:"-"`
	Status       string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	ExpiresAt    time.Time      `gorm:"column:expires_at;not null" json:"expires_at"`
	RespondedAt  *time.Time     `gorm:"column:responded_at" json:"responded_at"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Invitation) TableName() string {
	return "Invitations"
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.InviteID == uuid.Nil {
		i.InviteID = uuid.New()
	}
	return nil
}

// Expired reports whether the invitation's window has passed at t.
func (i *Invitation) Expired(t time.Time) bool {
	return !t.Before(i.ExpiresAt)
}
