package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification kinds.
const (
	NotifyInviteAccepted = "invite_accepted"
	NotifyInviteDeclined = "invite_declined"
)

// Notification is an in-app notification row for a user. Payload is a free
// JSON object whose shape depends on Kind.
type Notification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Kind           string         `gorm:"column:kind;not null" json:"kind"`
	Payload        datatypes.JSON `gorm:"column:payload" json:"payload"`
	Read           bool           `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func (Notification) TableName() string {
	return "Notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
