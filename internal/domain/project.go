package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Project is a collaboration space owned by a single user.
type Project struct {
	ProjectID   uuid.UUID      `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	OwnerID     uuid.UUID      `gorm:"column:owner_id;type:uuid;not null" json:"owner_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string {
	return "Projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ProjectID == uuid.Nil {
		p.ProjectID = uuid.New()
	}
	return nil
}

// ProjectMember links a user to a project. The composite unique index makes
// re-adding an existing member a detectable no-op rather than a duplicate row.
type ProjectMember struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_project_user" json:"user_id"`
	Role      string    `gorm:"column:role;not null;default:member" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ProjectMember) TableName() string {
	return "ProjectMembers"
}

func (m *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
