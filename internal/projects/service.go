package projects

import (
	"context"
	"errors"
	"strings"

	"huddle-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired   = errors.New("Project title is required")
	ErrProjectNotFound = errors.New("Project not found")
	ErrNotOwner        = errors.New("Only the project owner can perform this action")
)

// Service encapsulates project and membership operations.
type Service struct {
	DB *gorm.DB
}

// CreateInput mirrors the create-project request body.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create creates a project owned by ownerID and adds the owner as a member.
func (s *Service) Create(ctx context.Context, in CreateInput, ownerID uuid.UUID) (*domain.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	p := &domain.Project{
		ProjectID:   uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	if err := s.AddMember(ctx, p.ProjectID, ownerID, domain.RoleOwner); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a project by id.
func (s *Service) Get(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// IsOwner reports whether userID owns the project.
func (s *Service) IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return false, err
	}
	return p.OwnerID == userID, nil
}

// AddMember adds userID to the project's membership set. Adding an existing
// member is a no-op, never an error.
func (s *Service) AddMember(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	var existing domain.ProjectMember
	err := s.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	m := &domain.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		// Concurrent insert of the same pair trips the unique index; that
		// still satisfies the idempotency contract.
		var check domain.ProjectMember
		if e2 := s.DB.WithContext(ctx).
			Where("project_id = ? AND user_id = ?", projectID, userID).
			First(&check).Error; e2 == nil {
			return nil
		}
		return err
	}
	return nil
}

// IsMember reports whether userID belongs to the project.
func (s *Service) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var m domain.ProjectMember
	err := s.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemberView is the member listing shape (user fields joined in).
type MemberView struct {
	UserID   uuid.UUID `json:"user_id"`
	Fullname string    `json:"fullname"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// ListMembers returns the project's members with user details.
func (s *Service) ListMembers(ctx context.Context, projectID uuid.UUID) ([]MemberView, error) {
	var out []MemberView
	err := s.DB.WithContext(ctx).
		Table("ProjectMembers").
		Select(`"ProjectMembers".user_id, "Users".fullname, "Users".email, "ProjectMembers".role`).
		Joins(`JOIN "Users" ON "Users".user_id = "ProjectMembers".user_id`).
		Where(`"ProjectMembers".project_id = ?`, projectID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
