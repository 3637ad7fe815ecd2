package invitations

import (
	"context"
	"fmt"
	"time"

	"huddle-backend/internal/accounts"
	"huddle-backend/internal/domain"
	"huddle-backend/internal/identity"
	"huddle-backend/internal/notifications"
	"huddle-backend/internal/pkg/validation"
	"huddle-backend/internal/projects"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service wires the invitation store to its collaborators: identity
// resolution, account management, project membership and the notifier.
type Service struct {
	Store         *Store
	Resolver      *identity.Resolver
	Accounts      *accounts.Service
	Projects      *projects.Service
	Notifier      notifications.Notifier
	InviteBaseURL string
}

// CreateInput mirrors the create-invite request.
type CreateInput struct {
	ProjectID uuid.UUID
	Actor     identity.Principal
	Email     string
}

// Create issues a pending invitation. The actor must own the project.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Invitation, error) {
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	normalized := validation.NormalizeEmail(in.Email)
	if in.Actor.SameEmail(normalized) {
		return nil, ErrSelfInvite
	}

	owner, err := s.Projects.IsOwner(ctx, in.ProjectID, in.Actor.UserID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, projects.ErrNotOwner
	}

	cls, err := s.Resolver.Classify(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if cls.Account != nil {
		member, err := s.Projects.IsMember(ctx, in.ProjectID, cls.Account.UserID)
		if err != nil {
			return nil, err
		}
		if member {
			return nil, ErrAlreadyMember
		}
	}

	inv, err := s.Store.Create(ctx, in.ProjectID, in.Actor.UserID, normalized)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		project, perr := s.Projects.Get(ctx, in.ProjectID)
		title := ""
		if perr == nil {
			title = project.Title
		}
		s.Notifier.InviteIssued(ctx, notifications.Event{
			ProjectID:    in.ProjectID,
			ProjectTitle: title,
			InviterID:    in.Actor.UserID,
			InviterEmail: in.Actor.Email,
			InviteeEmail: normalized,
		}, s.inviteLink(inv.InviteToken))
	}
	return inv, nil
}

// ListPending returns the project's pending unexpired invitations. The actor
// must own the project.
func (s *Service) ListPending(ctx context.Context, projectID uuid.UUID, actor identity.Principal) ([]domain.Invitation, error) {
	owner, err := s.Projects.IsOwner(ctx, projectID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, projects.ErrNotOwner
	}
	return s.Store.ListPendingForProject(ctx, projectID)
}

// Detail is the public (token-addressed) invitation view. It carries identity
// classification flags so a caller can render the right form up front.
type Detail struct {
	ProjectID          uuid.UUID `json:"project_id"`
	ProjectTitle       string    `json:"project_title"`
	ProjectDescription string    `json:"project_description"`
	InviterName        string    `json:"inviter_name"`
	InviterEmail       string    `json:"inviter_email"`
	InviteeEmail       string    `json:"invitee_email"`
	ExpiresAt          string    `json:"expires_at"`
	AccountExists      bool      `json:"account_exists"`
	IsExternalAccount  bool      `json:"is_external_account"`
}

// GetDetail resolves a token into the detail view, enforcing the same
// liveness preconditions as Accept.
func (s *Service) GetDetail(ctx context.Context, token string) (*Detail, error) {
	inv, err := s.liveInvitation(ctx, token)
	if err != nil {
		return nil, err
	}

	cls, err := s.Resolver.Classify(ctx, inv.InviteeEmail)
	if err != nil {
		return nil, err
	}

	project, err := s.Projects.Get(ctx, inv.ProjectID)
	if err != nil {
		return nil, err
	}

	d := &Detail{
		ProjectID:          inv.ProjectID,
		ProjectTitle:       project.Title,
		ProjectDescription: project.Description,
		InviteeEmail:       inv.InviteeEmail,
		ExpiresAt:          inv.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		AccountExists:      cls.Kind != identity.KindNoAccount,
		IsExternalAccount:  cls.Kind == identity.KindExternal,
	}

	var inviter domain.User
	if err := s.Store.DB.WithContext(ctx).Where("user_id = ?", inv.InviterID).First(&inviter).Error; err == nil {
		d.InviterName = inviter.Fullname
		d.InviterEmail = inviter.Email
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return d, nil
}

// liveInvitation loads a token and enforces the shared preconditions: the
// invitation exists, is still pending and has not expired. Expiry observed
// here is recorded lazily for hygiene.
func (s *Service) liveInvitation(ctx context.Context, token string) (*domain.Invitation, error) {
	inv, err := s.Store.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case domain.InviteStatusPending:
		// fallthrough to expiry check
	case domain.InviteStatusExpired:
		return nil, ErrExpired
	default:
		return nil, ErrAlreadyResponded
	}
	if inv.Expired(time.Now()) {
		s.Store.MarkExpired(ctx, inv.InviteID)
		return nil, ErrExpired
	}
	return inv, nil
}

func (s *Service) inviteLink(token string) string {
	return fmt.Sprintf("%s/invitations/%s", s.InviteBaseURL, token)
}
