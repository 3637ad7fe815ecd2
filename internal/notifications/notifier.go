package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"huddle-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event describes an invitation outcome for notification purposes.
type Event struct {
	ProjectID    uuid.UUID
	ProjectTitle string
	InviterID    uuid.UUID
	InviterEmail string
	InviteeEmail string
	InviteeName  string
}

// Notifier is informed of invitation outcomes. Implementations are
// best-effort: callers never roll back on a notifier failure.
type Notifier interface {
	InviteIssued(ctx context.Context, ev Event, inviteLink string)
	InviteAccepted(ctx context.Context, ev Event)
	InviteDeclined(ctx context.Context, ev Event)
}

// Service records in-app notifications for the inviter and sends
// transactional email. Either half may be absent (nil Sender, nil DB).
type Service struct {
	DB     *gorm.DB
	Sender Sender
}

func (s *Service) InviteIssued(ctx context.Context, ev Event, inviteLink string) {
	if s.Sender == nil {
		return
	}
	subject := fmt.Sprintf("You have been invited to join %s", ev.ProjectTitle)
	if err := s.Sender.SendInvite(ctx, ev.InviteeEmail, inviteLink, ev.ProjectTitle, subject); err != nil {
		log.Error().Err(err).Str("invitee", ev.InviteeEmail).Msg("invite email dispatch failed")
	}
}

func (s *Service) InviteAccepted(ctx context.Context, ev Event) {
	s.record(ctx, ev, domain.NotifyInviteAccepted)
	if s.Sender != nil {
		subject := fmt.Sprintf("%s joined %s", ev.InviteeName, ev.ProjectTitle)
		if err := s.Sender.SendOutcome(ctx, ev.InviterEmail, subject, ev.ProjectTitle, ev.InviteeEmail, "accepted"); err != nil {
			log.Error().Err(err).Str("inviter", ev.InviterEmail).Msg("accept notice dispatch failed")
		}
	}
}

func (s *Service) InviteDeclined(ctx context.Context, ev Event) {
	s.record(ctx, ev, domain.NotifyInviteDeclined)
	if s.Sender != nil {
		subject := fmt.Sprintf("Invitation to %s was declined", ev.ProjectTitle)
		if err := s.Sender.SendOutcome(ctx, ev.InviterEmail, subject, ev.ProjectTitle, ev.InviteeEmail, "declined"); err != nil {
			log.Error().Err(err).Str("inviter", ev.InviterEmail).Msg("decline notice dispatch failed")
		}
	}
}

func (s *Service) record(ctx context.Context, ev Event, kind string) {
	if s.DB == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{
		"project_id":    ev.ProjectID.String(),
		"project_title": ev.ProjectTitle,
		"invitee_email": ev.InviteeEmail,
		"invitee_name":  ev.InviteeName,
	})
	n := &domain.Notification{
		UserID:  ev.InviterID,
		Kind:    kind,
		Payload: datatypes.JSON(payload),
	}
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("notification record failed")
	}
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
