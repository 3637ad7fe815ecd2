package invitations

import (
	"context"
	"time"

	"huddle-backend/internal/accounts"
	"huddle-backend/internal/domain"
	"huddle-backend/internal/identity"
	"huddle-backend/internal/notifications"
)

// Outcome is the result class of an Accept call. The three *_required values
// are continuation signals, not errors: the caller must come back with more
// input (or via the external auth bridge) while the invitation stays pending.
type Outcome string

const (
	OutcomeAccepted             Outcome = "accepted"
	OutcomeRegistrationRequired Outcome = "registration_required"
	OutcomeLoginRequired        Outcome = "login_required"
	OutcomeExternalAuthRequired Outcome = "external_auth_required"
)

// AcceptInput carries everything an accept attempt may bring: the token, the
// caller's authenticated principal if any, and the optional form fields.
type AcceptInput struct {
	Token     string
	Principal *identity.Principal
	Name      string
	Password  string
}

// AcceptResult is either a terminal acceptance (Account and Project set) or a
// continuation signal describing what the caller must do next.
type AcceptResult struct {
	Outcome       Outcome         `json:"outcome"`
	InviteeEmail  string          `json:"invitee_email,omitempty"`
	AccountExists bool            `json:"account_exists,omitempty"`
	Account       *domain.User    `json:"-"`
	Project       *domain.Project `json:"project,omitempty"`
}

// Accept runs the acceptance state machine for token.
//
// Preconditions, in order: the token resolves, the invitation is pending and
// unexpired, and any authenticated principal matches the invitee email. The
// identity classification is then re-evaluated fresh — never reused from
// invitation creation time — and the matching branch resolves an account id.
// Membership is added idempotently before the status flips; the flip itself
// is a conditional update so a concurrent accept loses cleanly.
func (s *Service) Accept(ctx context.Context, in AcceptInput) (*AcceptResult, error) {
	inv, err := s.liveInvitation(ctx, in.Token)
	if err != nil {
		return nil, err
	}

	if in.Principal != nil && !in.Principal.SameEmail(inv.InviteeEmail) {
		return nil, ErrEmailMismatch
	}

	cls, err := s.Resolver.Classify(ctx, inv.InviteeEmail)
	if err != nil {
		return nil, err
	}

	var account *domain.User
	switch cls.Kind {
	case identity.KindNoAccount:
		if in.Name == "" || in.Password == "" {
			return &AcceptResult{
				Outcome:      OutcomeRegistrationRequired,
				InviteeEmail: inv.InviteeEmail,
			}, nil
		}
		account, err = s.Accounts.Create(ctx, accounts.CreateInput{
			Fullname: in.Name,
			Email:    inv.InviteeEmail,
			Password: in.Password,
			// The invitation link reaching this inbox is the proof of
			// email control; no separate verification round trip.
			Verified: true,
		})
		if err != nil {
			return nil, err
		}

	case identity.KindPassword:
		if in.Principal == nil {
			if in.Password == "" {
				return &AcceptResult{
					Outcome:       OutcomeLoginRequired,
					InviteeEmail:  inv.InviteeEmail,
					AccountExists: true,
				}, nil
			}
			if err := s.Accounts.VerifyPassword(cls.Account, in.Password); err != nil {
				return nil, ErrInvalidCredentials
			}
		}
		account = cls.Account

	case identity.KindExternal:
		if in.Principal == nil {
			return &AcceptResult{
				Outcome:       OutcomeExternalAuthRequired,
				InviteeEmail:  inv.InviteeEmail,
				AccountExists: true,
			}, nil
		}
		account = cls.Account
	}

	if err := s.Projects.AddMember(ctx, inv.ProjectID, account.UserID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	updated, err := s.Store.Transition(ctx, inv.InviteID, domain.InviteStatusAccepted, now, &account.UserID)
	if err == ErrAlreadyResponded {
		// Lost the race. Harmless if the same account already won — the
		// membership write above was idempotent — but a different winner is
		// a conflict that must surface, not be swallowed.
		return s.resolveLostAccept(ctx, in.Token, account)
	}
	if err != nil {
		return nil, err
	}

	s.notifyOutcome(ctx, updated, account, domain.NotifyInviteAccepted)

	project, err := s.Projects.Get(ctx, inv.ProjectID)
	if err != nil {
		return nil, err
	}
	return &AcceptResult{Outcome: OutcomeAccepted, Account: account, Project: project}, nil
}

// Decline moves a pending invitation to declined. No identity resolution and
// no membership change; anyone holding the token may decline.
func (s *Service) Decline(ctx context.Context, token string) (*domain.Invitation, error) {
	inv, err := s.liveInvitation(ctx, token)
	if err != nil {
		return nil, err
	}

	updated, err := s.Store.Transition(ctx, inv.InviteID, domain.InviteStatusDeclined, time.Now(), nil)
	if err != nil {
		return nil, err
	}

	s.notifyOutcome(ctx, updated, nil, domain.NotifyInviteDeclined)
	return updated, nil
}

// resolveLostAccept inspects who won a lost accept race.
func (s *Service) resolveLostAccept(ctx context.Context, token string, account *domain.User) (*AcceptResult, error) {
	inv, err := s.Store.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case domain.InviteStatusAccepted:
		if inv.InviteeID != nil && *inv.InviteeID == account.UserID {
			project, err := s.Projects.Get(ctx, inv.ProjectID)
			if err != nil {
				return nil, err
			}
			return &AcceptResult{Outcome: OutcomeAccepted, Account: account, Project: project}, nil
		}
		return nil, ErrConflict
	case domain.InviteStatusExpired:
		return nil, ErrExpired
	default:
		return nil, ErrAlreadyResponded
	}
}

// notifyOutcome informs the notifier best-effort; failures never unwind the
// committed membership/status change.
func (s *Service) notifyOutcome(ctx context.Context, inv *domain.Invitation, account *domain.User, kind string) {
	if s.Notifier == nil {
		return
	}
	ev := notifications.Event{
		ProjectID:    inv.ProjectID,
		InviterID:    inv.InviterID,
		InviteeEmail: inv.InviteeEmail,
	}
	if account != nil {
		ev.InviteeName = account.Fullname
	}
	if project, err := s.Projects.Get(ctx, inv.ProjectID); err == nil {
		ev.ProjectTitle = project.Title
	}
	var inviter domain.User
	if err := s.Store.DB.WithContext(ctx).Where("user_id = ?", inv.InviterID).First(&inviter).Error; err == nil {
		ev.InviterEmail = inviter.Email
	}
	switch kind {
	case domain.NotifyInviteAccepted:
		s.Notifier.InviteAccepted(ctx, ev)
	case domain.NotifyInviteDeclined:
		s.Notifier.InviteDeclined(ctx, ev)
	}
}
