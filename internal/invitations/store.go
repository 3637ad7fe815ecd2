package invitations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"huddle-backend/internal/domain"
	"huddle-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultExpiry = 7 * 24 * time.Hour

// ExpiryWindow converts a configured day count into a Store expiry.
func ExpiryWindow(days int) time.Duration {
	if days <= 0 {
		return defaultExpiry
	}
	return time.Duration(days) * 24 * time.Hour
}

// Store is the persistence surface for invitation records.
type Store struct {
	DB     *gorm.DB
	Expiry time.Duration
}

func (st *Store) expiry() time.Duration {
	if st.Expiry > 0 {
		return st.Expiry
	}
	return defaultExpiry
}

// Create persists a pending invitation for (projectID, email). At most one
// pending unexpired invitation may exist per pair; a live one rejects the
// create with ErrAlreadyPending. The token carries 32 bytes of entropy and is
// the sole public handle for the invitation; a unique-index collision on it
// is a hard failure, never an overwrite.
func (st *Store) Create(ctx context.Context, projectID, inviterID uuid.UUID, email string) (*domain.Invitation, error) {
	normalized := validation.NormalizeEmail(email)

	existing, err := st.FindPendingFor(ctx, projectID, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyPending
	}

	inv := &domain.Invitation{
		ProjectID:    projectID,
		InviterID:    inviterID,
		InviteeEmail: normalized,
		InviteToken:  randomHex(32),
		Status:       domain.InviteStatusPending,
		ExpiresAt:    time.Now().Add(st.expiry()),
	}
	if err := st.DB.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// FindByToken returns the invitation owning token, or ErrNotFound.
func (st *Store) FindByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := st.DB.WithContext(ctx).Where("invite_token = ?", token).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindPendingFor returns the pending unexpired invitation for the pair, or
// nil when there is none.
func (st *Store) FindPendingFor(ctx context.Context, projectID uuid.UUID, email string) (*domain.Invitation, error) {
	normalized := validation.NormalizeEmail(email)
	var inv domain.Invitation
	err := st.DB.WithContext(ctx).
		Where("project_id = ? AND invitee_email = ? AND status = ? AND expires_at > ?",
			projectID, normalized, domain.InviteStatusPending, time.Now()).
		First(&inv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListPendingForProject returns the project's pending, unexpired invitations.
func (st *Store) ListPendingForProject(ctx context.Context, projectID uuid.UUID) ([]domain.Invitation, error) {
	var out []domain.Invitation
	err := st.DB.WithContext(ctx).
		Where("project_id = ? AND status = ? AND expires_at > ?",
			projectID, domain.InviteStatusPending, time.Now()).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transition moves a pending invitation to a terminal status with a single
// conditional UPDATE. The "status = pending" guard (plus the expiry guard for
// accept/decline) is what arbitrates concurrent responders: exactly one call
// wins, losers get a classification of why.
func (st *Store) Transition(ctx context.Context, id uuid.UUID, newStatus string, respondedAt time.Time, inviteeID *uuid.UUID) (*domain.Invitation, error) {
	var tx *gorm.DB
	switch newStatus {
	case domain.InviteStatusAccepted, domain.InviteStatusDeclined:
		updates := map[string]interface{}{
			"status":       newStatus,
			"responded_at": respondedAt,
		}
		if inviteeID != nil {
			updates["invitee_id"] = *inviteeID
		}
		tx = st.DB.WithContext(ctx).Model(&domain.Invitation{}).
			Where("invite_id = ? AND status = ? AND expires_at > ?",
				id, domain.InviteStatusPending, time.Now()).
			Updates(updates)
	case domain.InviteStatusExpired:
		tx = st.DB.WithContext(ctx).Model(&domain.Invitation{}).
			Where("invite_id = ? AND status = ?", id, domain.InviteStatusPending).
			Update("status", domain.InviteStatusExpired)
	default:
		return nil, ErrInvalidTransition
	}
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, st.classifyLostTransition(ctx, id)
	}

	var inv domain.Invitation
	if err := st.DB.WithContext(ctx).Where("invite_id = ?", id).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// MarkExpired lazily records the expired status for hygiene. Correctness does
// not depend on it; reads already treat a past expires_at as expired.
func (st *Store) MarkExpired(ctx context.Context, id uuid.UUID) {
	st.DB.WithContext(ctx).Model(&domain.Invitation{}).
		Where("invite_id = ? AND status = ?", id, domain.InviteStatusPending).
		Update("status", domain.InviteStatusExpired)
}

// classifyLostTransition explains a zero-row conditional update.
func (st *Store) classifyLostTransition(ctx context.Context, id uuid.UUID) error {
	var inv domain.Invitation
	if err := st.DB.WithContext(ctx).Where("invite_id = ?", id).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	switch inv.Status {
	case domain.InviteStatusPending:
		// Guard failed on the expiry clause, not the status clause.
		return ErrExpired
	case domain.InviteStatusExpired:
		return ErrExpired
	default:
		return ErrAlreadyResponded
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
