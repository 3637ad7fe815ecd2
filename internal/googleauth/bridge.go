package googleauth

import (
	"context"
	"errors"
	"net/url"

	"huddle-backend/internal/accounts"
	"huddle-backend/internal/identity"
	"huddle-backend/internal/invitations"
)

const defaultAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"

var (
	ErrTokenRequired = errors.New("Invitation token is required")
	ErrBadState      = errors.New("Missing or invalid state")
)

// Bridge threads an invitation token through the Google sign-in round trip.
// The token rides as the opaque `state` value; the bridge itself holds no
// per-flow state between Begin and Resume — the two phases are independent
// process entries connected only by what the browser carries.
type Bridge struct {
	AuthURL     string
	ClientID    string
	RedirectURL string
	Accounts    *accounts.Service
	Invitations *invitations.Service
}

// Begin builds the provider authorization URL for the invitation token.
func (b *Bridge) Begin(token string) (string, error) {
	if token == "" {
		return "", ErrTokenRequired
	}
	base := b.AuthURL
	if base == "" {
		base = defaultAuthURL
	}
	q := url.Values{}
	q.Set("client_id", b.ClientID)
	q.Set("redirect_uri", b.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", token)
	return base + "?" + q.Encode(), nil
}

// Resume re-enters the acceptance flow with the principal the handshake
// produced. The email-match rule is enforced before any account is created,
// so a mismatched handshake leaves no trace. A failed resumption is terminal:
// the caller is sent back to the invitation detail view, never retried here.
func (b *Bridge) Resume(ctx context.Context, state string, p identity.ExternalPrincipal) (*invitations.AcceptResult, error) {
	if state == "" {
		return nil, ErrBadState
	}

	inv, err := b.Invitations.Store.FindByToken(ctx, state)
	if err != nil {
		return nil, err
	}
	probe := identity.Principal{Email: p.Email}
	if !probe.SameEmail(inv.InviteeEmail) {
		return nil, invitations.ErrEmailMismatch
	}

	account, err := b.Accounts.EnsureExternal(ctx, p.Email, p.Fullname)
	if err != nil {
		return nil, err
	}

	return b.Invitations.Accept(ctx, invitations.AcceptInput{
		Token: state,
		Principal: &identity.Principal{
			UserID:   account.UserID,
			Email:    account.Email,
			Fullname: account.Fullname,
		},
	})
}
