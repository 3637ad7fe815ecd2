package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// Sender sends transactional emails. Nil = no-op.
type Sender interface {
	SendInvite(ctx context.Context, toEmail, inviteLink, projectTitle, subject string) error
	SendOutcome(ctx context.Context, toEmail, subject, projectTitle, inviteeEmail, outcome string) error
}

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender `json:"sender"`
	To          []BrevoTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BrevoClient sends emails via the Brevo API. Empty APIKey disables sending.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@huddle.team"
}

func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "Huddle"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendInvite sends the invitation-link email.
func (c *BrevoClient) SendInvite(ctx context.Context, toEmail, inviteLink, projectTitle, subject string) error {
	content := fmt.Sprintf(
		`<h1>You're invited</h1>
<p>You have been invited to collaborate on <strong>%s</strong>.</p>
<p><a class="huddle-button" href="%s">View invitation</a></p>
<p>This invitation expires in 7 days. If you weren't expecting it, you can ignore this email.</p>`,
		EscapeHTML(projectTitle), inviteLink)
	return c.send(ctx, toEmail, subject, EmailLayout(content))
}

// SendOutcome tells the inviter what happened to their invitation.
func (c *BrevoClient) SendOutcome(ctx context.Context, toEmail, subject, projectTitle, inviteeEmail, outcome string) error {
	content := fmt.Sprintf(
		`<h1>Invitation %s</h1>
<p><strong>%s</strong> has %s your invitation to join <strong>%s</strong>.</p>`,
		EscapeHTML(outcome), EscapeHTML(inviteeEmail), EscapeHTML(outcome), EscapeHTML(projectTitle))
	return c.send(ctx, toEmail, subject, EmailLayout(content))
}
