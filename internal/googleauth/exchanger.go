package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"huddle-backend/internal/identity"
)

// TokenExchanger turns an authorization code into the authenticated identity.
// The handshake mechanics live behind this interface; tests substitute a stub.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (identity.ExternalPrincipal, error)
}

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// HTTPExchanger exchanges the code against Google's token endpoint and reads
// the userinfo endpoint for the verified email and display name.
type HTTPExchanger struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Client       *http.Client
}

func (e *HTTPExchanger) httpClient() *http.Client {
	if e.Client == nil {
		e.Client = &http.Client{Timeout: 15 * time.Second}
	}
	return e.Client
}

func (e *HTTPExchanger) Exchange(ctx context.Context, code string) (identity.ExternalPrincipal, error) {
	var none identity.ExternalPrincipal

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", e.ClientID)
	form.Set("client_secret", e.ClientSecret)
	form.Set("redirect_uri", e.RedirectURL)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return none, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient().Do(req)
	if err != nil {
		return none, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return none, fmt.Errorf("google token exchange failed: status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return none, err
	}
	if tok.AccessToken == "" {
		return none, fmt.Errorf("google token exchange returned no access token")
	}

	uiReq, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return none, err
	}
	uiReq.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	uiResp, err := e.httpClient().Do(uiReq)
	if err != nil {
		return none, err
	}
	defer uiResp.Body.Close()
	if uiResp.StatusCode != http.StatusOK {
		return none, fmt.Errorf("google userinfo failed: status %d", uiResp.StatusCode)
	}

	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(uiResp.Body).Decode(&info); err != nil {
		return none, err
	}
	if info.Email == "" || !info.EmailVerified {
		return none, fmt.Errorf("google userinfo returned no verified email")
	}

	return identity.ExternalPrincipal{Email: info.Email, Fullname: info.Name}, nil
}
