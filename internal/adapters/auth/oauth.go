package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxOAuthResponseBytes = 1 << 20

var ErrMissingIDToken = errors.New("token response carries no id_token")

// oauthError is the JSON error body of Google's token and device endpoints.
type oauthError struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Interval    int64  `json:"interval"`
}

func (e *oauthError) Error() string {
	switch {
	case e.Code == "":
		return fmt.Sprintf("status %d", e.Status)
	case e.Description != "":
		return e.Code + ": " + e.Description
	default:
		return e.Code
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// postForm sends a form-encoded request and decodes a 2xx JSON answer into
// out. Other statuses come back as *oauthError.
func (p *GoogleProvider) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, maxOAuthResponseBytes)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		oauthErr := &oauthError{}
		if err := json.NewDecoder(body).Decode(oauthErr); err != nil {
			oauthErr = &oauthError{}
		}
		oauthErr.Status = resp.StatusCode
		return oauthErr
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// redeem posts a grant to the token endpoint with the client credentials
// and returns the ID token.
func (p *GoogleProvider) redeem(ctx context.Context, grant url.Values) (string, error) {
	grant.Set("client_id", p.cfg.ClientID)
	if p.cfg.ClientSecret != "" {
		grant.Set("client_secret", p.cfg.ClientSecret)
	}

	var tokens tokenResponse
	if err := p.postForm(ctx, p.endpoints.token, grant, &tokens); err != nil {
		return "", err
	}
	if tokens.IDToken == "" {
		return "", ErrMissingIDToken
	}
	return tokens.IDToken, nil
}
