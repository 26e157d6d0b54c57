package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
	"go.uber.org/zap"
)

const (
	deviceCodeGrantType   = "urn:ietf:params:oauth:grant-type:device_code"
	defaultDeviceInterval = 5 * time.Second
)

// deviceAuthorization is a pending device sign-in: the user enters userCode
// at verificationURL while the CLI polls with deviceCode.
type deviceAuthorization struct {
	deviceCode      string
	userCode        string
	verificationURL string
	interval        time.Duration
	expiresIn       time.Duration
}

// Google answers with verification_url; RFC 8628 servers use
// verification_uri.
type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int64  `json:"expires_in"`
	Interval        int64  `json:"interval"`
}

func (r deviceCodeResponse) authorization() (deviceAuthorization, error) {
	auth := deviceAuthorization{
		deviceCode:      r.DeviceCode,
		userCode:        r.UserCode,
		verificationURL: r.VerificationURL,
		interval:        time.Duration(r.Interval) * time.Second,
		expiresIn:       time.Duration(r.ExpiresIn) * time.Second,
	}
	if auth.verificationURL == "" {
		auth.verificationURL = r.VerificationURI
	}
	if auth.interval <= 0 {
		auth.interval = defaultDeviceInterval
	}

	var missing []string
	if auth.deviceCode == "" {
		missing = append(missing, "device_code")
	}
	if auth.userCode == "" {
		missing = append(missing, "user_code")
	}
	if auth.verificationURL == "" {
		missing = append(missing, "verification_url")
	}
	if len(missing) > 0 {
		return deviceAuthorization{}, fmt.Errorf("device code response missing %s", strings.Join(missing, ", "))
	}
	return auth, nil
}

func (p *GoogleProvider) signInWithDevice(ctx context.Context) (string, error) {
	auth, err := p.requestDeviceCode(ctx)
	if err != nil {
		return "", err
	}
	p.instruct(Instruction{URL: auth.verificationURL, UserCode: auth.userCode})

	idToken, err := p.pollDeviceToken(ctx, auth)
	if err != nil {
		return "", err
	}
	if err := p.checkIDToken(idToken, ""); err != nil {
		return "", err
	}
	return idToken, nil
}

func (p *GoogleProvider) requestDeviceCode(ctx context.Context) (deviceAuthorization, error) {
	form := url.Values{}
	form.Set("client_id", p.cfg.ClientID)
	form.Set("scope", strings.Join(googleScopes, " "))

	var resp deviceCodeResponse
	if err := p.postForm(ctx, p.endpoints.deviceCode, form, &resp); err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return deviceAuthorization{}, cause
		}
		return deviceAuthorization{}, fmt.Errorf("request device code: %w", err)
	}
	return resp.authorization()
}

// pollDeviceToken waits one interval between token requests until Google
// issues the ID token, the user declines, the device code expires or ctx
// ends.
func (p *GoogleProvider) pollDeviceToken(ctx context.Context, auth deviceAuthorization) (string, error) {
	if auth.expiresIn > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, auth.expiresIn, &domain.TimeoutError{Op: "Google device authorization", After: auth.expiresIn})
		defer cancel()
	}

	grant := url.Values{}
	grant.Set("grant_type", deviceCodeGrantType)
	grant.Set("device_code", auth.deviceCode)

	interval := auth.interval
	for {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", context.Cause(ctx)
		case <-timer.C:
		}

		idToken, err := p.redeem(ctx, grant)
		if err == nil {
			return idToken, nil
		}
		if cause := context.Cause(ctx); cause != nil {
			return "", cause
		}

		var oauthErr *oauthError
		if !errors.As(err, &oauthErr) {
			return "", fmt.Errorf("poll device token: %w", err)
		}
		switch oauthErr.Code {
		case "authorization_pending":
		case "slow_down":
			interval += p.slowDown
		default:
			return "", fmt.Errorf("poll device token: %w", err)
		}
		if oauthErr.Interval > 0 {
			interval = max(interval, time.Duration(oauthErr.Interval)*time.Second)
		}
		p.logger.Debug("device authorization pending", zap.String("state", oauthErr.Code), zap.Duration("next_poll", interval))
	}
}
