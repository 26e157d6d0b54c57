package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	GoogleAuthURL       = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenURL      = "https://oauth2.googleapis.com/token"
	GoogleDeviceCodeURL = "https://oauth2.googleapis.com/device/code"

	defaultSignInTimeout = 5 * time.Minute
)

var googleScopes = []string{"openid", "email", "profile"}

var (
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured: set google.client_id")
	ErrInvalidIDToken      = errors.New("invalid google id token")
)

type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	AuthURL       string
	TokenURL      string
	DeviceCodeURL string
	ListenAddr    string
	Timeout       time.Duration
	// Device switches to the device authorization flow for hosts without a
	// browser.
	Device bool
}

// Instruction tells the user where to continue the sign-in. UserCode is set
// only for the device flow.
type Instruction struct {
	URL      string
	UserCode string
}

type googleEndpoints struct {
	auth       *url.URL
	token      string
	deviceCode string
}

// GoogleProvider signs the user in with Google and hands back the ID token
// the BizWeb backend exchanges for a session.
type GoogleProvider struct {
	cfg        GoogleConfig
	endpoints  googleEndpoints
	httpClient *http.Client
	instruct   func(Instruction)
	logger     *zap.Logger
	now        func() time.Time
	// slowDown is added to the device poll interval on each slow_down answer.
	slowDown time.Duration
}

var _ ports.IdentityProvider = (*GoogleProvider)(nil)

func NewGoogleProvider(cfg GoogleConfig, httpClient *http.Client, instruct func(Instruction), logger *zap.Logger) (*GoogleProvider, error) {
	cfg.ClientID = strings.TrimSpace(cfg.ClientID)
	if cfg.ClientID == "" {
		return nil, ErrGoogleNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSignInTimeout
	}

	authURL, err := parseEndpoint("auth url", cfg.AuthURL, GoogleAuthURL)
	if err != nil {
		return nil, err
	}
	tokenURL, err := parseEndpoint("token url", cfg.TokenURL, GoogleTokenURL)
	if err != nil {
		return nil, err
	}
	deviceCodeURL, err := parseEndpoint("device code url", cfg.DeviceCodeURL, GoogleDeviceCodeURL)
	if err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if instruct == nil {
		instruct = func(Instruction) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GoogleProvider{
		cfg: cfg,
		endpoints: googleEndpoints{
			auth:       authURL,
			token:      tokenURL.String(),
			deviceCode: deviceCodeURL.String(),
		},
		httpClient: httpClient,
		instruct:   instruct,
		logger:     logger,
		now:        time.Now,
		slowDown:   5 * time.Second,
	}, nil
}

func parseEndpoint(name, raw, fallback string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("google %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("google %s must use http or https", name)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("google %s has no host", name)
	}
	return parsed, nil
}

// SignIn runs the configured Google flow within the sign-in timeout and
// returns the checked ID token.
func (p *GoogleProvider) SignIn(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, p.cfg.Timeout, &domain.TimeoutError{Op: "Google sign-in", After: p.cfg.Timeout})
	defer cancel()

	if p.cfg.Device {
		return p.signInWithDevice(ctx)
	}
	return p.signInWithBrowser(ctx)
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Nonce         string `json:"nonce"`
	jwt.RegisteredClaims
}

// checkIDToken rejects tokens meant for another client or already expired.
// Signature verification is left to the backend, which owns the trust
// decision.
func (p *GoogleProvider) checkIDToken(raw string, expectedNonce string) error {
	var claims googleClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIDToken, err)
	}

	if !slices.Contains([]string(claims.Audience), p.cfg.ClientID) {
		return fmt.Errorf("%w: audience mismatch", ErrInvalidIDToken)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(p.now()) {
		return fmt.Errorf("%w: token expired", ErrInvalidIDToken)
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return fmt.Errorf("%w: nonce mismatch", ErrInvalidIDToken)
	}
	if strings.TrimSpace(claims.Email) == "" {
		return fmt.Errorf("%w: no email claim", ErrInvalidIDToken)
	}

	p.logger.Debug("google identity confirmed", zap.String("email", claims.Email), zap.Bool("email_verified", claims.EmailVerified))
	return nil
}
