package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	loginPath              = "/userlogin"
	registerPath           = "/userregister"
	googleAuthPath         = "/google-auth"
	resendVerificationPath = "/resend-verification"
	dashboardPath          = "/userdashboard"

	requestIDHeader  = "X-Request-ID"
	maxResponseBytes = 1 << 20
)

var errMissingToken = errors.New("response carries no session token")

// HTTPDoer is the subset of *http.Client the gateway needs.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	baseURL   string
	http      HTTPDoer
	logger    *zap.Logger
	requestID func() string
}

var _ ports.AccountGateway = (*Client)(nil)

func NewClient(baseURL string, httpClient HTTPDoer, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base url is empty")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient(30 * time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   baseURL,
		http:      httpClient,
		logger:    logger,
		requestID: func() string { return uuid.NewString() },
	}, nil
}

func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (c *Client) Login(ctx context.Context, req ports.LoginRequest) (domain.Session, error) {
	return c.authenticate(ctx, loginPath, loginBody{Email: req.Email, Password: req.Password})
}

func (c *Client) Register(ctx context.Context, req ports.RegisterRequest) (domain.Session, error) {
	return c.authenticate(ctx, registerPath, registerBody{
		Name:     req.Name,
		Mobile:   req.Mobile,
		Email:    req.Email,
		Password: req.Password,
	})
}

func (c *Client) GoogleAuth(ctx context.Context, idToken string, isRegistration bool) (domain.Session, error) {
	return c.authenticate(ctx, googleAuthPath, googleAuthBody{Token: idToken, IsRegistration: isRegistration})
}

func (c *Client) ResendVerification(ctx context.Context, email string) (ports.VerificationResult, error) {
	status, body, err := c.do(ctx, http.MethodPost, resendVerificationPath, emailBody{Email: email}, "")
	if err != nil {
		return ports.VerificationResult{}, fmt.Errorf("resend verification: %w", err)
	}
	if !isSuccess(status) {
		return ports.VerificationResult{}, &domain.AuthError{StatusCode: status, ServerMessage: serverMessage(body)}
	}

	var payload verificationResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return ports.VerificationResult{}, fmt.Errorf("decode verification response: %w", err)
	}

	return ports.VerificationResult{Status: payload.Status, Message: payload.Message}, nil
}

// FetchDashboard returns a *domain.FetchError for any transport, status or
// decoding failure. A decodable response that breaks the snapshot contract
// yields the best-effort snapshot together with a
// *domain.MalformedSnapshotError.
func (c *Client) FetchDashboard(ctx context.Context, session domain.Session) (domain.AccountSnapshot, error) {
	if !session.Valid() {
		return domain.AccountSnapshot{}, &domain.FetchError{Err: errMissingToken}
	}

	status, body, err := c.do(ctx, http.MethodGet, dashboardPath, nil, session.Token)
	if err != nil {
		return domain.AccountSnapshot{}, &domain.FetchError{Err: err}
	}
	if !isSuccess(status) {
		return domain.AccountSnapshot{}, &domain.FetchError{StatusCode: status, ServerMessage: serverMessage(body)}
	}

	var payload dashboardResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.AccountSnapshot{}, &domain.FetchError{StatusCode: status, Err: fmt.Errorf("decode dashboard response: %w", err)}
	}

	snapshot, malformed := normalizeSnapshot(payload)
	if len(malformed) > 0 {
		return snapshot, &domain.MalformedSnapshotError{Fields: malformed}
	}

	return snapshot, nil
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (domain.Session, error) {
	status, body, err := c.do(ctx, http.MethodPost, path, payload, "")
	if err != nil {
		return domain.Session{}, fmt.Errorf("call %s: %w", path, err)
	}
	if !isSuccess(status) {
		return domain.Session{}, &domain.AuthError{StatusCode: status, ServerMessage: serverMessage(body)}
	}

	var response authResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.Session{}, &domain.AuthError{StatusCode: status, Err: fmt.Errorf("decode %s response: %w", path, err)}
	}

	token := strings.TrimSpace(response.Token)
	if token == "" {
		return domain.Session{}, &domain.AuthError{StatusCode: status, ServerMessage: strings.TrimSpace(response.Message), Err: errMissingToken}
	}

	return domain.Session{Token: token, User: response.User.toDomain()}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, bearer string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(started)),
	)

	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// serverMessage extracts the human-readable reason from an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, candidate := range []string{payload.Message, payload.Error, payload.Msg} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
