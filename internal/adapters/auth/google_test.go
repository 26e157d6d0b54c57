package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

// newTestProvider points the token and device endpoints at server.
func newTestProvider(t *testing.T, server *httptest.Server, mutate func(*GoogleConfig)) *GoogleProvider {
	t.Helper()

	cfg := GoogleConfig{
		ClientID:      "client-123",
		ClientSecret:  "secret-xyz",
		AuthURL:       "https://accounts.example.com/auth",
		TokenURL:      server.URL + "/token",
		DeviceCodeURL: server.URL + "/device/code",
		ListenAddr:    "127.0.0.1:0",
		Timeout:       2 * time.Second,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	provider, err := NewGoogleProvider(cfg, server.Client(), nil, nil)
	require.NoError(t, err)
	return provider
}

func TestNewGoogleProviderRequiresClientID(t *testing.T) {
	t.Parallel()

	_, err := NewGoogleProvider(GoogleConfig{ClientID: "  "}, nil, nil, nil)
	require.ErrorIs(t, err, ErrGoogleNotConfigured)
}

func TestNewGoogleProviderDefaultsEndpoints(t *testing.T) {
	t.Parallel()

	provider, err := NewGoogleProvider(GoogleConfig{ClientID: "client-123"}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, GoogleAuthURL, provider.endpoints.auth.String())
	assert.Equal(t, GoogleTokenURL, provider.endpoints.token)
	assert.Equal(t, GoogleDeviceCodeURL, provider.endpoints.deviceCode)
	assert.Equal(t, defaultSignInTimeout, provider.cfg.Timeout)
}

func TestNewGoogleProviderValidatesEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     GoogleConfig
		wantErr string
	}{
		{name: "non http auth url", cfg: GoogleConfig{AuthURL: "ftp://auth.example.com/authorize"}, wantErr: "google auth url must use http or https"},
		{name: "token url without host", cfg: GoogleConfig{TokenURL: "https:///token"}, wantErr: "google token url has no host"},
		{name: "unparseable device code url", cfg: GoogleConfig{DeviceCodeURL: "http://[::1"}, wantErr: "google device code url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.cfg.ClientID = "client-123"
			_, err := NewGoogleProvider(tt.cfg, nil, nil, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGoogleProviderBrowserSignIn(t *testing.T) {
	t.Parallel()

	var nonce atomic.Value
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "code-abc", r.Form.Get("code"))
		assert.NotEmpty(t, r.Form.Get("code_verifier"))

		idToken := signIDToken(t, jwt.MapClaims{
			"aud":   "client-123",
			"email": "ada@example.com",
			"nonce": nonce.Load(),
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		_, _ = w.Write([]byte(`{"access_token":"at","id_token":"` + idToken + `"}`))
	}))
	t.Cleanup(tokenServer.Close)

	var shown Instruction
	provider, err := NewGoogleProvider(GoogleConfig{
		ClientID:   "client-123",
		AuthURL:    "https://accounts.example.com/auth",
		TokenURL:   tokenServer.URL,
		ListenAddr: "127.0.0.1:0",
		Timeout:    2 * time.Second,
	}, tokenServer.Client(), func(in Instruction) {
		shown = in

		authURL, err := url.Parse(in.URL)
		require.NoError(t, err)
		q := authURL.Query()
		nonce.Store(q.Get("nonce"))

		resp, err := http.Get(q.Get("redirect_uri") + "?code=code-abc&state=" + url.QueryEscape(q.Get("state")))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}, nil)
	require.NoError(t, err)

	idToken, err := provider.SignIn(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, idToken)
	assert.Contains(t, shown.URL, "accounts.example.com")
	assert.Empty(t, shown.UserCode)
}

func TestGoogleProviderDeviceSignIn(t *testing.T) {
	t.Parallel()

	idToken := signIDToken(t, jwt.MapClaims{
		"aud":   "client-123",
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/device/code", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"device_code":"dev-code","user_code":"GQVQ-JKEC","verification_url":"https://www.google.com/device","expires_in":60,"interval":1}`))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id_token":"` + idToken + `"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	var shown Instruction
	provider, err := NewGoogleProvider(GoogleConfig{
		ClientID:      "client-123",
		TokenURL:      server.URL + "/token",
		DeviceCodeURL: server.URL + "/device/code",
		Device:        true,
	}, server.Client(), func(in Instruction) { shown = in }, nil)
	require.NoError(t, err)

	got, err := provider.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, idToken, got)
	assert.Equal(t, Instruction{URL: "https://www.google.com/device", UserCode: "GQVQ-JKEC"}, shown)
}

func TestGoogleProviderDeviceSignInTimesOut(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/device/code", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"device_code":"dev-code","user_code":"GQVQ-JKEC","verification_url":"https://www.google.com/device","expires_in":1800,"interval":1}`))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionRequired)
		_, _ = w.Write([]byte(`{"error":"authorization_pending"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	provider := newTestProvider(t, server, func(cfg *GoogleConfig) {
		cfg.Device = true
		cfg.Timeout = 50 * time.Millisecond
	})

	_, err := provider.SignIn(context.Background())
	var timeoutErr *domain.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "Google sign-in", timeoutErr.Op)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.After)
}

func TestGoogleProviderBrowserSignInTimesOutWithoutCallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	provider := newTestProvider(t, server, func(cfg *GoogleConfig) {
		cfg.Timeout = 50 * time.Millisecond
	})

	_, err := provider.SignIn(context.Background())
	var timeoutErr *domain.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "Google sign-in", timeoutErr.Op)
}

func TestGoogleProviderCheckIDToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		nonce   string
		wantErr string
	}{
		{
			name:   "valid",
			claims: jwt.MapClaims{"aud": "client-123", "email": "ada@example.com", "nonce": "n1", "exp": now.Add(time.Minute).Unix()},
			nonce:  "n1",
		},
		{
			name:    "other audience",
			claims:  jwt.MapClaims{"aud": "someone-else", "email": "ada@example.com", "exp": now.Add(time.Minute).Unix()},
			wantErr: "audience mismatch",
		},
		{
			name:    "expired",
			claims:  jwt.MapClaims{"aud": "client-123", "email": "ada@example.com", "exp": now.Add(-time.Minute).Unix()},
			wantErr: "token expired",
		},
		{
			name:    "nonce mismatch",
			claims:  jwt.MapClaims{"aud": "client-123", "email": "ada@example.com", "nonce": "other", "exp": now.Add(time.Minute).Unix()},
			nonce:   "n1",
			wantErr: "nonce mismatch",
		},
		{
			name:    "no email",
			claims:  jwt.MapClaims{"aud": "client-123", "exp": now.Add(time.Minute).Unix()},
			wantErr: "no email claim",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider, err := NewGoogleProvider(GoogleConfig{ClientID: "client-123"}, nil, nil, nil)
			require.NoError(t, err)
			provider.now = func() time.Time { return now }

			err = provider.checkIDToken(signIDToken(t, tt.claims), tt.nonce)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidIDToken)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGoogleProviderRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	provider, err := NewGoogleProvider(GoogleConfig{ClientID: "client-123"}, nil, nil, nil)
	require.NoError(t, err)

	require.ErrorIs(t, provider.checkIDToken("not-a-jwt", ""), ErrInvalidIDToken)
}
