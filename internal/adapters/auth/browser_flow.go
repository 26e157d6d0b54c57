package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const callbackPath = "/oauth2/callback"

var ErrStateMismatch = errors.New("oauth callback state mismatch")

func (p *GoogleProvider) signInWithBrowser(ctx context.Context) (string, error) {
	pkce, err := NewPKCEPair()
	if err != nil {
		return "", err
	}
	state, err := NewState()
	if err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	nonce, err := NewState()
	if err != nil {
		return "", fmt.Errorf("generate oauth nonce: %w", err)
	}

	callback, err := listenForCallback(p.cfg.ListenAddr, state)
	if err != nil {
		return "", err
	}
	defer callback.close()

	redirectURI := callback.redirectURI()
	p.logger.Debug("waiting for google callback", zap.String("redirect_uri", redirectURI))
	p.instruct(Instruction{URL: p.authorizationURL(redirectURI, state, nonce, pkce.Challenge)})

	code, err := callback.wait(ctx)
	if err != nil {
		return "", err
	}

	idToken, err := p.exchangeCode(ctx, code, redirectURI, pkce.Verifier)
	if err != nil {
		return "", err
	}
	if err := p.checkIDToken(idToken, nonce); err != nil {
		return "", err
	}
	return idToken, nil
}

// authorizationURL asks Google for an authorization code bound to the PKCE
// challenge and always shows the account chooser.
func (p *GoogleProvider) authorizationURL(redirectURI, state, nonce, challenge string) string {
	u := *p.endpoints.auth
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", strings.Join(googleScopes, " "))
	q.Set("state", state)
	q.Set("nonce", nonce)
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", PKCEChallengeMethodS256)
	q.Set("access_type", "online")
	q.Set("prompt", "select_account")
	u.RawQuery = q.Encode()
	return u.String()
}

func (p *GoogleProvider) exchangeCode(ctx context.Context, code, redirectURI, verifier string) (string, error) {
	grant := url.Values{}
	grant.Set("grant_type", "authorization_code")
	grant.Set("code", code)
	grant.Set("redirect_uri", redirectURI)
	grant.Set("code_verifier", verifier)

	idToken, err := p.redeem(ctx, grant)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return "", cause
		}
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	return idToken, nil
}

// loopbackCallback receives the single authorization redirect on the
// loopback interface. Only the first request settles the result.
type loopbackCallback struct {
	state     string
	listener  net.Listener
	server    *http.Server
	result    chan callbackResult
	settle    sync.Once
	closeOnce sync.Once
}

type callbackResult struct {
	code string
	err  error
}

func listenForCallback(listenAddr, state string) (*loopbackCallback, error) {
	if state == "" {
		return nil, errors.New("callback state is required")
	}
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen for google callback: %w", err)
	}

	cb := &loopbackCallback{
		state:    state,
		listener: listener,
		result:   make(chan callbackResult, 1),
	}

	router := chi.NewRouter()
	router.Use(middleware.NoCache)
	router.Get(callbackPath, cb.handle)
	cb.server = &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := cb.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cb.finish(callbackResult{err: fmt.Errorf("serve google callback: %w", err)})
		}
	}()

	return cb, nil
}

func (c *loopbackCallback) redirectURI() string {
	if addr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://127.0.0.1:%d%s", addr.Port, callbackPath)
	}
	return "http://127.0.0.1" + callbackPath
}

// wait returns the authorization code, or the cause of ctx ending first.
func (c *loopbackCallback) wait(ctx context.Context) (string, error) {
	select {
	case result := <-c.result:
		return result.code, result.err
	case <-ctx.Done():
		return "", context.Cause(ctx)
	}
}

func (c *loopbackCallback) close() {
	c.closeOnce.Do(func() {
		_ = c.server.Close()
	})
}

func (c *loopbackCallback) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var result callbackResult
	switch {
	case query.Get("state") != c.state:
		result.err = ErrStateMismatch
	case query.Get("error") != "":
		denied := &oauthError{Code: query.Get("error"), Description: query.Get("error_description")}
		result.err = fmt.Errorf("google sign-in: %w", denied)
	case query.Get("code") == "":
		result.err = errors.New("google callback carries no authorization code")
	default:
		result.code = query.Get("code")
	}
	c.finish(result)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if result.err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Sign-in was not completed. Return to the terminal for details."))
		return
	}
	_, _ = w.Write([]byte("Signed in to BizWeb. You can close this window and return to the terminal."))
}

func (c *loopbackCallback) finish(result callbackResult) {
	c.settle.Do(func() {
		c.result <- result
	})
}
