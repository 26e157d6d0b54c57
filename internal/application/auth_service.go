package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"go.uber.org/zap"
)

const DefaultRegisterTimeout = 15 * time.Second

var ErrIdentityProviderUnavailable = errors.New("third-party sign-in is not configured")

type AuthService struct {
	gateway         ports.AccountGateway
	sessions        *SessionService
	identity        map[domain.Provider]ports.IdentityProvider
	registerTimeout time.Duration
	logger          *zap.Logger
	inFlight        atomic.Bool
}

type AuthOption func(*AuthService)

func WithRegisterTimeout(timeout time.Duration) AuthOption {
	return func(s *AuthService) {
		s.registerTimeout = timeout
	}
}

func WithIdentityProvider(provider domain.Provider, identity ports.IdentityProvider) AuthOption {
	return func(s *AuthService) {
		if identity != nil {
			s.identity[provider] = identity
		}
	}
}

func WithAuthLogger(logger *zap.Logger) AuthOption {
	return func(s *AuthService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewAuthService(gateway ports.AccountGateway, sessions *SessionService, opts ...AuthOption) *AuthService {
	s := &AuthService{
		gateway:         gateway,
		sessions:        sessions,
		identity:        map[domain.Provider]ports.IdentityProvider{},
		registerTimeout: DefaultRegisterTimeout,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Login validates locally, then exchanges the credentials for a session.
// Validation failures never reach the gateway.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if err := domain.ValidateLogin(email, password); err != nil {
		return domain.Session{}, err
	}

	release, err := s.acquire()
	if err != nil {
		return domain.Session{}, err
	}
	defer release()

	session, err := s.gateway.Login(ctx, ports.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.logger.Debug("login rejected", zap.String("email", email), zap.Error(err))
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	return s.persist(ctx, session)
}

func (s *AuthService) Register(ctx context.Context, form domain.RegistrationForm) (domain.Session, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Mobile = strings.TrimSpace(form.Mobile)
	form.Email = strings.TrimSpace(form.Email)
	if err := domain.ValidateRegistration(form); err != nil {
		return domain.Session{}, err
	}

	release, err := s.acquire()
	if err != nil {
		return domain.Session{}, err
	}
	defer release()

	req := ports.RegisterRequest{
		Name:     form.Name,
		Mobile:   form.Mobile,
		Email:    form.Email,
		Password: form.Password,
	}
	session, err := runWithDeadline(ctx, "registration", s.registerTimeout, func(ctx context.Context) (domain.Session, error) {
		return s.gateway.Register(ctx, req)
	})
	if err != nil {
		s.logger.Debug("registration failed", zap.String("email", form.Email), zap.Error(err))
		return domain.Session{}, fmt.Errorf("register: %w", err)
	}

	return s.persist(ctx, session)
}

func (s *AuthService) RegisterWithThirdParty(ctx context.Context, provider domain.Provider) (domain.Session, error) {
	return s.signInWithProvider(ctx, provider, true)
}

func (s *AuthService) LoginWithThirdParty(ctx context.Context, provider domain.Provider) (domain.Session, error) {
	return s.signInWithProvider(ctx, provider, false)
}

func (s *AuthService) signInWithProvider(ctx context.Context, provider domain.Provider, isRegistration bool) (domain.Session, error) {
	if provider != domain.ProviderGoogle {
		return domain.Session{}, &domain.ValidationError{Field: "provider", Message: fmt.Sprintf("Unsupported sign-in provider %q", provider)}
	}

	identity, ok := s.identity[provider]
	if !ok {
		return domain.Session{}, ErrIdentityProviderUnavailable
	}

	release, err := s.acquire()
	if err != nil {
		return domain.Session{}, err
	}
	defer release()

	idToken, err := identity.SignIn(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s sign-in: %w", provider, err)
	}

	exchange := func(ctx context.Context) (domain.Session, error) {
		return s.gateway.GoogleAuth(ctx, idToken, isRegistration)
	}

	var session domain.Session
	if isRegistration {
		session, err = runWithDeadline(ctx, "registration", s.registerTimeout, exchange)
	} else {
		session, err = exchange(ctx)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("exchange %s identity token: %w", provider, err)
	}

	return s.persist(ctx, session)
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) (ports.VerificationResult, error) {
	email = strings.TrimSpace(email)
	if !domain.IsValidEmail(email) {
		return ports.VerificationResult{}, &domain.ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}

	release, err := s.acquire()
	if err != nil {
		return ports.VerificationResult{}, err
	}
	defer release()

	result, err := s.gateway.ResendVerification(ctx, email)
	if err != nil {
		return ports.VerificationResult{}, fmt.Errorf("resend verification: %w", err)
	}

	return result, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) persist(ctx context.Context, session domain.Session) (domain.Session, error) {
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// acquire enforces a single auth operation at a time.
func (s *AuthService) acquire() (func(), error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrOperationInFlight
	}
	return func() { s.inFlight.Store(false) }, nil
}
