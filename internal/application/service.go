package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SessionTokenKey is the fixed secret-store key holding the session token.
const SessionTokenKey = "bizweb/session/token"

// SessionService is the only reader and writer of the persisted session.
type SessionService struct {
	repo   ports.SessionRepository
	store  ports.SecretStore
	clock  ports.Clock
	logger *zap.Logger
}

func NewSessionService(repo ports.SessionRepository, store ports.SecretStore, clock ports.Clock, logger *zap.Logger) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionService{
		repo:   repo,
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

func (s *SessionService) Save(ctx context.Context, session domain.Session) error {
	if !session.Valid() {
		return errors.New("session token is empty")
	}

	previous, err := s.repo.Get(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSessionNotFound):
		previous = ports.SessionRecord{}
	case errors.Is(err, domain.ErrSessionCorrupt):
		s.logger.Warn("overwriting unreadable session", zap.Error(err))
		previous = ports.SessionRecord{}
	default:
		return fmt.Errorf("load previous session: %w", err)
	}

	if err := s.store.Put(ctx, SessionTokenKey, session.Token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	record := ports.SessionRecord{
		User:      session.User,
		TokenRef:  SessionTokenKey,
		CreatedAt: createdAt,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		if rollbackErr := s.store.Delete(ctx, SessionTokenKey); rollbackErr != nil {
			return fmt.Errorf("save session and rollback stored token: %w", errors.Join(err, rollbackErr))
		}

		return fmt.Errorf("save session: %w", err)
	}

	if previous.TokenRef != "" && previous.TokenRef != SessionTokenKey {
		if err := s.store.Delete(ctx, previous.TokenRef); err != nil {
			s.logger.Warn("delete previous session token", zap.String("ref", previous.TokenRef), zap.Error(err))
		}
	}

	s.logger.Debug("session saved", zap.String("email", session.User.Email))
	return nil
}

// Current returns the persisted session. A missing record or an unreadable
// token both report domain.ErrSessionNotFound. A corrupt record is discarded
// together with the token first.
func (s *SessionService) Current(ctx context.Context) (domain.Session, error) {
	record, err := s.repo.Get(ctx)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			return domain.Session{}, domain.ErrSessionNotFound
		case errors.Is(err, domain.ErrSessionCorrupt):
			s.logger.Warn("discarding unreadable session", zap.Error(err))
			if clearErr := s.clear(ctx, ports.SessionRecord{}); clearErr != nil {
				s.logger.Warn("discard session", zap.Error(clearErr))
			}
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	tokenRef := strings.TrimSpace(record.TokenRef)
	if tokenRef == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	token, err := s.store.Get(ctx, tokenRef)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Session{}, ctxErr
		}
		s.logger.Warn("session token unavailable", zap.String("ref", tokenRef), zap.Error(err))
		return domain.Session{}, domain.ErrSessionNotFound
	}

	session := domain.Session{
		Token:     strings.TrimSpace(token),
		User:      record.User,
		CreatedAt: record.CreatedAt,
	}
	if !session.Valid() {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	return session, nil
}

// Clear removes the session record and its token. An unreadable record is
// still removed, along with the token under the fixed key.
func (s *SessionService) Clear(ctx context.Context) error {
	record, err := s.repo.Get(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSessionNotFound):
		record = ports.SessionRecord{}
	case errors.Is(err, domain.ErrSessionCorrupt):
		s.logger.Warn("clearing unreadable session", zap.Error(err))
		record = ports.SessionRecord{}
	default:
		return fmt.Errorf("load session: %w", err)
	}

	return s.clear(ctx, record)
}

func (s *SessionService) clear(ctx context.Context, record ports.SessionRecord) error {
	var clearErr error
	if err := s.repo.Delete(ctx); err != nil {
		clearErr = errors.Join(clearErr, fmt.Errorf("delete session record: %w", err))
	}

	for _, ref := range uniqueSecretRefs(SessionTokenKey, record.TokenRef) {
		if err := s.store.Delete(ctx, ref); err != nil {
			clearErr = errors.Join(clearErr, fmt.Errorf("delete session token %q: %w", ref, err))
		}
	}

	if clearErr == nil {
		s.logger.Debug("session cleared")
	}
	return clearErr
}

// Expired reports whether the session token is a JWT whose exp claim has
// passed. Opaque tokens never expire client-side.
func (s *SessionService) Expired(session domain.Session) bool {
	return tokenExpired(session.Token, s.clock.Now())
}

func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}

	return !claims.ExpiresAt.After(now)
}

func uniqueSecretRefs(secretRefs ...string) []string {
	result := make([]string, 0, len(secretRefs))
	seen := make(map[string]struct{}, len(secretRefs))

	for _, secretRef := range secretRefs {
		if secretRef == "" {
			continue
		}
		if _, ok := seen[secretRef]; ok {
			continue
		}

		seen[secretRef] = struct{}{}
		result = append(result, secretRef)
	}

	return result
}
