package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"go.uber.org/zap"
)

type DashboardService struct {
	gateway  ports.AccountGateway
	sessions *SessionService
	notifier ports.Notifier
	clock    ports.Clock
	logger   *zap.Logger
}

func NewDashboardService(gateway ports.AccountGateway, sessions *SessionService, notifier ports.Notifier, clock ports.Clock, logger *zap.Logger) *DashboardService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DashboardService{
		gateway:  gateway,
		sessions: sessions,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Enter loads the dashboard for the current session. Without a usable
// session it returns domain.ErrLoginRequired before any request is made. A
// failed fetch clears the session, emits exactly one notification and also
// returns domain.ErrLoginRequired. A malformed snapshot is not a failure: the
// dashboard is rendered degraded with zeroed metrics.
func (s *DashboardService) Enter(ctx context.Context) (Dashboard, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return Dashboard{}, domain.ErrLoginRequired
		}
		return Dashboard{}, err
	}

	if s.sessions.Expired(session) {
		s.logger.Debug("session token expired")
		s.clearSession(ctx)
		return Dashboard{}, domain.ErrLoginRequired
	}

	snapshot, err := s.gateway.FetchDashboard(ctx, session)
	degraded := false
	if err != nil {
		var malformed *domain.MalformedSnapshotError
		if !errors.As(err, &malformed) {
			s.logger.Warn("dashboard fetch failed", zap.Error(err))
			s.clearSession(ctx)
			s.notify(ports.NotificationError, domain.UserMessage(err))
			return Dashboard{}, fmt.Errorf("%w: %w", domain.ErrLoginRequired, err)
		}

		s.logger.Warn("dashboard snapshot malformed", zap.Strings("fields", malformed.Fields))
		degraded = true
	}

	return BuildDashboard(snapshot, s.clock.Now(), degraded), nil
}

// Profile returns the cached user summary without a network round-trip.
func (s *DashboardService) Profile(ctx context.Context) (domain.UserSummary, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.UserSummary{}, domain.ErrLoginRequired
		}
		return domain.UserSummary{}, err
	}

	return session.User, nil
}

func (s *DashboardService) clearSession(ctx context.Context) {
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("clear session", zap.Error(err))
	}
}

func (s *DashboardService) notify(level ports.NotificationLevel, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ports.Notification{Level: level, Message: message})
}
