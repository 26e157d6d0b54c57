package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"github.com/bnema/bizweb-cli/internal/ports/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	gateway  *mocks.MockAccountGateway
	repo     *mocks.MockSessionRepository
	store    *mocks.MockSecretStore
	notifier *mocks.MockNotifier
	service  *DashboardService
}

func newDashboardFixture(t *testing.T, now time.Time) dashboardFixture {
	t.Helper()

	gateway := mocks.NewMockAccountGateway(t)
	repo := mocks.NewMockSessionRepository(t)
	store := mocks.NewMockSecretStore(t)
	notifier := mocks.NewMockNotifier(t)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(now).Maybe()

	sessions := NewSessionService(repo, store, clock, nil)
	return dashboardFixture{
		gateway:  gateway,
		repo:     repo,
		store:    store,
		notifier: notifier,
		service:  NewDashboardService(gateway, sessions, notifier, clock, nil),
	}
}

func (f dashboardFixture) expectStoredSession(token string) {
	f.repo.EXPECT().Get(mockAnyContext()).Return(ports.SessionRecord{
		User:     domain.UserSummary{Email: "ada@example.com", FirstName: "Ada"},
		TokenRef: SessionTokenKey,
	}, nil).Once()
	f.store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return(token, nil).Once()
}

func (f dashboardFixture) expectSessionCleared() {
	f.repo.EXPECT().Get(mockAnyContext()).Return(ports.SessionRecord{TokenRef: SessionTokenKey}, nil).Once()
	f.repo.EXPECT().Delete(mockAnyContext()).Return(nil).Once()
	f.store.EXPECT().Delete(mockAnyContext(), SessionTokenKey).Return(nil).Once()
}

func TestDashboardServiceEnterWithoutSessionSkipsFetch(t *testing.T) {
	f := newDashboardFixture(t, time.Now())

	f.repo.EXPECT().Get(mockAnyContext()).Return(ports.SessionRecord{}, domain.ErrSessionNotFound)

	_, err := f.service.Enter(context.Background())
	require.ErrorIs(t, err, domain.ErrLoginRequired)
	f.gateway.AssertNotCalled(t, "FetchDashboard", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything)
}

func TestDashboardServiceEnterBuildsDashboard(t *testing.T) {
	now := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	f := newDashboardFixture(t, now)
	f.expectStoredSession("token-1")

	snapshot := domain.AccountSnapshot{
		FirstName:       "Ada",
		Email:           "ada@example.com",
		Credits:         42,
		ActivePlan:      &domain.Plan{Name: "Pro", MonthlyPrice: 10, AnnualPrice: 100},
		PlanActivatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PlanExpiresAt:   time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC),
		UsageStats:      domain.UsageStats{domain.UsageLogoRequests: 3},
	}
	f.gateway.EXPECT().FetchDashboard(mockAnyContext(), mock.MatchedBy(func(s domain.Session) bool {
		return s.Token == "token-1"
	})).Return(snapshot, nil)

	dashboard, err := f.service.Enter(context.Background())
	require.NoError(t, err)
	assert.False(t, dashboard.Degraded)
	require.NotNil(t, dashboard.Plan)
	assert.Equal(t, 10, dashboard.Plan.DaysRemaining)
	assert.Equal(t, 10, dashboard.Plan.DaysSinceActivation)
	assert.InDelta(t, 50.0, dashboard.Plan.TimeRemainingPercent, 0.001)
	assert.Equal(t, int64(3), dashboard.UsageTotal)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything)
}

func TestDashboardServiceEnterFetchFailureClearsSessionAndNotifiesOnce(t *testing.T) {
	f := newDashboardFixture(t, time.Now())
	f.expectStoredSession("token-1")

	fetchErr := &domain.FetchError{StatusCode: 401, ServerMessage: "Token expired"}
	f.gateway.EXPECT().FetchDashboard(mockAnyContext(), mock.Anything).Return(domain.AccountSnapshot{}, fetchErr)
	f.expectSessionCleared()
	f.notifier.EXPECT().Notify(ports.Notification{Level: ports.NotificationError, Message: "Token expired"}).Return().Once()

	_, err := f.service.Enter(context.Background())
	require.ErrorIs(t, err, domain.ErrLoginRequired)

	var gotFetchErr *domain.FetchError
	require.ErrorAs(t, err, &gotFetchErr)
	f.notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestDashboardServiceEnterTransportFailureUsesFallbackMessage(t *testing.T) {
	f := newDashboardFixture(t, time.Now())
	f.expectStoredSession("token-1")

	fetchErr := &domain.FetchError{Err: errors.New("connection refused")}
	f.gateway.EXPECT().FetchDashboard(mockAnyContext(), mock.Anything).Return(domain.AccountSnapshot{}, fetchErr)
	f.expectSessionCleared()
	f.notifier.EXPECT().Notify(ports.Notification{
		Level:   ports.NotificationError,
		Message: "Could not load your dashboard. Please log in again.",
	}).Return().Once()

	_, err := f.service.Enter(context.Background())
	require.ErrorIs(t, err, domain.ErrLoginRequired)
}

func TestDashboardServiceEnterMalformedSnapshotIsDegraded(t *testing.T) {
	f := newDashboardFixture(t, time.Now())
	f.expectStoredSession("token-1")

	partial := domain.AccountSnapshot{
		Email:      "ada@example.com",
		ActivePlan: &domain.Plan{Name: "Pro"},
	}
	f.gateway.EXPECT().FetchDashboard(mockAnyContext(), mock.Anything).Return(partial, &domain.MalformedSnapshotError{Fields: []string{"planExpiresAt"}})

	dashboard, err := f.service.Enter(context.Background())
	require.NoError(t, err)
	assert.True(t, dashboard.Degraded)
	require.NotNil(t, dashboard.Plan)
	assert.Zero(t, dashboard.Plan.DaysRemaining)
	assert.Zero(t, dashboard.Plan.TimeRemainingPercent)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything)
}

func TestDashboardServiceEnterExpiredTokenRequiresLogin(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newDashboardFixture(t, now)

	expired := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))})
	f.expectStoredSession(expired)
	f.expectSessionCleared()

	_, err := f.service.Enter(context.Background())
	require.ErrorIs(t, err, domain.ErrLoginRequired)
	f.gateway.AssertNotCalled(t, "FetchDashboard", mock.Anything, mock.Anything)
}

func TestDashboardServiceProfile(t *testing.T) {
	f := newDashboardFixture(t, time.Now())
	f.expectStoredSession("token-1")

	user, err := f.service.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	f.gateway.AssertNotCalled(t, "FetchDashboard", mock.Anything, mock.Anything)
}
