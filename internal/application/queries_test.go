package application

import (
	"testing"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboardDerivesPlanMetrics(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	credits := int64(500)
	snapshot := domain.AccountSnapshot{
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		Credits:         12.5,
		ActivePlan:      &domain.Plan{Name: "Business", MonthlyPrice: 29, AnnualPrice: 290, Features: []string{"AI logos"}},
		PlanActivatedAt: now.AddDate(0, 0, -100),
		PlanExpiresAt:   now.AddDate(0, 0, 265),
		AutoRenew:       true,
		UsageStats: domain.UsageStats{
			"exportsPdf":             2,
			domain.UsageBizWebAI:     5,
			domain.UsageLogoRequests: 3,
		},
		Transactions: []domain.TransactionRecord{
			{ID: "t-1", PurchaseType: domain.PurchaseTypeSubscription, PlanName: "Business", Amount: 290, Status: "completed"},
			{ID: "t-2", PurchaseType: "credits", CreditsPurchased: &credits, Amount: 5, Status: "Failed"},
		},
	}

	dashboard := BuildDashboard(snapshot, now, false)

	assert.Equal(t, "Ada Lovelace", dashboard.Name)
	require.NotNil(t, dashboard.Plan)
	assert.Equal(t, domain.CadenceAnnual, dashboard.Plan.Cadence)
	assert.Equal(t, 290.0, dashboard.Plan.Price)
	assert.Equal(t, 265, dashboard.Plan.DaysRemaining)
	assert.Equal(t, 100, dashboard.Plan.DaysSinceActivation)
	assert.InDelta(t, 72.6, dashboard.Plan.TimeRemainingPercent, 0.1)

	keys := make([]string, 0, len(dashboard.Usage))
	for _, slice := range dashboard.Usage {
		keys = append(keys, slice.Key)
	}
	assert.Equal(t, []string{domain.UsageLogoRequests, domain.UsageBizWebAI, "exportsPdf"}, keys)
	assert.Equal(t, int64(10), dashboard.UsageTotal)

	require.Len(t, dashboard.Transactions, 2)
	assert.Equal(t, domain.TransactionSuccess, dashboard.Transactions[0].StatusKind)
	assert.Equal(t, domain.TransactionFailure, dashboard.Transactions[1].StatusKind)
}

func TestBuildDashboardWithoutPlan(t *testing.T) {
	dashboard := BuildDashboard(domain.AccountSnapshot{Email: "ada@example.com"}, time.Now(), false)

	assert.Nil(t, dashboard.Plan)
	assert.Equal(t, "ada@example.com", dashboard.Name)
	require.Len(t, dashboard.Usage, 1)
	assert.True(t, dashboard.Usage[0].Placeholder)
	assert.Zero(t, dashboard.UsageTotal)
	assert.Empty(t, dashboard.Transactions)
}

func TestBuildDashboardMonthlyCadenceByDefault(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := domain.AccountSnapshot{
		ActivePlan:      &domain.Plan{Name: "Starter", MonthlyPrice: 9, AnnualPrice: 90},
		PlanActivatedAt: now.AddDate(0, 0, -5),
		PlanExpiresAt:   now.AddDate(0, 0, 25),
	}

	dashboard := BuildDashboard(snapshot, now, false)

	require.NotNil(t, dashboard.Plan)
	assert.Equal(t, domain.CadenceMonthly, dashboard.Plan.Cadence)
	assert.Equal(t, 9.0, dashboard.Plan.Price)
}
