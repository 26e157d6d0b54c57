package application

import (
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
)

type PlanView struct {
	Name                 string
	Cadence              domain.Cadence
	Price                float64
	MonthlyPrice         float64
	AnnualPrice          float64
	Features             []string
	AutoRenew            bool
	ActivatedAt          time.Time
	ExpiresAt            time.Time
	DaysRemaining        int
	DaysSinceActivation  int
	TimeRemainingPercent float64
}

type TransactionView struct {
	ID               string
	PurchaseType     string
	PaymentType      string
	PlanName         string
	Amount           float64
	Currency         string
	CreditsPurchased *int64
	Status           string
	StatusKind       domain.TransactionStatus
	CreatedAt        time.Time
}

// Dashboard holds every presentation value derived from one snapshot.
type Dashboard struct {
	Name         string
	FirstName    string
	Email        string
	Credits      float64
	IsAdmin      bool
	Plan         *PlanView
	Usage        []domain.UsageSlice
	UsageTotal   int64
	Transactions []TransactionView
	Degraded     bool
	GeneratedAt  time.Time
}

func BuildDashboard(snapshot domain.AccountSnapshot, now time.Time, degraded bool) Dashboard {
	usage := domain.UsagePieDataset(snapshot.UsageStats)

	return Dashboard{
		Name:         snapshot.DisplayName(),
		FirstName:    snapshot.FirstName,
		Email:        snapshot.Email,
		Credits:      snapshot.Credits,
		IsAdmin:      snapshot.IsAdmin,
		Plan:         planView(snapshot, now),
		Usage:        usage,
		UsageTotal:   domain.UsageTotal(usage),
		Transactions: transactionViews(snapshot.Transactions),
		Degraded:     degraded,
		GeneratedAt:  now,
	}
}

func planView(snapshot domain.AccountSnapshot, now time.Time) *PlanView {
	plan := snapshot.ActivePlan
	if plan == nil {
		return nil
	}

	cadence := domain.SubscriptionCadence(plan, snapshot.Transactions)
	view := &PlanView{
		Name:         plan.Name,
		Cadence:      cadence,
		Price:        domain.PlanPrice(plan, cadence),
		MonthlyPrice: plan.MonthlyPrice,
		AnnualPrice:  plan.AnnualPrice,
		Features:     append([]string(nil), plan.Features...),
		AutoRenew:    snapshot.AutoRenew,
	}
	if !snapshot.HasSubscription() {
		return view
	}

	view.ActivatedAt = snapshot.PlanActivatedAt
	view.ExpiresAt = snapshot.PlanExpiresAt
	view.DaysRemaining = domain.DaysRemaining(snapshot.PlanExpiresAt, now)
	view.DaysSinceActivation = domain.DaysSinceActivation(snapshot.PlanActivatedAt, now)
	view.TimeRemainingPercent = domain.PlanTimeRemainingPercent(snapshot.PlanActivatedAt, snapshot.PlanExpiresAt, now)

	return view
}

func transactionViews(records []domain.TransactionRecord) []TransactionView {
	views := make([]TransactionView, 0, len(records))
	for _, tx := range records {
		views = append(views, TransactionView{
			ID:               tx.ID,
			PurchaseType:     tx.PurchaseType,
			PaymentType:      tx.PaymentType,
			PlanName:         tx.PlanName,
			Amount:           tx.Amount,
			Currency:         tx.Currency,
			CreditsPurchased: tx.CreditsPurchased,
			Status:           tx.Status,
			StatusKind:       domain.ClassifyTransactionStatus(tx.Status),
			CreatedAt:        tx.CreatedAt,
		})
	}
	return views
}
