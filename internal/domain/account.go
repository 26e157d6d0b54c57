package domain

import "time"

// AccountSnapshot is a point-in-time view of a user's account as returned by
// the dashboard endpoint. It is built once per fetch and never mutated.
type AccountSnapshot struct {
	FullName        string
	FirstName       string
	LastName        string
	Email           string
	Credits         float64
	ActivePlan      *Plan
	PlanActivatedAt time.Time
	PlanExpiresAt   time.Time
	AutoRenew       bool
	IsAdmin         bool
	UsageStats      UsageStats
	Transactions    []TransactionRecord
}

type Plan struct {
	Name         string
	MonthlyPrice float64
	AnnualPrice  float64
	Features     []string
}

// HasSubscription reports whether the snapshot carries an active plan with
// both lifecycle timestamps set.
func (s AccountSnapshot) HasSubscription() bool {
	return s.ActivePlan != nil && !s.PlanActivatedAt.IsZero() && !s.PlanExpiresAt.IsZero()
}

func (s AccountSnapshot) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	if s.FirstName != "" || s.LastName != "" {
		return joinName(s.FirstName, s.LastName)
	}
	return s.Email
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
