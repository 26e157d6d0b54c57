package domain

import (
	"strings"
	"time"
)

const PurchaseTypeSubscription = "subscription"

type TransactionRecord struct {
	ID               string
	PurchaseType     string
	PaymentType      string
	PlanName         string
	Amount           float64
	Currency         string
	CreditsPurchased *int64
	Status           string
	CreatedAt        time.Time
}

type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
	TransactionFailure TransactionStatus = "failure"
	TransactionPending TransactionStatus = "pending"
	TransactionUnknown TransactionStatus = "unknown"
)

// ClassifyTransactionStatus only picks a display icon; it carries no
// business meaning.
func ClassifyTransactionStatus(status string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "success":
		return TransactionSuccess
	case "failed", "error":
		return TransactionFailure
	case "pending":
		return TransactionPending
	default:
		return TransactionUnknown
	}
}

type Cadence string

const (
	CadenceNone    Cadence = ""
	CadenceMonthly Cadence = "monthly"
	CadenceAnnual  Cadence = "annual"
)

// SubscriptionCadence reconstructs the billing cycle of the active plan from
// the transaction history. The snapshot does not carry it: a subscription
// purchase of the same plan whose amount equals the annual price means
// Annual, anything else means Monthly.
func SubscriptionCadence(plan *Plan, transactions []TransactionRecord) Cadence {
	if plan == nil {
		return CadenceNone
	}

	for _, tx := range transactions {
		if tx.PurchaseType != PurchaseTypeSubscription || tx.PlanName != plan.Name {
			continue
		}
		if tx.Amount == plan.AnnualPrice {
			return CadenceAnnual
		}
	}

	return CadenceMonthly
}

func PlanPrice(plan *Plan, cadence Cadence) float64 {
	if plan == nil {
		return 0
	}
	if cadence == CadenceAnnual {
		return plan.AnnualPrice
	}
	return plan.MonthlyPrice
}
