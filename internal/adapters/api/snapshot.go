package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// normalizeSnapshot turns the wire payload into a domain snapshot and lists
// the fields that broke the contract. The returned snapshot is always usable:
// broken fields are zeroed so derived metrics fall back to their defaults.
func normalizeSnapshot(payload dashboardResponse) (domain.AccountSnapshot, []string) {
	var malformed []string
	flag := func(field string) {
		malformed = append(malformed, field)
	}

	text := func(field string, v flexString) string {
		if v.Invalid {
			flag(field)
		}
		return v.Value
	}
	boolean := func(field string, v flexBool) bool {
		if v.Invalid {
			flag(field)
		}
		return v.Value
	}

	snapshot := domain.AccountSnapshot{
		FullName:  text("fullName", payload.FullName),
		FirstName: text("fname", payload.FirstName),
		LastName:  text("lname", payload.LastName),
		Email:     text("email", payload.Email),
		AutoRenew: boolean("auto_renew", payload.AutoRenew),
		IsAdmin:   boolean("isAdmin", payload.IsAdmin),
	}
	if snapshot.FullName == "" {
		snapshot.FullName = strings.TrimSpace(snapshot.FirstName + " " + snapshot.LastName)
	}

	if snapshot.Email == "" && !payload.Email.Invalid {
		flag("email")
	}

	switch {
	case payload.Credits.Invalid, !payload.Credits.Present, payload.Credits.Value < 0:
		flag("credits")
	default:
		snapshot.Credits = payload.Credits.Value
	}

	plan, planOK := decodePlan(payload.ActivePlan)
	if !planOK {
		flag("active_plan")
	}

	activatedAt, activatedOK := parseTimestamp(payload.PlanActivatedAt)
	if !activatedOK {
		flag("plan_activated_at")
	}
	expiresAt, expiresOK := parseTimestamp(payload.PlanExpiresAt)
	if !expiresOK {
		flag("plan_expires_at")
	}

	if plan != nil {
		snapshot.ActivePlan = plan
		if activatedAt.IsZero() && activatedOK {
			flag("plan_activated_at")
		}
		if expiresAt.IsZero() && expiresOK {
			flag("plan_expires_at")
		}
		// Both or neither: a half-dated plan renders without metrics.
		if !activatedAt.IsZero() && !expiresAt.IsZero() {
			snapshot.PlanActivatedAt = activatedAt
			snapshot.PlanExpiresAt = expiresAt
		}
	} else if planOK && (!activatedAt.IsZero() || !expiresAt.IsZero()) {
		flag("active_plan")
	}

	snapshot.UsageStats = normalizeUsage(payload.UsageStats, flag)
	snapshot.Transactions = normalizeTransactions(payload.Transactions, flag)

	return snapshot, malformed
}

// decodePlan accepts an object, a bare plan name or null.
func decodePlan(raw json.RawMessage) (*domain.Plan, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, true
	}

	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return nil, false
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, true
		}
		return &domain.Plan{Name: name}, true
	}

	var wire wirePlan
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, false
	}

	name := strings.TrimSpace(wire.Name)
	if name == "" {
		return nil, false
	}

	return &domain.Plan{
		Name:         name,
		MonthlyPrice: firstPresent(wire.MonthlyPrice, wire.MonthlyPriceSnake),
		AnnualPrice:  firstPresent(wire.AnnualPrice, wire.AnnualPriceSnake),
		Features:     compactStrings(wire.Features),
	}, true
}

// normalizeUsage always materialises the known metrics. A usage_stats value
// that is not an object is flagged as a whole.
func normalizeUsage(raw json.RawMessage, flag func(string)) domain.UsageStats {
	stats := make(domain.UsageStats, len(domain.KnownUsageMetrics()))
	for _, key := range domain.KnownUsageMetrics() {
		stats[key] = 0
	}

	if isNull(raw) {
		return stats
	}

	var values map[string]flexNumber
	if err := json.Unmarshal(raw, &values); err != nil {
		flag("usage_stats")
		return stats
	}

	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if value.Invalid {
			flag("usage_stats." + key)
			continue
		}
		stats[key] = int64(math.Max(0, math.Round(value.Value)))
	}

	return stats
}

// normalizeTransactions skips entries that are not objects. A transactions
// value that is not an array is flagged as a whole.
func normalizeTransactions(raw json.RawMessage, flag func(string)) []domain.TransactionRecord {
	if isNull(raw) {
		return []domain.TransactionRecord{}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		flag("transactions")
		return []domain.TransactionRecord{}
	}

	records := make([]domain.TransactionRecord, 0, len(entries))
	for i, entry := range entries {
		var tx wireTransaction
		if err := json.Unmarshal(entry, &tx); err != nil {
			flag(fmt.Sprintf("transactions[%d]", i))
			continue
		}

		field := func(name string) string { return fmt.Sprintf("transactions[%d].%s", i, name) }
		text := func(name string, v flexString) string {
			if v.Invalid {
				flag(field(name))
			}
			return v.Value
		}

		if tx.ID.Invalid || tx.MongoID.Invalid {
			flag(field("id"))
		}
		id := tx.ID.Value
		if id == "" {
			id = tx.MongoID.Value
		}

		record := domain.TransactionRecord{
			ID:           id,
			PurchaseType: text("purchaseType", tx.PurchaseType),
			PaymentType:  text("paymentType", tx.PaymentType),
			PlanName:     text("planName", tx.PlanName),
			Amount:       tx.Amount.Value,
			Currency:     text("currency", tx.Currency),
			Status:       text("status", tx.Status),
		}
		if tx.Amount.Invalid {
			flag(fmt.Sprintf("transactions[%d].amount", i))
		}
		if tx.CreditsPurchased.Present {
			credits := int64(math.Round(tx.CreditsPurchased.Value))
			record.CreditsPurchased = &credits
		}

		createdAt, ok := parseTimestamp(tx.CreatedAt)
		if !ok {
			flag(fmt.Sprintf("transactions[%d].createdAt", i))
		}
		record.CreatedAt = createdAt

		records = append(records, record)
	}

	return records
}

// parseTimestamp returns the zero time for an absent value. ok is false only
// when a value is present but cannot be parsed.
func parseTimestamp(raw flexString) (time.Time, bool) {
	if raw.Invalid {
		return time.Time{}, false
	}
	if raw.Value == "" {
		return time.Time{}, true
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw.Value); err == nil {
			return parsed.UTC(), true
		}
	}

	return time.Time{}, false
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func firstPresent(values ...flexNumber) float64 {
	for _, v := range values {
		if v.Present {
			return v.Value
		}
	}
	return 0
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
