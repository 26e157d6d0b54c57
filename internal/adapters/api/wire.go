package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bnema/bizweb-cli/internal/domain"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerBody struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleAuthBody struct {
	Token          string `json:"token"`
	IsRegistration bool   `json:"isRegistration"`
}

type emailBody struct {
	Email string `json:"email"`
}

type authResponse struct {
	Token   string   `json:"token"`
	Message string   `json:"message"`
	User    wireUser `json:"user"`
}

type verificationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type wireUser struct {
	ID        flexID     `json:"id"`
	MongoID   flexID     `json:"_id"`
	Name      flexString `json:"name"`
	FirstName flexString `json:"fname"`
	LastName  flexString `json:"lname"`
	Email     flexString `json:"email"`
	Mobile    flexString `json:"mobile"`
	IsAdmin   flexBool   `json:"isAdmin"`
}

func (u wireUser) toDomain() domain.UserSummary {
	id := u.ID.Value
	if id == "" {
		id = u.MongoID.Value
	}

	return domain.UserSummary{
		ID:        id,
		Name:      u.Name.Value,
		FirstName: u.FirstName.Value,
		LastName:  u.LastName.Value,
		Email:     u.Email.Value,
		Mobile:    u.Mobile.Value,
		IsAdmin:   u.IsAdmin.Value,
	}
}

// dashboardResponse decodes any JSON object: every field either tolerates
// wrong shapes (flex types) or is kept raw for normalization to inspect.
type dashboardResponse struct {
	FullName        flexString      `json:"fullName"`
	FirstName       flexString      `json:"fname"`
	LastName        flexString      `json:"lname"`
	Email           flexString      `json:"email"`
	Credits         flexNumber      `json:"credits"`
	ActivePlan      json.RawMessage `json:"active_plan"`
	PlanActivatedAt flexString      `json:"plan_activated_at"`
	PlanExpiresAt   flexString      `json:"plan_expires_at"`
	AutoRenew       flexBool        `json:"auto_renew"`
	IsAdmin         flexBool        `json:"isAdmin"`
	UsageStats      json.RawMessage `json:"usage_stats"`
	Transactions    json.RawMessage `json:"transactions"`
}

type wirePlan struct {
	Name              string     `json:"name"`
	MonthlyPrice      flexNumber `json:"monthlyPrice"`
	MonthlyPriceSnake flexNumber `json:"monthly_price"`
	AnnualPrice       flexNumber `json:"annualPrice"`
	AnnualPriceSnake  flexNumber `json:"annual_price"`
	Features          []string   `json:"features"`
}

type wireTransaction struct {
	ID               flexID     `json:"id"`
	MongoID          flexID     `json:"_id"`
	PurchaseType     flexString `json:"purchaseType"`
	PaymentType      flexString `json:"paymentType"`
	PlanName         flexString `json:"planName"`
	Amount           flexNumber `json:"amount"`
	Currency         flexString `json:"currency"`
	CreditsPurchased flexNumber `json:"creditsPurchased"`
	Status           flexString `json:"status"`
	CreatedAt        flexString `json:"createdAt"`
}

// flexNumber accepts a JSON number, a numeric string or null. Anything else
// decodes without error and is flagged Invalid so normalization can report it.
type flexNumber struct {
	Value   float64
	Present bool
	Invalid bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	*n = flexNumber{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			n.Invalid = true
			return nil
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		n.Invalid = true
		return nil
	}

	n.Value = value
	n.Present = true
	return nil
}

// flexString accepts a JSON string or null; other shapes are flagged Invalid.
type flexString struct {
	Value   string
	Invalid bool
}

func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = flexString{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var value string
	if err := json.Unmarshal(trimmed, &value); err != nil {
		s.Invalid = true
		return nil
	}

	s.Value = strings.TrimSpace(value)
	return nil
}

// flexBool accepts true/false, 1/0, their string forms or null.
type flexBool struct {
	Value   bool
	Invalid bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	*b = flexBool{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			b.Invalid = true
			return nil
		}
		raw = strings.ToLower(strings.TrimSpace(s))
	}

	switch raw {
	case "true", "1":
		b.Value = true
	case "false", "0", "":
	default:
		b.Invalid = true
	}
	return nil
}

// flexID accepts a string or a number identifier; a number is kept in its
// JSON text form.
type flexID struct {
	Value   string
	Invalid bool
}

func (id *flexID) UnmarshalJSON(data []byte) error {
	*id = flexID{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			id.Invalid = true
			return nil
		}
		id.Value = strings.TrimSpace(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		id.Invalid = true
		return nil
	}
	id.Value = n.String()
	return nil
}
