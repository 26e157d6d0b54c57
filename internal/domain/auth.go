package domain

import (
	"strings"
	"time"
)

type Provider string

const (
	ProviderGoogle Provider = "google"
)

// Session is the credential written after a successful login or registration.
type Session struct {
	Token     string
	User      UserSummary
	CreatedAt time.Time
}

type UserSummary struct {
	ID        string
	Name      string
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	IsAdmin   bool
}

func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != ""
}

func (u UserSummary) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if name := joinName(u.FirstName, u.LastName); name != "" {
		return name
	}
	return u.Email
}
