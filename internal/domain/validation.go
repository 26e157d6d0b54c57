package domain

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength            = 8
	MinRegistrationPasswordScore = 3
	maxPasswordScore             = 6
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// PasswordStrengthScore returns a score in [0,6], one point per satisfied rule.
// Lengths count characters, not bytes.
func PasswordStrengthScore(s string) int {
	score := 0
	length := utf8.RuneCountInString(s)
	if length >= 8 {
		score++
	}
	if length >= 12 {
		score++
	}

	var lower, upper, digit, other bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	for _, ok := range []bool{lower, upper, digit, other} {
		if ok {
			score++
		}
	}

	return score
}

type PasswordStrength struct {
	Score   int
	Label   string
	Percent float64
}

func PasswordStrengthFor(score int) PasswordStrength {
	var label string
	switch {
	case score <= 1:
		label = "weak"
	case score <= 3:
		label = "medium"
	case score <= 5:
		label = "strong"
	default:
		label = "very strong"
	}

	percent := math.Min(float64(score)/maxPasswordScore*100, 100)
	if percent < 0 {
		percent = 0
	}

	return PasswordStrength{Score: score, Label: label, Percent: percent}
}

func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if !IsValidEmail(strings.TrimSpace(email)) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}

	return nil
}

type RegistrationForm struct {
	Name            string
	Mobile          string
	Email           string
	Password        string
	ConfirmPassword string
	TermsAccepted   bool
}

func ValidateRegistration(form RegistrationForm) error {
	required := []struct {
		field string
		label string
		value string
	}{
		{"name", "Name", form.Name},
		{"mobile", "Mobile number", form.Mobile},
		{"email", "Email", form.Email},
		{"password", "Password", form.Password},
		{"confirmPassword", "Password confirmation", form.ConfirmPassword},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: r.label + " is required"}
		}
	}

	if !IsValidEmail(strings.TrimSpace(form.Email)) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if PasswordStrengthScore(form.Password) < MinRegistrationPasswordScore {
		return &ValidationError{Field: "password", Message: "Password is too weak. Mix upper and lower case letters, digits and symbols"}
	}
	if form.Password != form.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	if !form.TermsAccepted {
		return &ValidationError{Field: "terms", Message: "You must accept the terms and conditions"}
	}

	return nil
}
