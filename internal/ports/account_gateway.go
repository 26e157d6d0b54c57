package ports

import (
	"context"

	"github.com/bnema/bizweb-cli/internal/domain"
)

type LoginRequest struct {
	Email    string
	Password string
}

type RegisterRequest struct {
	Name     string
	Mobile   string
	Email    string
	Password string
}

type VerificationResult struct {
	Status  string
	Message string
}

// AccountGateway mediates every remote account and auth operation.
type AccountGateway interface {
	Login(ctx context.Context, req LoginRequest) (domain.Session, error)
	Register(ctx context.Context, req RegisterRequest) (domain.Session, error)
	GoogleAuth(ctx context.Context, idToken string, isRegistration bool) (domain.Session, error)
	ResendVerification(ctx context.Context, email string) (VerificationResult, error)
	FetchDashboard(ctx context.Context, session domain.Session) (domain.AccountSnapshot, error)
}

// IdentityProvider runs a delegated sign-in flow and returns the provider's
// identity token.
type IdentityProvider interface {
	SignIn(ctx context.Context) (string, error)
}
