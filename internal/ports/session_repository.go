package ports

import (
	"context"
	"time"

	"github.com/bnema/bizweb-cli/internal/domain"
)

// SessionRecord is the persisted, token-less part of a session. TokenRef
// points at the secret-store entry holding the token.
type SessionRecord struct {
	User      domain.UserSummary
	TokenRef  string
	CreatedAt time.Time
}

type SessionRepository interface {
	Get(ctx context.Context) (SessionRecord, error)
	Save(ctx context.Context, record SessionRecord) error
	Delete(ctx context.Context) error
}
