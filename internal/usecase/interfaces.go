package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
	// VerifyMissing performs a comparison against a throwaway hash.
	VerifyMissing(plain string)
}

type TokenService interface {
	// Issue returns the signed token and the instant it expires.
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
	Validate(token string) (string, error)
	TTL() time.Duration
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event queue.PipelineEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, queue.PipelineEvent) error { return nil }
