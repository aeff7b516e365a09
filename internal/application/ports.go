package application

import (
	"context"
	"time"

	"github.com/okadio/microblog/internal/domain/entity"
)

// SessionStore is the slice of the session manager the services need.
// Satisfied by *session.Manager.
type SessionStore interface {
	Start(ctx context.Context, u *entity.User, remember bool) (string, error)
	Rotate(ctx context.Context, userID, currentSID string) (sid string, remember bool, err error)
	Destroy(ctx context.Context, userID string) error
	TTLFor(remember bool) time.Duration
	IntendedOrDefault(ctx context.Context, visitorID, def string) string
}

// MailDispatcher enqueues email jobs for the external mail worker.
// Satisfied by *helpers.RabbitPublisher. Fire-and-forget from the caller's
// perspective; delivery is the worker's concern.
type MailDispatcher interface {
	PublishJSON(ctx context.Context, body any) error
}
