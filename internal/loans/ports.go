package loans

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

// The engine never sees concrete side-effect implementations. Cache
// invalidation and audit recording run strictly after commit; their
// failure is logged and never rolls back the already-durable state.

// CacheInvalidator drops cached read models by namespace.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, namespaces ...string) error
}

// AuditRecorder persists one entry per committed mutation.
type AuditRecorder interface {
	LogCreate(ctx context.Context, table, recordID string, actorID uuid.UUID, after any) error
	LogUpdate(ctx context.Context, table, recordID string, actorID uuid.UUID, before, after any) error
	LogDelete(ctx context.Context, table, recordID string, actorID uuid.UUID, before any) error
}

// SignatureStore persists signature images and resolves them to URLs.
// The engine stores only the returned URL and a timestamp.
type SignatureStore interface {
	Store(ctx context.Context, loanID uuid.UUID, kind enums.SignatureKind, image string) (string, error)
	Remove(ctx context.Context, url string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
