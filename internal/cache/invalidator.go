// Package cache invalidates cached read models after loan and
// inventory transitions commit. Invalidation is best-effort: the
// durable state already committed, so a redis failure is logged and
// swallowed by callers.
package cache

import (
	"context"

	"go.uber.org/multierr"

	"github.com/mlefebvre/parcinfo-backend/pkg/redis"
)

// Cache namespaces. Every cached read model lives under one of these
// prefixes so a whole family of keys can be dropped in one call.
const (
	NamespaceLoans      = "loans"
	NamespaceAssetItems = "asset_items"
	NamespaceStockItems = "stock_items"
	NamespaceEmployees  = "employees"
)

type deleter interface {
	DelByPrefix(ctx context.Context, prefix string) error
}

// Invalidator drops cached entries by namespace prefix.
type Invalidator struct {
	redis deleter
}

// NewInvalidator returns an invalidator backed by the shared redis
// client. A nil client yields a no-op invalidator: storing it in the
// deleter field would make the nil check below pass vacuously.
func NewInvalidator(client *redis.Client) *Invalidator {
	if client == nil {
		return &Invalidator{}
	}
	return &Invalidator{redis: client}
}

// Invalidate removes every cached key under each namespace. All
// namespaces are attempted even when one fails; errors are combined.
func (i *Invalidator) Invalidate(ctx context.Context, namespaces ...string) error {
	if i == nil || i.redis == nil {
		return nil
	}
	var errs []error
	for _, ns := range namespaces {
		if ns == "" {
			continue
		}
		if err := i.redis.DelByPrefix(ctx, ns); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
