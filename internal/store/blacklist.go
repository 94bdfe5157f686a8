package store

import (
	"context"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
)

// blacklistTable is implemented by the SQL backends, which keep both
// blacklists in one table keyed by kind.
type blacklistTable interface {
	GetBlacklist(ctx context.Context, kind blacklist.Kind) (blacklist.Set, error)
	AddBlacklist(ctx context.Context, kind blacklist.Kind, value string) error
	RemoveBlacklist(ctx context.Context, kind blacklist.Kind, value string) error
	WriteBlacklist(ctx context.Context, kind blacklist.Kind, set blacklist.Set) error
}

// kindBlacklist narrows a blacklistTable to a single blacklist.Store.
type kindBlacklist struct {
	kind  blacklist.Kind
	table blacklistTable
}

var _ blacklist.Store = kindBlacklist{}

func (b kindBlacklist) Get(ctx context.Context) (blacklist.Set, error) {
	return b.table.GetBlacklist(ctx, b.kind)
}

func (b kindBlacklist) Add(ctx context.Context, value string) error {
	return b.table.AddBlacklist(ctx, b.kind, value)
}

func (b kindBlacklist) Remove(ctx context.Context, value string) error {
	return b.table.RemoveBlacklist(ctx, b.kind, value)
}

func (b kindBlacklist) Write(ctx context.Context, set blacklist.Set) error {
	return b.table.WriteBlacklist(ctx, b.kind, set)
}
