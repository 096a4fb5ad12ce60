package catalog

import (
	"context"

	"github.com/gear6io/hivebridge/server/catalog/shared"
	"github.com/rs/zerolog"
)

// Resolver turns table names and patterns into concrete items. It is safe
// for concurrent use when its Client is.
type Resolver struct {
	client          Client
	defaultDatabase string
	logger          zerolog.Logger
}

// NewResolver creates a resolver. A nil client disables wildcard expansion.
func NewResolver(client Client, defaultDatabase string, logger zerolog.Logger) *Resolver {
	if defaultDatabase == "" {
		defaultDatabase = DefaultDatabase
	}
	return &Resolver{
		client:          client,
		defaultDatabase: defaultDatabase,
		logger:          logger.With().Str("component", "resolver").Logger(),
	}
}

// ResolveItem resolves an exact "table" or "database.table" name without
// consulting the catalog
func (r *Resolver) ResolveItem(ctx context.Context, name string) (Item, error) {
	p, err := ParsePattern(name, r.defaultDatabase)
	if err != nil {
		return Item{}, err
	}

	items, err := r.resolve(ctx, nil, p)
	if err != nil {
		return Item{}, err
	}
	if len(items) == 0 {
		return Item{}, shared.NewCatalogNoMatch(name)
	}
	return items[0], nil
}

// ResolvePattern parses pattern and expands it
func (r *Resolver) ResolvePattern(ctx context.Context, pattern string) ([]Item, error) {
	p, err := ParsePattern(pattern, r.defaultDatabase)
	if err != nil {
		return nil, err
	}
	return r.ResolveItems(ctx, p.Database, p.Table)
}

// ResolveItems expands database and table patterns. Without a client or a
// wildcard the literal pair is returned and the catalog is not queried.
// Items are ordered database first, then table, as the catalog lists them.
func (r *Resolver) ResolveItems(ctx context.Context, dbPattern, tablePattern string) ([]Item, error) {
	return r.resolve(ctx, r.client, Pattern{Database: dbPattern, Table: tablePattern})
}

func (r *Resolver) resolve(ctx context.Context, client Client, p Pattern) ([]Item, error) {
	if client == nil || !p.HasWildcard() {
		return []Item{{Path: p.Database, Name: p.Table}}, nil
	}

	dbPattern, tablePattern := p.Database, p.Table
	databases, err := client.ListDatabases(ctx, dbPattern)
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed connecting to catalog", err)
	}
	if len(databases) == 0 {
		r.logger.Warn().Str("pattern", dbPattern).Msg("No database found for the given pattern")
		return []Item{}, nil
	}

	items := []Item{}
	for _, db := range databases {
		tables, err := client.ListTables(ctx, db, tablePattern)
		if err != nil {
			return nil, shared.NewCatalogUnavailable("failed connecting to catalog", err)
		}
		for _, t := range tables {
			items = append(items, Item{Path: db, Name: t})
		}
	}

	r.logger.Debug().
		Str("database_pattern", dbPattern).
		Str("table_pattern", tablePattern).
		Int("items", len(items)).
		Msg("Resolved pattern")
	return items, nil
}
