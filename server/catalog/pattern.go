package catalog

import (
	"strings"

	"github.com/gear6io/hivebridge/server/catalog/shared"
)

const (
	// DefaultDatabase qualifies single-token names
	DefaultDatabase = "default"

	// Wildcard marks a pattern that must be expanded against the catalog
	Wildcard = "*"
)

// Pattern is a split "database.table" name pattern
type Pattern struct {
	Database string
	Table    string
}

// HasWildcard reports whether either side needs catalog expansion
func (p Pattern) HasWildcard() bool {
	return strings.Contains(p.Database, Wildcard) || strings.Contains(p.Table, Wildcard)
}

// ParsePattern splits "table" or "database.table". Blank tokens are dropped,
// so "db..t" is the same as "db.t".
func ParsePattern(pattern, defaultDatabase string) (Pattern, error) {
	if strings.TrimSpace(pattern) == "" {
		return Pattern{}, shared.NewCatalogInvalidPattern("")
	}
	if defaultDatabase == "" {
		defaultDatabase = DefaultDatabase
	}

	var tokens []string
	for _, tok := range strings.Split(pattern, ".") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}

	switch len(tokens) {
	case 1:
		return Pattern{Database: defaultDatabase, Table: tokens[0]}, nil
	case 2:
		return Pattern{Database: tokens[0], Table: tokens[1]}, nil
	default:
		return Pattern{}, shared.NewCatalogInvalidPattern(pattern)
	}
}
