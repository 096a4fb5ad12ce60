package shared

import (
	"github.com/gear6io/hivebridge/pkg/errors"
)

// Catalog-specific error codes
var (
	CatalogInvalidPattern = errors.MustNewCode("catalog.invalid_pattern")
	CatalogNoMatch        = errors.MustNewCode("catalog.no_match")
	CatalogUnavailable    = errors.MustNewCode("catalog.unavailable")
)

// Helper functions for common catalog errors
func NewCatalogInvalidPattern(pattern string) *errors.Error {
	msg := "\"" + pattern + "\" is not a valid Hive table name. Should be either <table_name> or <db_name.table_name>"
	if pattern == "" {
		msg = "empty string is not a valid Hive table name. Should be either <table_name> or <db_name.table_name>"
	}
	return errors.New(CatalogInvalidPattern, msg, nil).AddContext("pattern", pattern)
}

func NewCatalogNoMatch(pattern string) *errors.Error {
	return errors.New(CatalogNoMatch, "no tables found", nil).AddContext("pattern", pattern)
}

// NewCatalogUnavailable wraps a listing failure. Errors already classified as
// unavailable are returned unchanged.
func NewCatalogUnavailable(message string, cause error) error {
	if errors.HasCode(cause, CatalogUnavailable) {
		return cause
	}
	return errors.New(CatalogUnavailable, message, cause)
}
