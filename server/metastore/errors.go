package metastore

import "github.com/gear6io/hivebridge/pkg/errors"

// Metastore-specific error codes
var (
	ErrDatabaseNotFound = errors.MustNewCode("metastore.database_not_found")
	ErrDatabaseExists   = errors.MustNewCode("metastore.database_exists")
	ErrTableNotFound    = errors.MustNewCode("metastore.table_not_found")
	ErrTableExists      = errors.MustNewCode("metastore.table_exists")
	ErrMigrationFailed  = errors.MustNewCode("metastore.migration_failed")
	ErrInvalidPartition = errors.MustNewCode("metastore.invalid_partition")
	ErrOpenFailed       = errors.MustNewCode("metastore.open_failed")
)
