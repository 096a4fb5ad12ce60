package metastore

import (
	"context"
	"database/sql"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/uptrace/bun"
)

// Migration is one schema step applied inside the migration transaction
type Migration interface {
	Version() int
	Name() string
	Up(ctx context.Context, tx bun.Tx) error
}

// migrations are applied in order; append new steps at the end
var migrations = []Migration{
	initialSchema{},
}

type initialSchema struct{}

func (initialSchema) Version() int { return 1 }
func (initialSchema) Name() string { return "initial_schema" }

func (initialSchema) Up(ctx context.Context, tx bun.Tx) error {
	if _, err := tx.NewCreateTable().
		Model((*Database)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.New(ErrMigrationFailed, "failed to create databases table", err)
	}

	if _, err := tx.NewCreateTable().
		Model((*Table)(nil)).
		ForeignKey(`("database_id") REFERENCES "databases" ("id") ON DELETE CASCADE`).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.New(ErrMigrationFailed, "failed to create tables table", err)
	}

	if _, err := tx.NewCreateTable().
		Model((*Column)(nil)).
		ForeignKey(`("table_id") REFERENCES "tables" ("id") ON DELETE CASCADE`).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.New(ErrMigrationFailed, "failed to create columns table", err)
	}

	if _, err := tx.NewCreateTable().
		Model((*Partition)(nil)).
		ForeignKey(`("table_id") REFERENCES "tables" ("id") ON DELETE CASCADE`).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.New(ErrMigrationFailed, "failed to create partitions table", err)
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tables_database_name ON tables(database_id, name)`,
		`CREATE INDEX IF NOT EXISTS idx_columns_table ON columns(table_id, partition_key, position)`,
		`CREATE INDEX IF NOT EXISTS idx_partitions_table ON partitions(table_id)`,
	}
	for _, stmt := range indexes {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.New(ErrMigrationFailed, "failed to create index", err).AddContext("statement", stmt)
		}
	}

	return nil
}

// migrate applies every migration newer than the recorded version in a
// single transaction
func migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*SchemaVersion)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.New(ErrMigrationFailed, "failed to create schema_versions table", err)
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, m := range migrations {
			if m.Version() <= current {
				continue
			}
			if err := m.Up(ctx, tx); err != nil {
				return errors.New(ErrMigrationFailed, "migration failed", err).
					AddContext("migration", m.Name())
			}
			version := &SchemaVersion{Version: m.Version(), Name: m.Name()}
			if _, err := tx.NewInsert().Model(version).Exec(ctx); err != nil {
				return errors.New(ErrMigrationFailed, "failed to record migration", err).
					AddContext("migration", m.Name())
			}
		}
		return nil
	})
}

func currentVersion(ctx context.Context, db bun.IDB) (int, error) {
	var version int
	err := db.NewSelect().
		Model((*SchemaVersion)(nil)).
		Column("version").
		Order("version DESC").
		Limit(1).
		Scan(ctx, &version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.New(ErrMigrationFailed, "failed to get current schema version", err)
	}
	return version, nil
}
