package metastore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/catalog/shared"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ColumnDefinition describes a column or partition key by its Hive type
type ColumnDefinition struct {
	Name    string
	Type    string
	Comment string
}

// TableDefinition is a table with its storage descriptor and schema
type TableDefinition struct {
	Database      string
	Name          string
	TableType     string
	InputFormat   string
	SerdeLib      string
	SerdeParams   map[string]string
	Params        map[string]string
	Location      string
	Columns       []ColumnDefinition
	PartitionKeys []ColumnDefinition
}

// IsView reports whether the table is a virtual view
func (t *TableDefinition) IsView() bool {
	return t.TableType == VirtualView
}

// PartitionDefinition is one partition with its effective storage descriptor
type PartitionDefinition struct {
	Values      []string
	Location    string
	InputFormat string
	SerdeLib    string
	SerdeParams map[string]string
}

// Store is a sqlite-backed Hive metastore. It satisfies catalog.Client.
type Store struct {
	db     *bun.DB
	logger zerolog.Logger
}

// NewStore opens (creating if needed) the metastore at path and migrates it
func NewStore(path string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.New(ErrOpenFailed, "failed to create metastore directory", err).AddContext("path", path)
	}

	sqldb, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.New(ErrOpenFailed, "failed to open metastore database", err).AddContext("path", path)
	}
	// sqlite allows a single writer
	sqldb.SetMaxOpenConns(1)

	store, err := NewStoreWithDB(sqldb, logger)
	if err != nil {
		sqldb.Close()
		return nil, err
	}
	return store, nil
}

// NewStoreWithDB wraps an open sqlite connection and migrates it
func NewStoreWithDB(sqldb *sql.DB, logger zerolog.Logger) (*Store, error) {
	store := newStore(sqldb, logger)
	if err := migrate(context.Background(), store.db); err != nil {
		return nil, err
	}
	return store, nil
}

func newStore(sqldb *sql.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     bun.NewDB(sqldb, sqlitedialect.New()),
		logger: logger.With().Str("component", "metastore").Logger(),
	}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateDatabase registers a database
func (s *Store) CreateDatabase(ctx context.Context, name, location string) error {
	if _, err := s.findDatabase(ctx, name); err == nil {
		return errors.New(ErrDatabaseExists, "database already exists", nil).AddContext("database", name)
	} else if !errors.HasCode(err, ErrDatabaseNotFound) {
		return err
	}

	db := &Database{Name: name, Location: location}
	if _, err := s.db.NewInsert().Model(db).Exec(ctx); err != nil {
		return shared.NewCatalogUnavailable("failed to create database", err)
	}

	s.logger.Debug().Str("database", name).Msg("Created database")
	return nil
}

// ListDatabases returns database names matching pattern in name order
func (s *Store) ListDatabases(ctx context.Context, pattern string) ([]string, error) {
	var names []string
	err := s.db.NewSelect().
		Model((*Database)(nil)).
		Column("name").
		Order("name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed to list databases", err)
	}
	return shared.FilterNames(pattern, names), nil
}

// ListTables returns table names of database matching pattern in name order.
// A missing database has no tables.
func (s *Store) ListTables(ctx context.Context, database, pattern string) ([]string, error) {
	db, err := s.findDatabase(ctx, database)
	if errors.HasCode(err, ErrDatabaseNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	err = s.db.NewSelect().
		Model((*Table)(nil)).
		Column("name").
		Where("database_id = ?", db.ID).
		Order("name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed to list tables", err)
	}
	return shared.FilterNames(pattern, names), nil
}

// CreateTable registers a table with its columns and partition keys
func (s *Store) CreateTable(ctx context.Context, def *TableDefinition) error {
	db, err := s.findDatabase(ctx, def.Database)
	if err != nil {
		return err
	}

	if _, err := s.findTable(ctx, db, def.Name); err == nil {
		return errors.New(ErrTableExists, "table already exists", nil).
			AddContext("database", def.Database).
			AddContext("table", def.Name)
	} else if !errors.HasCode(err, ErrTableNotFound) {
		return err
	}

	tableType := def.TableType
	if tableType == "" {
		tableType = ManagedTable
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		tbl := &Table{
			DatabaseID:  db.ID,
			Name:        def.Name,
			TableType:   tableType,
			InputFormat: def.InputFormat,
			SerdeLib:    def.SerdeLib,
			SerdeParams: def.SerdeParams,
			Params:      def.Params,
			Location:    def.Location,
		}
		if _, err := tx.NewInsert().Model(tbl).Returning("id").Exec(ctx); err != nil {
			return err
		}

		columns := make([]*Column, 0, len(def.Columns)+len(def.PartitionKeys))
		for i, col := range def.Columns {
			columns = append(columns, &Column{TableID: tbl.ID, Name: col.Name, Type: col.Type, Comment: col.Comment, Position: i})
		}
		for i, col := range def.PartitionKeys {
			columns = append(columns, &Column{TableID: tbl.ID, Name: col.Name, Type: col.Type, Comment: col.Comment, Position: i, PartitionKey: true})
		}
		if len(columns) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&columns).Exec(ctx)
		return err
	})
	if err != nil {
		return shared.NewCatalogUnavailable("failed to create table", err)
	}

	s.logger.Debug().
		Str("database", def.Database).
		Str("table", def.Name).
		Int("columns", len(def.Columns)).
		Int("partition_keys", len(def.PartitionKeys)).
		Msg("Created table")
	return nil
}

// GetTable loads a table with its schema
func (s *Store) GetTable(ctx context.Context, database, name string) (*TableDefinition, error) {
	db, err := s.findDatabase(ctx, database)
	if errors.HasCode(err, ErrDatabaseNotFound) {
		return nil, tableNotFound(database, name)
	}
	if err != nil {
		return nil, err
	}

	tbl, err := s.findTable(ctx, db, name)
	if err != nil {
		return nil, err
	}

	var columns []Column
	err = s.db.NewSelect().
		Model(&columns).
		Where("table_id = ?", tbl.ID).
		Order("partition_key ASC", "position ASC").
		Scan(ctx)
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed to load columns", err)
	}

	def := &TableDefinition{
		Database:    database,
		Name:        tbl.Name,
		TableType:   tbl.TableType,
		InputFormat: tbl.InputFormat,
		SerdeLib:    tbl.SerdeLib,
		SerdeParams: tbl.SerdeParams,
		Params:      tbl.Params,
		Location:    tbl.Location,
	}
	for _, col := range columns {
		cd := ColumnDefinition{Name: col.Name, Type: col.Type, Comment: col.Comment}
		if col.PartitionKey {
			def.PartitionKeys = append(def.PartitionKeys, cd)
		} else {
			def.Columns = append(def.Columns, cd)
		}
	}
	return def, nil
}

// AddPartition registers a partition; one value per partition key is required
func (s *Store) AddPartition(ctx context.Context, database, table string, part PartitionDefinition) error {
	def, err := s.GetTable(ctx, database, table)
	if err != nil {
		return err
	}
	if len(part.Values) != len(def.PartitionKeys) {
		return errors.Newf(ErrInvalidPartition, "table %s.%s has %d partition keys, got %d values",
			database, table, len(def.PartitionKeys), len(part.Values)).
			AddContext("database", database).
			AddContext("table", table)
	}

	db, err := s.findDatabase(ctx, database)
	if err != nil {
		return err
	}
	tbl, err := s.findTable(ctx, db, table)
	if err != nil {
		return err
	}

	row := &Partition{
		TableID:     tbl.ID,
		Values:      part.Values,
		Location:    part.Location,
		InputFormat: part.InputFormat,
		SerdeLib:    part.SerdeLib,
		SerdeParams: part.SerdeParams,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return shared.NewCatalogUnavailable("failed to add partition", err)
	}
	return nil
}

// ListPartitions returns the partitions of a table in insertion order with
// storage fields defaulted from the table
func (s *Store) ListPartitions(ctx context.Context, database, table string) ([]PartitionDefinition, error) {
	db, err := s.findDatabase(ctx, database)
	if errors.HasCode(err, ErrDatabaseNotFound) {
		return nil, tableNotFound(database, table)
	}
	if err != nil {
		return nil, err
	}
	tbl, err := s.findTable(ctx, db, table)
	if err != nil {
		return nil, err
	}

	var rows []Partition
	err = s.db.NewSelect().
		Model(&rows).
		Where("table_id = ?", tbl.ID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed to list partitions", err)
	}

	parts := make([]PartitionDefinition, 0, len(rows))
	for _, row := range rows {
		part := PartitionDefinition{
			Values:      row.Values,
			Location:    row.Location,
			InputFormat: row.InputFormat,
			SerdeLib:    row.SerdeLib,
			SerdeParams: row.SerdeParams,
		}
		if part.InputFormat == "" {
			part.InputFormat = tbl.InputFormat
		}
		if part.SerdeLib == "" {
			part.SerdeLib = tbl.SerdeLib
		}
		if part.SerdeParams == nil {
			part.SerdeParams = tbl.SerdeParams
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// TableNames returns every "database.table" name, sorted
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	dbs, err := s.ListDatabases(ctx, "")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, db := range dbs {
		tables, err := s.ListTables(ctx, db, "")
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			names = append(names, db+"."+t)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) findDatabase(ctx context.Context, name string) (*Database, error) {
	db := new(Database)
	err := s.db.NewSelect().Model(db).Where("name = ?", name).Limit(1).Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, errors.New(ErrDatabaseNotFound, "database does not exist", nil).AddContext("database", name)
	}
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed to load database", err)
	}
	return db, nil
}

func (s *Store) findTable(ctx context.Context, db *Database, name string) (*Table, error) {
	tbl := new(Table)
	err := s.db.NewSelect().
		Model(tbl).
		Where("database_id = ?", db.ID).
		Where("name = ?", name).
		Limit(1).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, tableNotFound(db.Name, name)
	}
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed to load table", err)
	}
	return tbl, nil
}

func tableNotFound(database, table string) *errors.Error {
	return errors.New(ErrTableNotFound, "table "+database+"."+table+" does not exist", nil).
		AddContext("database", database).
		AddContext("table", table)
}
