package schema

import (
	"context"
	"strings"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/catalog"
	"github.com/gear6io/hivebridge/server/metastore"
	"github.com/gear6io/hivebridge/server/types"
	"github.com/rs/zerolog"
)

// TableSource loads table definitions. metastore.Store satisfies it.
type TableSource interface {
	GetTable(ctx context.Context, database, name string) (*metastore.TableDefinition, error)
}

// Metadata is the engine-side description of one table. Partition columns
// follow the regular columns.
type Metadata struct {
	Item            catalog.Item
	Fields          []types.Field
	PartitionFields int
}

// HasComplexTypes reports whether any column came from a complex Hive type
func (m Metadata) HasComplexTypes() bool {
	return types.HasComplexTypes(m.Fields)
}

// Discoverer resolves table patterns and maps the matched tables' schemas
type Discoverer struct {
	resolver *catalog.Resolver
	tables   TableSource
	logger   zerolog.Logger
}

// NewDiscoverer creates a discoverer
func NewDiscoverer(resolver *catalog.Resolver, tables TableSource, logger zerolog.Logger) *Discoverer {
	return &Discoverer{
		resolver: resolver,
		tables:   tables,
		logger:   logger.With().Str("component", "schema").Logger(),
	}
}

// Discover returns the metadata of every table matching pattern
func (d *Discoverer) Discover(ctx context.Context, pattern string) ([]Metadata, error) {
	items, err := d.resolver.ResolvePattern(ctx, pattern)
	if err != nil {
		return nil, err
	}

	result := make([]Metadata, 0, len(items))
	for _, item := range items {
		m, err := d.Table(ctx, item)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}

	d.logger.Debug().Str("pattern", pattern).Int("tables", len(result)).Msg("Discovered tables")
	return result, nil
}

// Table returns the metadata of a single table. Views are rejected.
func (d *Discoverer) Table(ctx context.Context, item catalog.Item) (Metadata, error) {
	table, err := d.tables.GetTable(ctx, item.Path, item.Name)
	if err != nil {
		return Metadata{}, err
	}
	return TableMetadata(item, table)
}

// TableMetadata maps a loaded table definition
func TableMetadata(item catalog.Item, table *metastore.TableDefinition) (Metadata, error) {
	if table.IsView() {
		return Metadata{}, errors.Newf(errors.CommonUnsupported, "Hive views are not supported by GPDB: %s", item).
			AddContext("table", item.String())
	}

	cols := make([]types.ExternalColumn, 0, len(table.Columns)+len(table.PartitionKeys))
	for _, c := range table.Columns {
		cols = append(cols, types.ExternalColumn{Name: c.Name, Type: c.Type})
	}
	for _, c := range table.PartitionKeys {
		cols = append(cols, types.ExternalColumn{Name: c.Name, Type: c.Type})
	}

	fields, err := types.MapHiveColumns(cols)
	if err != nil {
		return Metadata{}, errors.New(types.TypesUnsupported, "failed to retrieve metadata for table "+item.String(), err).
			AddContext("table", item.String())
	}

	return Metadata{
		Item:            item,
		Fields:          fields,
		PartitionFields: len(table.PartitionKeys),
	}, nil
}

// EngineColumn is a column of an engine-side table definition
type EngineColumn struct {
	Name      string
	Type      types.DataType
	Modifiers []int
}

// ValidateWriteTarget checks that every engine column exists in the Hive
// table with a compatible type. Column names match case-insensitively.
func ValidateWriteTarget(cols []EngineColumn, table *metastore.TableDefinition) error {
	hiveTypes := make(map[string]string, len(table.Columns)+len(table.PartitionKeys))
	for _, c := range table.Columns {
		hiveTypes[strings.ToLower(c.Name)] = c.Type
	}
	for _, c := range table.PartitionKeys {
		hiveTypes[strings.ToLower(c.Name)] = c.Type
	}

	for _, col := range cols {
		hiveType, ok := hiveTypes[strings.ToLower(col.Name)]
		if !ok {
			return errors.Newf(types.TypesIncompatible, "column %s does not exist in table %s.%s", col.Name, table.Database, table.Name).
				AddContext("column", col.Name)
		}
		if err := types.ValidateTypeCompatible(col.Type, col.Modifiers, hiveType, col.Name); err != nil {
			return err
		}
	}
	return nil
}
