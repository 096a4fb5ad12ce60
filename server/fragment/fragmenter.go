package fragment

import (
	"context"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/catalog"
	"github.com/gear6io/hivebridge/server/metastore"
	"github.com/gear6io/hivebridge/utils"
	"github.com/rs/zerolog"
)

// TableSource loads table definitions and partitions. metastore.Store
// satisfies it.
type TableSource interface {
	GetTable(ctx context.Context, database, name string) (*metastore.TableDefinition, error)
	ListPartitions(ctx context.Context, database, table string) ([]metastore.PartitionDefinition, error)
}

// Fragment is one unit of read work: a data file plus the metadata a reader
// needs to interpret it
type Fragment struct {
	ID       string
	Source   string
	Index    int
	Metadata []byte
}

// Fragmenter splits a table into per-file fragments
type Fragmenter struct {
	tables             TableSource
	files              FileLister
	logger             zerolog.Logger
	filterInFragmenter bool
	assertFormat       bool
}

// Option configures a Fragmenter
type Option func(*Fragmenter)

// WithInputFormatCheck restricts tables to the RC, text and ORC input formats
func WithInputFormatCheck() Option {
	return func(f *Fragmenter) { f.assertFormat = true }
}

// WithFilterInFragmenter records that partition filtering already happened
func WithFilterInFragmenter() Option {
	return func(f *Fragmenter) { f.filterInFragmenter = true }
}

// NewFragmenter creates a fragmenter over a table source and file lister
func NewFragmenter(tables TableSource, files FileLister, logger zerolog.Logger, opts ...Option) *Fragmenter {
	f := &Fragmenter{
		tables: tables,
		files:  files,
		logger: logger.With().Str("component", "fragmenter").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fragments returns one fragment per data file of every partition of item.
// An unpartitioned table counts as a single partition.
func (f *Fragmenter) Fragments(ctx context.Context, item catalog.Item) ([]Fragment, error) {
	table, err := f.tables.GetTable(ctx, item.Path, item.Name)
	if err != nil {
		return nil, err
	}
	if table.IsView() {
		return nil, errors.Newf(errors.CommonUnsupported, "Hive views are not supported by the connector: %s", item).
			AddContext("table", item.String())
	}

	parts, err := f.partitions(ctx, table)
	if err != nil {
		return nil, err
	}

	var fragments []Fragment
	for _, tp := range parts {
		m, err := MakeMetadata(tp, f.filterInFragmenter, f.assertFormat)
		if err != nil {
			if e := errors.AsError(err); e != nil {
				e.AddContext("table", item.String())
			}
			return nil, err
		}
		data := Encode(m)

		files, err := f.files.ListFiles(ctx, tp.Location())
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			fragments = append(fragments, Fragment{
				ID:       utils.GenerateULIDString(),
				Source:   file,
				Index:    len(fragments),
				Metadata: data,
			})
		}
	}

	f.logger.Debug().
		Str("table", item.String()).
		Int("partitions", len(parts)).
		Int("fragments", len(fragments)).
		Msg("Fragmented table")
	return fragments, nil
}

func (f *Fragmenter) partitions(ctx context.Context, table *metastore.TableDefinition) ([]TablePartition, error) {
	if len(table.PartitionKeys) == 0 {
		return []TablePartition{{Table: table}}, nil
	}

	defs, err := f.tables.ListPartitions(ctx, table.Database, table.Name)
	if err != nil {
		return nil, err
	}
	parts := make([]TablePartition, len(defs))
	for i := range defs {
		parts[i] = TablePartition{Table: table, Partition: &defs[i]}
	}
	return parts, nil
}
