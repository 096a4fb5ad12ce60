package catalog

import "context"

// Client lists databases and tables. Patterns follow metastore glob rules,
// see shared.MatchPattern. Implementations are the sqlite metastore and the
// iceberg REST adapter.
type Client interface {
	ListDatabases(ctx context.Context, pattern string) ([]string, error)
	ListTables(ctx context.Context, database, pattern string) ([]string, error)
}

// Item is a fully qualified table name
type Item struct {
	Path string // database
	Name string // table
}

func (i Item) String() string {
	return i.Path + "." + i.Name
}
