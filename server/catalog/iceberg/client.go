package iceberg

import (
	"context"
	"strings"

	"github.com/gear6io/hivebridge/server/catalog/shared"
	icebergcatalog "github.com/apache/iceberg-go/catalog"
	icebergrest "github.com/apache/iceberg-go/catalog/rest"
)

// CatalogName is the name registered with the REST catalog
const CatalogName = "hivebridge-rest-catalog"

// Client lists an iceberg catalog as databases and tables: top-level
// namespaces are databases and the last identifier part is the table name.
type Client struct {
	catalog icebergcatalog.Catalog
}

// NewClient connects to an iceberg REST catalog
func NewClient(ctx context.Context, uri string, opts ...icebergrest.Option) (*Client, error) {
	if uri == "" {
		return nil, shared.NewCatalogUnavailable("catalog URI is required for the iceberg catalog", nil)
	}

	restCatalog, err := icebergrest.NewCatalog(ctx, CatalogName, uri, opts...)
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed to create REST catalog", err)
	}
	return NewClientWithCatalog(restCatalog), nil
}

// NewClientWithCatalog wraps an existing iceberg catalog
func NewClientWithCatalog(cat icebergcatalog.Catalog) *Client {
	return &Client{catalog: cat}
}

// CatalogType returns the wrapped catalog type
func (c *Client) CatalogType() icebergcatalog.Type {
	return c.catalog.CatalogType()
}

// ListDatabases lists namespaces matching pattern, dotted when nested
func (c *Client) ListDatabases(ctx context.Context, pattern string) ([]string, error) {
	namespaces, err := c.catalog.ListNamespaces(ctx, nil)
	if err != nil {
		return nil, shared.NewCatalogUnavailable("failed to list namespaces", err)
	}

	names := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		names = append(names, strings.Join(ns, "."))
	}
	return shared.FilterNames(pattern, names), nil
}

// ListTables lists tables of the namespace named database matching pattern
func (c *Client) ListTables(ctx context.Context, database, pattern string) ([]string, error) {
	var names []string
	for ident, err := range c.catalog.ListTables(ctx, icebergcatalog.ToIdentifier(database)) {
		if err != nil {
			return nil, shared.NewCatalogUnavailable("failed to list tables", err)
		}
		if len(ident) == 0 {
			continue
		}
		names = append(names, icebergcatalog.TableNameFromIdent(ident))
	}
	return shared.FilterNames(pattern, names), nil
}

// Close is a no-op; the REST catalog holds no resources
func (c *Client) Close() error {
	return nil
}
