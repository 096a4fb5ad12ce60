package iceberg

import (
	"context"
	"iter"
	"testing"

	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/table"
	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/catalog/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockCatalog implements only the listing part of icebergcatalog.Catalog
type mockCatalog struct {
	icebergcatalog.Catalog
	mock.Mock
}

func (m *mockCatalog) CatalogType() icebergcatalog.Type {
	return icebergcatalog.REST
}

func (m *mockCatalog) ListNamespaces(ctx context.Context, parent table.Identifier) ([]table.Identifier, error) {
	args := m.Called(parent)
	ns, _ := args.Get(0).([]table.Identifier)
	return ns, args.Error(1)
}

func (m *mockCatalog) ListTables(ctx context.Context, namespace table.Identifier) iter.Seq2[table.Identifier, error] {
	args := m.Called(namespace)
	idents, _ := args.Get(0).([]table.Identifier)
	failure := args.Error(1)
	return func(yield func(table.Identifier, error) bool) {
		for _, id := range idents {
			if !yield(id, nil) {
				return
			}
		}
		if failure != nil {
			yield(nil, failure)
		}
	}
}

func TestListDatabases(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("ListNamespaces", table.Identifier(nil)).Return([]table.Identifier{
		{"default"}, {"sales"}, {"sales", "archive"},
	}, nil)

	client := NewClientWithCatalog(cat)
	assert.Equal(t, icebergcatalog.REST, client.CatalogType())

	dbs, err := client.ListDatabases(context.Background(), "sales*")
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "sales.archive"}, dbs)

	dbs, err = client.ListDatabases(context.Background(), "*")
	require.NoError(t, err)
	assert.Len(t, dbs, 3)
	cat.AssertExpectations(t)
}

func TestListTables(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("ListTables", table.Identifier{"sales", "archive"}).Return([]table.Identifier{
		{"sales", "archive", "orders_2019"},
		{"sales", "archive", "orders_2020"},
		{"sales", "archive", "customers"},
	}, nil)

	tables, err := NewClientWithCatalog(cat).ListTables(context.Background(), "sales.archive", "orders*")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders_2019", "orders_2020"}, tables)
	cat.AssertExpectations(t)
}

func TestListFailuresAreCatalogUnavailable(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("ListNamespaces", table.Identifier(nil)).Return(nil, assert.AnError)
	cat.On("ListTables", table.Identifier{"default"}).Return([]table.Identifier{{"default", "t1"}}, assert.AnError)

	client := NewClientWithCatalog(cat)

	_, err := client.ListDatabases(context.Background(), "*")
	assert.True(t, errors.HasCode(err, shared.CatalogUnavailable))

	_, err = client.ListTables(context.Background(), "default", "*")
	assert.True(t, errors.HasCode(err, shared.CatalogUnavailable))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewClientRequiresURI(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	assert.True(t, errors.HasCode(err, shared.CatalogUnavailable))
}
