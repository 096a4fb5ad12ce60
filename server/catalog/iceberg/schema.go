package iceberg

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/catalog/shared"
	"github.com/gear6io/hivebridge/server/metastore"
)

// GetTable loads an iceberg table and describes it with Hive type names.
// Iceberg partitions are hidden, so every field is a regular column.
func (c *Client) GetTable(ctx context.Context, database, name string) (*metastore.TableDefinition, error) {
	ident := append(icebergcatalog.ToIdentifier(database), name)
	tbl, err := c.catalog.LoadTable(ctx, ident, nil)
	if err != nil {
		if errors.Is(err, icebergcatalog.ErrNoSuchTable) {
			return nil, errors.New(metastore.ErrTableNotFound, "table "+database+"."+name+" does not exist", err).
				AddContext("database", database).
				AddContext("table", name)
		}
		return nil, shared.NewCatalogUnavailable("failed to load table", err)
	}
	return tableDefinition(database, name, tbl.Schema(), tbl.Location(), tbl.Properties())
}

func tableDefinition(database, name string, schema *iceberg.Schema, location string, props iceberg.Properties) (*metastore.TableDefinition, error) {
	def := &metastore.TableDefinition{
		Database:  database,
		Name:      name,
		TableType: metastore.ExternalTable,
		Params:    props,
		Location:  location,
	}
	for _, field := range schema.Fields() {
		hiveType, err := HiveTypeName(field.Type)
		if err != nil {
			return nil, errors.New(errors.CommonUnsupported, "cannot describe column "+field.Name, err).
				AddContext("table", database+"."+name).
				AddContext("column", field.Name)
		}
		def.Columns = append(def.Columns, metastore.ColumnDefinition{
			Name:    field.Name,
			Type:    hiveType,
			Comment: field.Doc,
		})
	}
	return def, nil
}

// HiveTypeName renders an iceberg type as the equivalent Hive type name.
// Hive has no time or uuid types; both are read as strings.
func HiveTypeName(t iceberg.Type) (string, error) {
	switch typ := t.(type) {
	case iceberg.BooleanType:
		return "boolean", nil
	case iceberg.Int32Type:
		return "int", nil
	case iceberg.Int64Type:
		return "bigint", nil
	case iceberg.Float32Type:
		return "float", nil
	case iceberg.Float64Type:
		return "double", nil
	case iceberg.DateType:
		return "date", nil
	case iceberg.TimestampType, iceberg.TimestampTzType:
		return "timestamp", nil
	case iceberg.StringType, iceberg.UUIDType, iceberg.TimeType:
		return "string", nil
	case iceberg.BinaryType, iceberg.FixedType:
		return "binary", nil
	case iceberg.DecimalType:
		return fmt.Sprintf("decimal(%d,%d)", typ.Precision(), typ.Scale()), nil
	case *iceberg.ListType:
		elem, err := HiveTypeName(typ.Element)
		if err != nil {
			return "", err
		}
		return "array<" + elem + ">", nil
	case *iceberg.MapType:
		key, err := HiveTypeName(typ.KeyType)
		if err != nil {
			return "", err
		}
		value, err := HiveTypeName(typ.ValueType)
		if err != nil {
			return "", err
		}
		return "map<" + key + "," + value + ">", nil
	case *iceberg.StructType:
		fields := make([]string, 0, len(typ.FieldList))
		for _, f := range typ.FieldList {
			ft, err := HiveTypeName(f.Type)
			if err != nil {
				return "", err
			}
			fields = append(fields, f.Name+":"+ft)
		}
		return "struct<" + strings.Join(fields, ",") + ">", nil
	}
	return "", errors.Newf(errors.CommonUnsupported, "no Hive type for iceberg type %s", t)
}
