package schema

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/types"
)

// Hive's decimal default when no precision is given
const (
	defaultDecimalPrecision = 10
	defaultDecimalScale     = 0
)

// ToArrowSchema converts engine fields into the arrow schema readers emit.
// Complex columns are serialized as text.
func ToArrowSchema(fields []types.Field) (*arrow.Schema, error) {
	arrowFields := make([]arrow.Field, 0, len(fields))
	for _, f := range fields {
		dt, err := arrowType(f)
		if err != nil {
			return nil, err
		}
		meta := map[string]string{"hive_type": f.SourceTypeName}
		if len(f.Modifiers) > 0 {
			meta["hive_modifiers"] = strings.Join(f.Modifiers, ",")
		}
		if f.Complex {
			meta["hive_complex"] = "true"
		}
		arrowFields = append(arrowFields, arrow.Field{
			Name:     f.Name,
			Type:     dt,
			Nullable: true,
			Metadata: arrow.MetadataFrom(meta),
		})
	}
	return arrow.NewSchema(arrowFields, nil), nil
}

func arrowType(f types.Field) (arrow.DataType, error) {
	switch f.Type {
	case types.Int2:
		return arrow.PrimitiveTypes.Int16, nil
	case types.Int4:
		return arrow.PrimitiveTypes.Int32, nil
	case types.Int8:
		return arrow.PrimitiveTypes.Int64, nil
	case types.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case types.Float4:
		return arrow.PrimitiveTypes.Float32, nil
	case types.Float8:
		return arrow.PrimitiveTypes.Float64, nil
	case types.Text, types.Varchar, types.Bpchar:
		return arrow.BinaryTypes.String, nil
	case types.Bytea:
		return arrow.BinaryTypes.Binary, nil
	case types.Timestamp:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	case types.Date:
		return arrow.FixedWidthTypes.Date32, nil
	case types.Numeric:
		return decimalType(f)
	}
	return nil, errors.Newf(types.TypesUnsupported, "no arrow type for %s (Field %s)", f.Type, f.Name).
		AddContext("column", f.Name)
}

func decimalType(f types.Field) (arrow.DataType, error) {
	precision, scale := int32(defaultDecimalPrecision), int32(defaultDecimalScale)
	if len(f.Modifiers) > 0 {
		mods, err := f.IntModifiers()
		if err != nil || len(mods) != 2 {
			return nil, errors.Newf(types.TypesUnsupported, "invalid decimal modifiers %q (Field %s)", strings.Join(f.Modifiers, ","), f.Name).
				AddContext("column", f.Name)
		}
		precision, scale = int32(mods[0]), int32(mods[1])
	}
	if precision < 1 || scale < 0 || scale > precision {
		return nil, errors.Newf(types.TypesUnsupported, "invalid decimal(%d,%d) (Field %s)", precision, scale, f.Name).
			AddContext("column", f.Name)
	}
	if precision > 38 {
		return &arrow.Decimal256Type{Precision: precision, Scale: scale}, nil
	}
	return &arrow.Decimal128Type{Precision: precision, Scale: scale}, nil
}
