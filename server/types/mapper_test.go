package types

import (
	"testing"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapHiveType(t *testing.T) {
	tests := []struct {
		name       string
		hiveType   string
		expected   DataType
		complex    bool
		sourceName string
		modifiers  []string
	}{
		{"tinyint", "tinyint", Int2, false, "tinyint", nil},
		{"smallint", "smallint", Int2, false, "smallint", nil},
		{"int", "int", Int4, false, "int", nil},
		{"bigint", "bigint", Int8, false, "bigint", nil},
		{"boolean", "boolean", Bool, false, "boolean", nil},
		{"float", "float", Float4, false, "float", nil},
		{"double", "double", Float8, false, "double", nil},
		{"string", "string", Text, false, "string", nil},
		{"binary", "binary", Bytea, false, "binary", nil},
		{"timestamp", "timestamp", Timestamp, false, "timestamp", nil},
		{"date", "date", Date, false, "date", nil},
		{"decimal with modifiers", "decimal(10,2)", Numeric, false, "decimal", []string{"10", "2"}},
		{"varchar", "varchar(25)", Varchar, false, "varchar", []string{"25"}},
		{"char", "char(3)", Bpchar, false, "char", []string{"3"}},
		{"array", "array<string>", Text, true, "array", nil},
		{"map", "map<string,int>", Text, true, "map", nil},
		{"struct", "struct<a:int,b:string>", Text, true, "struct", nil},
		{"uniontype", "uniontype<int,string>", Text, true, "uniontype", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := MapHiveType(ExternalColumn{Name: "c1", Type: tt.hiveType})
			require.NoError(t, err)

			assert.Equal(t, "c1", field.Name)
			assert.Equal(t, tt.expected, field.Type)
			assert.Equal(t, tt.complex, field.Complex)
			assert.Equal(t, tt.sourceName, field.SourceTypeName)
			assert.Equal(t, tt.modifiers, field.Modifiers)
		})
	}
}

func TestMapHiveTypeUnsupported(t *testing.T) {
	tests := []struct {
		name     string
		hiveType string
		message  string
	}{
		{"unknown type", "interval", "GPDB does not support type interval (Field bad)"},
		{"bare decimal", "decimal", "expected number of modifiers: 2, actual number of modifiers: 0"},
		{"missing scale", "decimal(10)", "expected number of modifiers: 2, actual number of modifiers: 1"},
		{"extra modifier", "varchar(10,2)", "expected number of modifiers: 1, actual number of modifiers: 2"},
		{"non numeric modifier", "varchar(abc)", "modifiers should be integers"},
		{"negative modifier", "char(-1)", "modifiers should be integers"},
		{"blank modifier", "decimal(10, )", "modifiers should be integers"},
		{"empty type", "", "GPDB does not support type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapHiveType(ExternalColumn{Name: "bad", Type: tt.hiveType})
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, TypesUnsupported))
			assert.Contains(t, err.Error(), tt.message)

			ctx := errors.GetContext(err)
			assert.Equal(t, "bad", ctx["column"])
		})
	}
}

func TestMapHiveColumns(t *testing.T) {
	fields, err := MapHiveColumns([]ExternalColumn{
		{Name: "id", Type: "bigint"},
		{Name: "tags", Type: "array<string>"},
		{Name: "price", Type: "decimal(8,3)"},
	})
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, []string{"id", "tags", "price"}, []string{fields[0].Name, fields[1].Name, fields[2].Name})
	assert.True(t, HasComplexTypes(fields))
	assert.False(t, HasComplexTypes(fields[2:]))

	mods, err := fields[2].IntModifiers()
	require.NoError(t, err)
	assert.Equal(t, []int{8, 3}, mods)

	_, err = MapHiveColumns([]ExternalColumn{{Name: "id", Type: "int"}, {Name: "x", Type: "void"}})
	assert.True(t, errors.HasCode(err, TypesUnsupported))
}

func TestToCompatibleHiveType(t *testing.T) {
	tests := []struct {
		name      string
		dataType  DataType
		modifiers []int
		expected  string
	}{
		{"int2 prefers smallint", Int2, nil, "smallint"},
		{"int4", Int4, nil, "int"},
		{"int8", Int8, nil, "bigint"},
		{"bool", Bool, nil, "boolean"},
		{"float8", Float8, nil, "double"},
		{"text is string not a complex type", Text, nil, "string"},
		{"bytea", Bytea, nil, "binary"},
		{"numeric with modifiers", Numeric, []int{38, 18}, "decimal(38,18)"},
		{"numeric without modifiers", Numeric, nil, "decimal"},
		{"varchar", Varchar, []int{40}, "varchar(40)"},
		{"bpchar", Bpchar, []int{1}, "char(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := ToCompatibleHiveType(tt.dataType, tt.modifiers)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}

	_, err := ToCompatibleHiveType(Unsupported, nil)
	assert.True(t, errors.HasCode(err, TypesUnsupported))
}

func TestMappingRecoversTypeFamily(t *testing.T) {
	for _, rule := range TypeRules() {
		if rule.Complex {
			continue
		}
		t.Run(rule.Name, func(t *testing.T) {
			hiveType := rule.Name
			if n := rule.ModifierCount(); n > 0 {
				mods := make([]string, n)
				for i := range mods {
					mods[i] = "8"
				}
				hiveType = fullHiveTypeName(rule, mods)
			}

			field, err := MapHiveType(ExternalColumn{Name: "c", Type: hiveType})
			require.NoError(t, err)

			mods, err := field.IntModifiers()
			require.NoError(t, err)

			name, err := ToCompatibleHiveType(field.Type, mods)
			require.NoError(t, err)

			back, err := LookupRule(name)
			require.NoError(t, err)
			assert.Equal(t, field.Type, back.Type)
		})
	}
}

func TestExtractModifiers(t *testing.T) {
	mods, err := ExtractModifiers("decimal(10,2)")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 2}, mods)

	mods, err = ExtractModifiers("int")
	require.NoError(t, err)
	assert.Nil(t, mods)

	mods, err = ExtractModifiers("map<string,int>")
	require.NoError(t, err)
	assert.Nil(t, mods)

	_, err = ExtractModifiers("varchar(x)")
	assert.Error(t, err)
}

func TestValidateTypeCompatible(t *testing.T) {
	tests := []struct {
		name      string
		dataType  DataType
		modifiers []int
		hiveType  string
		ok        bool
	}{
		{"wider varchar", Varchar, []int{25}, "varchar(20)", true},
		{"equal varchar", Varchar, []int{20}, "varchar(20)", true},
		{"narrower varchar", Varchar, []int{15}, "varchar(20)", false},
		{"no engine modifiers", Varchar, nil, "varchar(20)", true},
		{"no hive modifiers", Varchar, []int{10}, "varchar", true},
		{"wider numeric", Numeric, []int{12, 4}, "decimal(10,2)", true},
		{"narrower scale", Numeric, []int{12, 1}, "decimal(10,2)", false},
		{"precision only", Numeric, []int{10}, "decimal(10,2)", true},
		{"matching plain type", Int8, nil, "bigint", true},
		{"type mismatch", Int4, nil, "bigint", false},
		{"complex maps to text", Text, nil, "array<int>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTypeCompatible(tt.dataType, tt.modifiers, tt.hiveType, "c1")
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, TypesIncompatible))
			assert.Contains(t, err.Error(), "c1")
		})
	}
}

func TestValidateTypeCompatibleIsOneDirectional(t *testing.T) {
	assert.NoError(t, ValidateTypeCompatible(Varchar, []int{25}, "varchar(20)", "c1"))

	err := ValidateTypeCompatible(Varchar, []int{20}, "varchar(25)", "c1")
	assert.True(t, errors.HasCode(err, TypesIncompatible))

	err = ValidateTypeCompatible(Varchar, []int{15}, "varchar(20)", "c1")
	assert.True(t, errors.HasCode(err, TypesIncompatible))
}

func TestValidateTypeCompatibleUnknownHiveType(t *testing.T) {
	err := ValidateTypeCompatible(Text, nil, "interval", "c1")
	assert.True(t, errors.HasCode(err, TypesUnsupported))
}
