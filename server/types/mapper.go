package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gear6io/hivebridge/pkg/errors"
)

// ExternalColumn is a column as described by the Hive metastore
type ExternalColumn struct {
	Name string
	Type string // type name with modifiers, e.g. "decimal(10,2)"
}

// Field is an engine-side column produced from an ExternalColumn
type Field struct {
	Name           string
	Type           DataType
	Complex        bool
	SourceTypeName string
	Modifiers      []string
}

// IntModifiers parses the field's modifiers. They were validated when the
// field was mapped, so only hand-built fields can fail here.
func (f Field) IntModifiers() ([]int, error) {
	return parseModifiers(f.Modifiers)
}

// MapHiveType maps a Hive column onto an engine field. Supported mappings:
//
//	tinyint, smallint -> int2     int -> int4        bigint -> int8
//	boolean -> bool               float -> float4    double -> float8
//	string -> text                binary -> bytea    timestamp -> timestamp
//	date -> date                  decimal(p,s) -> numeric(p,s)
//	varchar(n) -> varchar(n)      char(n) -> bpchar(n)
//	array<..>, map<..>, struct<..>, uniontype<..> -> text
func MapHiveType(col ExternalColumn) (Field, error) {
	rule, err := LookupRule(col.Type)
	if err != nil {
		return Field{}, errors.New(TypesUnsupported,
			fmt.Sprintf("GPDB does not support type %s (Field %s)", col.Type, col.Name), err).
			AddContext("column", col.Name)
	}

	field := Field{
		Name:           col.Name,
		Type:           rule.Type,
		Complex:        rule.Complex,
		SourceTypeName: col.Type,
	}

	if rule.SplitExpr == nil {
		return field, nil
	}

	tokens := splitType(rule, col.Type)
	field.SourceTypeName = tokens[0]

	expected := rule.ModifierCount()
	if expected == 0 {
		return field, nil
	}

	modifiers := tokens[1:]
	if len(modifiers) != expected {
		return Field{}, errors.Newf(TypesUnsupported,
			"GPDB does not support type %s (Field %s), expected number of modifiers: %d, actual number of modifiers: %d",
			col.Type, col.Name, expected, len(modifiers)).
			AddContext("column", col.Name)
	}
	if !verifyIntegerModifiers(modifiers) {
		return Field{}, errors.Newf(TypesUnsupported,
			"GPDB does not support type %s (Field %s), modifiers should be integers", col.Type, col.Name).
			AddContext("column", col.Name)
	}

	field.Modifiers = modifiers
	return field, nil
}

// MapHiveColumns maps columns in order, failing on the first unsupported one
func MapHiveColumns(cols []ExternalColumn) ([]Field, error) {
	fields := make([]Field, 0, len(cols))
	for _, col := range cols {
		field, err := MapHiveType(col)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// HasComplexTypes reports whether any field came from a complex Hive type
func HasComplexTypes(fields []Field) bool {
	for _, f := range fields {
		if f.Complex {
			return true
		}
	}
	return false
}

// ToCompatibleHiveType renders the Hive type to create for an engine type
func ToCompatibleHiveType(t DataType, modifiers []int) (string, error) {
	rule, err := compatibleRule(t)
	if err != nil {
		return "", err
	}

	mods := make([]string, len(modifiers))
	for i, m := range modifiers {
		mods[i] = strconv.Itoa(m)
	}
	return fullHiveTypeName(rule, mods), nil
}

// ExtractModifiers returns the integer modifiers of a full Hive type,
// e.g. [10 2] for "decimal(10,2)" and nil for "int"
func ExtractModifiers(hiveType string) ([]int, error) {
	rule, err := LookupRule(hiveType)
	if err != nil {
		return nil, err
	}
	if rule.SplitExpr == nil || rule.ModifierCount() == 0 {
		return nil, nil
	}
	return parseModifiers(splitType(rule, hiveType)[1:])
}

// ValidateTypeCompatible checks that an engine column can hold a Hive column.
// Modifier-bearing types are compatible when the engine declares no modifiers
// or each engine modifier is at least the Hive one:
//
//	varchar(20) vs varchar      ok
//	varchar(20) vs varchar(25)  ok
//	varchar(20) vs varchar(15)  incompatible
func ValidateTypeCompatible(t DataType, modifiers []int, hiveType string, column string) error {
	rule, err := LookupRule(hiveType)
	if err != nil {
		return err
	}

	if rule.Type != t {
		return errors.Newf(TypesIncompatible,
			"invalid definition for column %s: expected GPDB type %s, actual GPDB type %s", column, rule.Type, t).
			AddContext("column", column)
	}

	if t.ModifierCount() == 0 || len(modifiers) == 0 {
		return nil
	}

	hiveModifiers, err := ExtractModifiers(hiveType)
	if err != nil {
		return err
	}

	for i := 0; i < len(hiveModifiers) && i < len(modifiers); i++ {
		if modifiers[i] < hiveModifiers[i] {
			return errors.Newf(TypesIncompatible,
				"invalid definition for column %s: modifiers are not compatible, %v, %v", column, hiveModifiers, modifiers).
				AddContext("column", column)
		}
	}
	return nil
}

// verifyIntegerModifiers accepts only non-empty runs of ASCII digits
func verifyIntegerModifiers(modifiers []string) bool {
	for _, m := range modifiers {
		if strings.TrimSpace(m) == "" {
			return false
		}
		for _, r := range m {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func parseModifiers(modifiers []string) ([]int, error) {
	if len(modifiers) == 0 {
		return nil, nil
	}
	out := make([]int, len(modifiers))
	for i, m := range modifiers {
		v, err := strconv.Atoi(m)
		if err != nil || v < 0 {
			return nil, errors.Newf(TypesUnsupported, "modifier %q is not a non-negative integer", m)
		}
		out[i] = v
	}
	return out, nil
}
