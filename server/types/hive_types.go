package types

import (
	"regexp"
	"strings"

	"github.com/gear6io/hivebridge/pkg/errors"
)

// Hive type names
const (
	HiveTinyint   = "tinyint"
	HiveSmallint  = "smallint"
	HiveInt       = "int"
	HiveBigint    = "bigint"
	HiveBoolean   = "boolean"
	HiveFloat     = "float"
	HiveDouble    = "double"
	HiveString    = "string"
	HiveBinary    = "binary"
	HiveTimestamp = "timestamp"
	HiveDate      = "date"
	HiveDecimal   = "decimal"
	HiveVarchar   = "varchar"
	HiveChar      = "char"
	HiveArray     = "array"
	HiveMap       = "map"
	HiveStruct    = "struct"
	HiveUnion     = "uniontype"
)

var (
	// decimal(10,2) -> [decimal 10 2]
	modifierSplit = regexp.MustCompile(`[(,)]`)
	// map<string,int> -> [map string int]
	complexSplit = regexp.MustCompile(`[<,>]`)
)

// TypeRule maps one Hive type family onto an engine type
type TypeRule struct {
	Name      string
	Type      DataType
	Complex   bool
	SplitExpr *regexp.Regexp
}

// ModifierCount is the number of modifiers the rule requires
func (r TypeRule) ModifierCount() int {
	return r.Type.ModifierCount()
}

// typeCatalog is consulted in order. smallint precedes tinyint so the reverse
// lookup of int2 yields the wider Hive type.
var typeCatalog = []TypeRule{
	{Name: HiveSmallint, Type: Int2},
	{Name: HiveTinyint, Type: Int2},
	{Name: HiveInt, Type: Int4},
	{Name: HiveBigint, Type: Int8},
	{Name: HiveBoolean, Type: Bool},
	{Name: HiveFloat, Type: Float4},
	{Name: HiveDouble, Type: Float8},
	{Name: HiveString, Type: Text},
	{Name: HiveBinary, Type: Bytea},
	{Name: HiveTimestamp, Type: Timestamp},
	{Name: HiveDate, Type: Date},
	{Name: HiveDecimal, Type: Numeric, SplitExpr: modifierSplit},
	{Name: HiveVarchar, Type: Varchar, SplitExpr: modifierSplit},
	{Name: HiveChar, Type: Bpchar, SplitExpr: modifierSplit},
	{Name: HiveArray, Type: Text, Complex: true, SplitExpr: complexSplit},
	{Name: HiveMap, Type: Text, Complex: true, SplitExpr: complexSplit},
	{Name: HiveStruct, Type: Text, Complex: true, SplitExpr: complexSplit},
	{Name: HiveUnion, Type: Text, Complex: true, SplitExpr: complexSplit},
}

// TypeRules returns a copy of the type catalog in lookup order
func TypeRules() []TypeRule {
	rules := make([]TypeRule, len(typeCatalog))
	copy(rules, typeCatalog)
	return rules
}

// LookupRule finds the rule for a full Hive type such as "varchar(20)".
// Exact names win over names recovered by splitting on a rule's expression.
func LookupRule(hiveType string) (TypeRule, error) {
	for _, rule := range typeCatalog {
		if rule.Name == hiveType {
			return rule, nil
		}
	}

	for _, rule := range typeCatalog {
		if rule.SplitExpr == nil {
			continue
		}
		if splitType(rule, hiveType)[0] == rule.Name {
			return rule, nil
		}
	}

	return TypeRule{}, errors.Newf(TypesUnsupported, "unable to map Hive's type: %s to GPDB's type", hiveType).
		AddContext("hive_type", hiveType)
}

// splitType splits a type on the rule's expression, dropping trailing empty
// tokens so "decimal(10,2)" yields exactly [decimal 10 2]
func splitType(rule TypeRule, hiveType string) []string {
	tokens := rule.SplitExpr.Split(hiveType, -1)
	for len(tokens) > 1 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// compatibleRule is the reverse lookup used when creating Hive columns
func compatibleRule(t DataType) (TypeRule, error) {
	for _, rule := range typeCatalog {
		if rule.Type == t && !rule.Complex {
			return rule, nil
		}
	}
	return TypeRule{}, errors.Newf(TypesUnsupported, "unable to find compatible Hive type for given GPDB's type: %s", t).
		AddContext("gpdb_type", t.String())
}

// fullHiveTypeName renders name or name(m1,...,mk)
func fullHiveTypeName(rule TypeRule, modifiers []string) string {
	if len(modifiers) == 0 {
		return rule.Name
	}
	return rule.Name + "(" + strings.Join(modifiers, ",") + ")"
}
