package types

import "strings"

// DataType is a column type of the query engine
type DataType int

const (
	Unsupported DataType = iota
	Int2
	Int4
	Int8
	Bool
	Float4
	Float8
	Text
	Bytea
	Timestamp
	Date
	Numeric
	Varchar
	Bpchar
)

var dataTypeNames = map[DataType]string{
	Int2:      "int2",
	Int4:      "int4",
	Int8:      "int8",
	Bool:      "bool",
	Float4:    "float4",
	Float8:    "float8",
	Text:      "text",
	Bytea:     "bytea",
	Timestamp: "timestamp",
	Date:      "date",
	Numeric:   "numeric",
	Varchar:   "varchar",
	Bpchar:    "bpchar",
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return "unsupported"
}

// ModifierCount is the number of type modifiers the engine type accepts,
// e.g. 2 for numeric(precision, scale)
func (t DataType) ModifierCount() int {
	switch t {
	case Numeric:
		return 2
	case Varchar, Bpchar:
		return 1
	default:
		return 0
	}
}

// ParseDataType resolves an engine type name; unknown names yield Unsupported
func ParseDataType(name string) DataType {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range dataTypeNames {
		if n == name {
			return t
		}
	}
	return Unsupported
}
