package sarg

import (
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
)

// Operator is a leaf comparison
type Operator int

const (
	Equals Operator = iota
	LessThan
	LessThanEquals
	IsNull
	In
)

func (o Operator) String() string {
	switch o {
	case Equals:
		return "EQUALS"
	case LessThan:
		return "LESS_THAN"
	case LessThanEquals:
		return "LESS_THAN_EQUALS"
	case IsNull:
		return "IS_NULL"
	case In:
		return "IN"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Type is the literal type of a leaf, derived from its values
type Type int

const (
	TypeUnknown Type = iota
	TypeLong
	TypeFloat
	TypeString
	TypeBoolean
	TypeDate
	TypeTimestamp
)

func (t Type) String() string {
	return [...]string{"UNKNOWN", "LONG", "FLOAT", "STRING", "BOOLEAN", "DATE", "TIMESTAMP"}[t]
}

// Date is a calendar date stored as days since the epoch
type Date struct {
	Days arrow.Date32
}

// NewDate truncates t to its UTC calendar day
func NewDate(t time.Time) Date {
	return Date{Days: arrow.Date32FromTime(t)}
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return d.Days.ToTime()
}

func (d Date) String() string {
	return d.Time().Format(time.DateOnly)
}

// Leaf is a single column predicate
type Leaf struct {
	Operator Operator
	Column   string
	Type     Type
	Literal  any   // unset for IsNull and In
	Literals []any // In only
}

func (l Leaf) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(l.Operator.String())
	b.WriteString(" ")
	b.WriteString(l.Column)
	switch l.Operator {
	case IsNull:
	case In:
		for _, v := range l.Literals {
			b.WriteString(" ")
			b.WriteString(formatLiteral(v))
		}
	default:
		b.WriteString(" ")
		b.WriteString(formatLiteral(l.Literal))
	}
	b.WriteString(")")
	return b.String()
}

// key identifies equal leaves so they are stored once. It is built from the
// typed values, since distinct IN lists can render the same text.
func (l Leaf) key() string {
	return fmt.Sprintf("%d|%q|%d|%#v|%#v", l.Operator, l.Column, l.Type, l.Literal, l.Literals)
}

func formatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

func literalType(v any) Type {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeLong
	case float32, float64:
		return TypeFloat
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case Date:
		return TypeDate
	case time.Time:
		return TypeTimestamp
	default:
		return TypeUnknown
	}
}
