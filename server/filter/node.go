package filter

import (
	"fmt"
	"time"
)

// Operator is a comparison operator of the query engine
type Operator int

const (
	LT Operator = iota
	LE
	GT
	GE
	EQ
	NE
	IN
	IsNull
	IsNotNull
	Like
)

var operatorNames = [...]string{"LT", "LE", "GT", "GE", "EQ", "NE", "IN", "IS_NULL", "IS_NOT_NULL", "LIKE"}

func (o Operator) String() string {
	if int(o) >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Unary reports whether the operator takes no constant
func (o Operator) Unary() bool {
	return o == IsNull || o == IsNotNull
}

// LogicalOperator combines child filters
type LogicalOperator int

const (
	And LogicalOperator = iota
	Or
	Not
)

func (o LogicalOperator) String() string {
	switch o {
	case And:
		return "AND"
	case Or:
		return "OR"
	case Not:
		return "NOT"
	default:
		return fmt.Sprintf("LogicalOperator(%d)", int(o))
	}
}

// Node is a filter tree node, either *Comparison or *Logical
type Node interface {
	node()
}

// Comparison compares a projected column against a constant. Constant is
// nil for unary operators and a slice for IN.
type Comparison struct {
	Column   int
	Op       Operator
	Constant any
}

// Logical applies a boolean operator to ordered children
type Logical struct {
	Op       LogicalOperator
	Children []Node
}

func (*Comparison) node() {}
func (*Logical) node()    {}

// Date is a calendar date constant
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the calendar date of t in its own location
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Convenience constructors

func Compare(column int, op Operator, constant any) *Comparison {
	return &Comparison{Column: column, Op: op, Constant: constant}
}

func AndOf(children ...Node) *Logical { return &Logical{Op: And, Children: children} }
func OrOf(children ...Node) *Logical  { return &Logical{Op: Or, Children: children} }
func NotOf(child Node) *Logical       { return &Logical{Op: Not, Children: []Node{child}} }
