package sarg

import (
	"strconv"
	"strings"
)

// ExpressionOp is the kind of an expression tree node
type ExpressionOp int

const (
	OpLeaf ExpressionOp = iota
	OpAnd
	OpOr
	OpNot
)

// Expression is a boolean tree over leaf indexes
type Expression struct {
	Op       ExpressionOp
	Leaf     int
	Children []*Expression
}

func (e *Expression) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expression) write(b *strings.Builder) {
	switch e.Op {
	case OpLeaf:
		b.WriteString("leaf-")
		b.WriteString(strconv.Itoa(e.Leaf))
		return
	case OpAnd:
		b.WriteString("(and")
	case OpOr:
		b.WriteString("(or")
	case OpNot:
		b.WriteString("(not")
	}
	for _, child := range e.Children {
		b.WriteString(" ")
		child.write(b)
	}
	b.WriteString(")")
}

// SearchArgument is a built predicate: deduplicated leaves plus the
// expression referencing them
type SearchArgument struct {
	Leaves     []Leaf
	Expression *Expression
}

func (s *SearchArgument) String() string {
	var b strings.Builder
	for i, leaf := range s.Leaves {
		b.WriteString("leaf-")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" = ")
		b.WriteString(leaf.String())
		b.WriteString(", ")
	}
	b.WriteString("expr = ")
	s.Expression.write(&b)
	return b.String()
}

// Columns returns the distinct columns referenced by the leaves
func (s *SearchArgument) Columns() []string {
	seen := make(map[string]bool, len(s.Leaves))
	var cols []string
	for _, leaf := range s.Leaves {
		if !seen[leaf.Column] {
			seen[leaf.Column] = true
			cols = append(cols, leaf.Column)
		}
	}
	return cols
}
