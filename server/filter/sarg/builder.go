package sarg

import (
	"github.com/gear6io/hivebridge/pkg/errors"
)

// Builder assembles a SearchArgument through start/end grouping calls.
// Every leaf must sit inside a group. Misuse is recorded and reported by
// Build. A Builder is not safe for concurrent use.
type Builder struct {
	stack  []*Expression
	root   *Expression
	leaves []Leaf
	index  map[string]int
	err    error
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

func (b *Builder) StartAnd() { b.start(OpAnd) }
func (b *Builder) StartOr()  { b.start(OpOr) }
func (b *Builder) StartNot() { b.start(OpNot) }

// End closes the innermost group
func (b *Builder) End() {
	if b.err != nil {
		return
	}
	if len(b.stack) == 0 {
		b.fail(errors.New(SargUnbalanced, "end without a matching start", nil))
		return
	}

	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	switch {
	case len(top.Children) == 0:
		b.fail(errors.New(SargEmptyGroup, "cannot close an empty group", nil))
		return
	case top.Op == OpNot && len(top.Children) != 1:
		b.fail(errors.New(SargEmptyGroup, "not takes exactly one child", nil))
		return
	}

	if len(b.stack) == 0 {
		b.root = top
	}
}

func (b *Builder) LessThan(column string, literal any) {
	b.leaf(Leaf{Operator: LessThan, Column: column, Type: literalType(literal), Literal: literal})
}

func (b *Builder) LessThanEquals(column string, literal any) {
	b.leaf(Leaf{Operator: LessThanEquals, Column: column, Type: literalType(literal), Literal: literal})
}

func (b *Builder) Equals(column string, literal any) {
	b.leaf(Leaf{Operator: Equals, Column: column, Type: literalType(literal), Literal: literal})
}

func (b *Builder) IsNull(column string) {
	b.leaf(Leaf{Operator: IsNull, Column: column})
}

// In adds a membership leaf; literals must share one type
func (b *Builder) In(column string, literals []any) {
	if len(literals) == 0 {
		b.fail(errors.New(SargInvalidLeaf, "in requires at least one literal", nil).AddContext("column", column))
		return
	}
	t := literalType(literals[0])
	for _, v := range literals[1:] {
		if literalType(v) != t {
			b.fail(errors.New(SargInvalidLeaf, "in literals must share a type", nil).AddContext("column", column))
			return
		}
	}
	values := make([]any, len(literals))
	copy(values, literals)
	b.leaf(Leaf{Operator: In, Column: column, Type: t, Literals: values})
}

// Build returns the search argument. The builder must be balanced with
// exactly one top-level group.
func (b *Builder) Build() (*SearchArgument, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 {
		return nil, errors.New(SargUnbalanced, "unclosed group", nil)
	}
	if b.root == nil {
		return nil, errors.New(SargEmptyGroup, "empty search argument", nil)
	}
	return &SearchArgument{Leaves: b.leaves, Expression: b.root}, nil
}

func (b *Builder) start(op ExpressionOp) {
	if b.err != nil {
		return
	}
	if len(b.stack) == 0 && b.root != nil {
		b.fail(errors.New(SargUnbalanced, "only one top-level group is allowed", nil))
		return
	}
	node := &Expression{Op: op}
	b.push(node)
	b.stack = append(b.stack, node)
}

func (b *Builder) leaf(l Leaf) {
	if b.err != nil {
		return
	}
	if len(b.stack) == 0 {
		b.fail(errors.New(SargUnbalanced, "leaf outside of a group", nil).AddContext("column", l.Column))
		return
	}

	key := l.key()
	idx, ok := b.index[key]
	if !ok {
		idx = len(b.leaves)
		b.leaves = append(b.leaves, l)
		b.index[key] = idx
	}
	b.push(&Expression{Op: OpLeaf, Leaf: idx})
}

func (b *Builder) push(e *Expression) {
	if len(b.stack) == 0 {
		return
	}
	parent := b.stack[len(b.stack)-1]
	parent.Children = append(parent.Children, e)
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
