package filter

import (
	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/filter/sarg"
	"github.com/gear6io/hivebridge/server/types"
)

// Predicate is a built native predicate
type Predicate interface {
	String() string
}

// Builder is the native predicate-builder protocol targeted by Translator
type Builder interface {
	StartAnd()
	StartOr()
	StartNot()
	End()
	LessThan(column string, literal any)
	LessThanEquals(column string, literal any)
	Equals(column string, literal any)
	IsNull(column string)
	In(column string, literals []any)
	Build() (Predicate, error)
}

// ColumnDescriptor is a projected column of the current query
type ColumnDescriptor struct {
	Name string
	Type types.DataType
}

// ColumnResolver maps a zero-based filter column index to its column
type ColumnResolver interface {
	Column(index int) (ColumnDescriptor, error)
}

// Columns resolves indexes against a fixed projection
type Columns []ColumnDescriptor

func (c Columns) Column(index int) (ColumnDescriptor, error) {
	if index < 0 || index >= len(c) {
		return ColumnDescriptor{}, errors.Newf(FilterInvalid, "column index %d out of range [0, %d)", index, len(c))
	}
	return c[index], nil
}

// searchArgumentBuilder builds ORC search arguments
type searchArgumentBuilder struct {
	*sarg.Builder
}

// NewSearchArgumentBuilder returns a Builder producing *sarg.SearchArgument
func NewSearchArgumentBuilder() Builder {
	return searchArgumentBuilder{Builder: sarg.NewBuilder()}
}

func (b searchArgumentBuilder) Build() (Predicate, error) {
	sa, err := b.Builder.Build()
	if err != nil {
		return nil, err
	}
	return sa, nil
}
