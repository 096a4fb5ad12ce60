package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/filter"
	"github.com/gear6io/hivebridge/server/types"
	"github.com/spf13/cobra"
)

var ErrInvalidFilter = errors.MustNewCode("cli.invalid_filter")

// filterFlags collects per-operator column comparisons. All comparisons are
// combined with AND.
type filterFlags struct {
	comparisons map[filter.Operator]*[]string
	isNull      []string
	notNull     []string
}

var comparisonFlags = []struct {
	name  string
	op    filter.Operator
	usage string
}{
	{"eq", filter.EQ, "column=value equality, repeatable"},
	{"ne", filter.NE, "column=value inequality, repeatable"},
	{"lt", filter.LT, "column=value less than, repeatable"},
	{"le", filter.LE, "column=value less than or equal, repeatable"},
	{"gt", filter.GT, "column=value greater than, repeatable"},
	{"ge", filter.GE, "column=value greater than or equal, repeatable"},
	{"in", filter.IN, "column=v1,v2,... membership, repeatable"},
}

func newFilterFlags(cmd *cobra.Command) *filterFlags {
	f := &filterFlags{comparisons: make(map[filter.Operator]*[]string)}
	for _, cf := range comparisonFlags {
		values := new([]string)
		f.comparisons[cf.op] = values
		cmd.Flags().StringArrayVar(values, cf.name, nil, cf.usage)
	}
	cmd.Flags().StringArrayVar(&f.isNull, "null", nil, "column is null, repeatable")
	cmd.Flags().StringArrayVar(&f.notNull, "not-null", nil, "column is not null, repeatable")
	return f
}

func (f *filterFlags) empty() bool {
	for _, values := range f.comparisons {
		if len(*values) > 0 {
			return false
		}
	}
	return len(f.isNull) == 0 && len(f.notNull) == 0
}

// build returns the filter tree over fields and the projection it indexes
func (f *filterFlags) build(fields []types.Field) (filter.Node, filter.Columns, error) {
	columns := make(filter.Columns, len(fields))
	for i, field := range fields {
		columns[i] = filter.ColumnDescriptor{Name: field.Name, Type: field.Type}
	}

	var nodes []filter.Node
	for _, cf := range comparisonFlags {
		for _, arg := range *f.comparisons[cf.op] {
			name, raw, ok := strings.Cut(arg, "=")
			if !ok {
				return nil, nil, errors.Newf(ErrInvalidFilter, "--%s expects column=value, got %q", cf.name, arg)
			}
			idx, err := columnIndex(columns, name)
			if err != nil {
				return nil, nil, err
			}

			var constant any
			if cf.op == filter.IN {
				constant, err = parseConstants(columns[idx], raw)
			} else {
				constant, err = parseConstant(columns[idx], raw)
			}
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, filter.Compare(idx, cf.op, constant))
		}
	}
	for _, unary := range []struct {
		op    filter.Operator
		names []string
	}{{filter.IsNull, f.isNull}, {filter.IsNotNull, f.notNull}} {
		for _, name := range unary.names {
			idx, err := columnIndex(columns, name)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, filter.Compare(idx, unary.op, nil))
		}
	}

	if len(nodes) == 1 {
		return nodes[0], columns, nil
	}
	return filter.AndOf(nodes...), columns, nil
}

func columnIndex(columns filter.Columns, name string) (int, error) {
	for i, c := range columns {
		if strings.EqualFold(c.Name, name) {
			return i, nil
		}
	}
	return 0, errors.Newf(ErrInvalidFilter, "unknown filter column %q", name).AddContext("column", name)
}

func parseConstants(col filter.ColumnDescriptor, raw string) ([]any, error) {
	parts := strings.Split(raw, ",")
	values := make([]any, len(parts))
	for i, p := range parts {
		v, err := parseConstant(col, p)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// parseConstant converts a flag value to the constant type of the column
func parseConstant(col filter.ColumnDescriptor, raw string) (any, error) {
	var (
		v   any
		err error
	)
	switch col.Type {
	case types.Int2, types.Int4, types.Int8:
		v, err = strconv.ParseInt(raw, 10, 64)
	case types.Float4, types.Float8, types.Numeric:
		v, err = strconv.ParseFloat(raw, 64)
	case types.Bool:
		v, err = strconv.ParseBool(raw)
	case types.Date:
		var d time.Time
		d, err = time.Parse(time.DateOnly, raw)
		v = filter.NewDate(d)
	case types.Timestamp:
		v, err = time.Parse(time.RFC3339, raw)
	default:
		v = raw
	}
	if err != nil {
		return nil, errors.Newf(ErrInvalidFilter, "invalid %s value %q for column %s", col.Type, raw, col.Name).
			AddContext("column", col.Name).
			WithCause(err)
	}
	return v, nil
}
