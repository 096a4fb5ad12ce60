package filter

import (
	"reflect"
	"strconv"
	"time"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/config"
	"github.com/gear6io/hivebridge/server/filter/sarg"
	"github.com/gear6io/hivebridge/server/types"
	"github.com/rs/zerolog"
)

// Translator converts filter trees into native predicates. It holds no
// per-query state and is safe for concurrent use.
type Translator struct {
	columns    ColumnResolver
	newBuilder func() Builder
	logger     zerolog.Logger
	disabled   bool
}

// Option configures a Translator
type Option func(*Translator)

// WithBuilder sets the factory of the predicate builder used per translation
func WithBuilder(factory func() Builder) Option {
	return func(t *Translator) {
		t.newBuilder = factory
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithPushdown turns Pushdown on or off. A disabled translator still
// translates on request.
func WithPushdown(enabled bool) Option {
	return func(t *Translator) {
		t.disabled = !enabled
	}
}

// ConfigOptions returns the options selected by the pushdown configuration
func ConfigOptions(cfg config.PushdownConfig, logger zerolog.Logger) []Option {
	return []Option{WithPushdown(cfg.Enabled), WithLogger(logger)}
}

// NewTranslator creates a translator resolving columns with columns. By
// default it builds ORC search arguments.
func NewTranslator(columns ColumnResolver, opts ...Option) *Translator {
	t := &Translator{
		columns:    columns,
		newBuilder: NewSearchArgumentBuilder,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With().Str("component", "filter").Logger()
	return t
}

// Translate builds the native predicate for tree.
//
// A nil tree and a tree containing an operator the native builder cannot
// express both yield (nil, nil). Malformed trees fail with FilterInvalid.
// The tree is checked completely before the builder is touched, so the
// builder never sees a partial expression. A bare comparison at the root is
// wrapped in an AND group.
func (t *Translator) Translate(tree Node) (Predicate, error) {
	if tree == nil {
		return nil, nil
	}

	pushable, err := t.check(tree)
	if err != nil || !pushable {
		return nil, err
	}

	b := t.newBuilder()
	if cmp, ok := tree.(*Comparison); ok {
		b.StartAnd()
		t.emitComparison(b, cmp)
		b.End()
	} else {
		t.emit(b, tree)
	}

	pred, err := b.Build()
	if err != nil {
		return nil, errors.New(FilterInvalid, "failed to build predicate", err)
	}
	return pred, nil
}

// Pushdown is Translate for the read path: any failure forfeits pushdown
// and yields nil, so the engine evaluates the filter itself
func (t *Translator) Pushdown(tree Node) Predicate {
	if tree == nil {
		return nil
	}
	if t.disabled {
		pushdownTotal.WithLabelValues(OutcomeSkipped).Inc()
		return nil
	}

	pred, err := t.Translate(tree)
	switch {
	case err != nil:
		pushdownTotal.WithLabelValues(OutcomeInvalid).Inc()
		t.logger.Warn().Err(err).Msg("Filter pushdown disabled for invalid filter")
		return nil
	case pred == nil:
		pushdownTotal.WithLabelValues(OutcomeSkipped).Inc()
		return nil
	default:
		pushdownTotal.WithLabelValues(OutcomePushed).Inc()
		t.logger.Debug().Str("predicate", pred.String()).Msg("Filter pushed down")
		return pred
	}
}

// check validates the tree. It returns false without an error when some
// comparison cannot be pushed.
func (t *Translator) check(n Node) (bool, error) {
	switch node := n.(type) {
	case *Comparison:
		return t.checkComparison(node)

	case *Logical:
		switch {
		case node.Op == Not && len(node.Children) != 1:
			return false, errors.Newf(FilterInvalid, "NOT takes exactly one operand, got %d", len(node.Children))
		case node.Op != And && node.Op != Or && node.Op != Not:
			return false, errors.Newf(FilterInvalid, "unknown logical operator %s", node.Op)
		case len(node.Children) == 0:
			return false, errors.Newf(FilterInvalid, "%s without operands", node.Op)
		}
		for _, child := range node.Children {
			pushable, err := t.check(child)
			if err != nil || !pushable {
				return false, err
			}
		}
		return true, nil

	default:
		return false, errors.Newf(FilterInvalid, "unexpected filter node %T", n)
	}
}

func (t *Translator) checkComparison(c *Comparison) (bool, error) {
	switch c.Op {
	case LT, LE, GT, GE, EQ, NE, IN, IsNull, IsNotNull:
	default:
		t.logger.Debug().Str("operator", c.Op.String()).Msg("Filter push-down is not supported for operator")
		return false, nil
	}

	if _, err := t.columns.Column(c.Column); err != nil {
		return false, errors.New(FilterInvalid, "cannot resolve filter column", err).
			AddContext("column_index", strconv.Itoa(c.Column))
	}

	switch {
	case c.Op == IN:
		if _, ok := listOf(c.Constant); !ok {
			return false, errors.Newf(FilterInvalid, "constant of IN must be a list, got %T", c.Constant)
		}
	case !c.Op.Unary() && c.Constant == nil:
		return false, errors.Newf(FilterInvalid, "operator %s requires a constant", c.Op)
	}
	return true, nil
}

func (t *Translator) emit(b Builder, n Node) {
	switch node := n.(type) {
	case *Comparison:
		t.emitComparison(b, node)
	case *Logical:
		switch node.Op {
		case And:
			b.StartAnd()
		case Or:
			b.StartOr()
		case Not:
			b.StartNot()
		}
		for _, child := range node.Children {
			t.emit(b, child)
		}
		b.End()
	}
}

// emitComparison writes one comparison. GT, GE, NE and IS_NOT_NULL have no
// native form and are negations of LE, LT, EQ and IS_NULL.
func (t *Translator) emitComparison(b Builder, c *Comparison) {
	col, _ := t.columns.Column(c.Column)
	value := coerce(c.Constant, col.Type)

	switch c.Op {
	case LT:
		b.LessThan(col.Name, value)
	case LE:
		b.LessThanEquals(col.Name, value)
	case GT:
		b.StartNot()
		b.LessThanEquals(col.Name, value)
		b.End()
	case GE:
		b.StartNot()
		b.LessThan(col.Name, value)
		b.End()
	case EQ:
		b.Equals(col.Name, value)
	case NE:
		b.StartNot()
		b.Equals(col.Name, value)
		b.End()
	case IsNull:
		b.IsNull(col.Name)
	case IsNotNull:
		b.StartNot()
		b.IsNull(col.Name)
		b.End()
	case IN:
		list, _ := listOf(c.Constant)
		values := make([]any, len(list))
		for i, v := range list {
			values[i] = coerce(v, col.Type)
		}
		b.In(col.Name, values)
	}
}

// coerce converts date constants to the native date literal
func coerce(v any, columnType types.DataType) any {
	switch x := v.(type) {
	case Date:
		return sarg.NewDate(x.Time())
	case time.Time:
		if columnType == types.Date {
			return sarg.NewDate(NewDate(x).Time())
		}
	}
	return v
}

// listOf accepts any slice or array constant
func listOf(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is a scalar
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
