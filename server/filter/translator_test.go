package filter

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gear6io/hivebridge/pkg/errors"
	"github.com/gear6io/hivebridge/server/config"
	"github.com/gear6io/hivebridge/server/filter/sarg"
	"github.com/gear6io/hivebridge/server/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBuilder logs every builder call
type recordingBuilder struct {
	calls []string
}

type recordedPredicate string

func (p recordedPredicate) String() string { return string(p) }

func (r *recordingBuilder) StartAnd() { r.calls = append(r.calls, "startAnd") }
func (r *recordingBuilder) StartOr()  { r.calls = append(r.calls, "startOr") }
func (r *recordingBuilder) StartNot() { r.calls = append(r.calls, "startNot") }
func (r *recordingBuilder) End()      { r.calls = append(r.calls, "end") }
func (r *recordingBuilder) LessThan(c string, v any) {
	r.calls = append(r.calls, fmt.Sprintf("lessThan(%s,%v)", c, v))
}
func (r *recordingBuilder) LessThanEquals(c string, v any) {
	r.calls = append(r.calls, fmt.Sprintf("lessThanEquals(%s,%v)", c, v))
}
func (r *recordingBuilder) Equals(c string, v any) {
	r.calls = append(r.calls, fmt.Sprintf("equals(%s,%v)", c, v))
}
func (r *recordingBuilder) IsNull(c string) { r.calls = append(r.calls, "isNull("+c+")") }
func (r *recordingBuilder) In(c string, v []any) {
	r.calls = append(r.calls, fmt.Sprintf("in(%s,%v)", c, v))
}
func (r *recordingBuilder) Build() (Predicate, error) {
	return recordedPredicate(strings.Join(r.calls, " ")), nil
}

var testColumns = Columns{
	{Name: "id", Type: types.Int8},
	{Name: "name", Type: types.Text},
	{Name: "day", Type: types.Date},
}

func newRecordingTranslator() (*Translator, *recordingBuilder) {
	rec := &recordingBuilder{}
	return NewTranslator(testColumns, WithBuilder(func() Builder { return rec })), rec
}

func TestTranslateNilTree(t *testing.T) {
	tr, rec := newRecordingTranslator()
	pred, err := tr.Translate(nil)
	require.NoError(t, err)
	assert.Nil(t, pred)
	assert.Empty(t, rec.calls)
}

func TestTranslateWrapsSingleComparison(t *testing.T) {
	tr, rec := newRecordingTranslator()

	pred, err := tr.Translate(Compare(0, EQ, 5))
	require.NoError(t, err)
	require.NotNil(t, pred)
	assert.Equal(t, []string{"startAnd", "equals(id,5)", "end"}, rec.calls)
}

func TestTranslateLogicalRootIsNotWrapped(t *testing.T) {
	tr, rec := newRecordingTranslator()

	_, err := tr.Translate(NotOf(Compare(1, IsNull, nil)))
	require.NoError(t, err)
	assert.Equal(t, []string{"startNot", "isNull(name)", "end"}, rec.calls)
}

func TestTranslateOperatorRewrites(t *testing.T) {
	tests := []struct {
		op       Operator
		constant any
		calls    []string
	}{
		{LT, 5, []string{"lessThan(id,5)"}},
		{LE, 5, []string{"lessThanEquals(id,5)"}},
		{GT, 5, []string{"startNot", "lessThanEquals(id,5)", "end"}},
		{GE, 5, []string{"startNot", "lessThan(id,5)", "end"}},
		{EQ, 5, []string{"equals(id,5)"}},
		{NE, 5, []string{"startNot", "equals(id,5)", "end"}},
		{IsNull, nil, []string{"isNull(id)"}},
		{IsNotNull, nil, []string{"startNot", "isNull(id)", "end"}},
		{IN, []int{1, 2}, []string{"in(id,[1 2])"}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			tr, rec := newRecordingTranslator()
			_, err := tr.Translate(AndOf(Compare(0, tt.op, tt.constant)))
			require.NoError(t, err)

			expected := append([]string{"startAnd"}, tt.calls...)
			expected = append(expected, "end")
			assert.Equal(t, expected, rec.calls)
		})
	}
}

// GT and GE must not share a rewrite: x > 5 is NOT(x <= 5), x >= 5 is NOT(x < 5)
func TestTranslateGreaterThanDiffersFromGreaterOrEqual(t *testing.T) {
	gt, err := NewTranslator(testColumns).Translate(Compare(0, GT, 5))
	require.NoError(t, err)
	ge, err := NewTranslator(testColumns).Translate(Compare(0, GE, 5))
	require.NoError(t, err)

	assert.NotEqual(t, gt.String(), ge.String())
	assert.Contains(t, gt.String(), "LESS_THAN_EQUALS id 5")
	assert.Contains(t, ge.String(), "(LESS_THAN id 5)")
}

func TestTranslateNestedTree(t *testing.T) {
	tr, rec := newRecordingTranslator()

	tree := OrOf(
		AndOf(Compare(0, GT, 10), Compare(1, EQ, "bob")),
		NotOf(Compare(1, IsNotNull, nil)),
	)
	_, err := tr.Translate(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"startOr",
		"startAnd", "startNot", "lessThanEquals(id,10)", "end", "equals(name,bob)", "end",
		"startNot", "startNot", "isNull(name)", "end", "end",
		"end",
	}, rec.calls)
}

func TestTranslateUnsupportedOperatorLeavesBuilderUntouched(t *testing.T) {
	tests := []struct {
		name string
		tree Node
	}{
		{"root comparison", Compare(1, Like, "b%")},
		{"nested", AndOf(Compare(0, EQ, 1), OrOf(Compare(0, LT, 3), Compare(1, Like, "b%")))},
		{"unknown operator", Compare(0, Operator(99), 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, rec := newRecordingTranslator()
			pred, err := tr.Translate(tt.tree)
			assert.NoError(t, err)
			assert.Nil(t, pred)
			assert.Empty(t, rec.calls)
		})
	}
}

func TestTranslateInvalidFilters(t *testing.T) {
	tests := []struct {
		name string
		tree Node
	}{
		{"in without list", Compare(0, IN, 5)},
		{"unknown column", Compare(7, EQ, 5)},
		{"negative column", Compare(-1, EQ, 5)},
		{"missing constant", Compare(0, LT, nil)},
		{"empty and", AndOf()},
		{"not with two operands", &Logical{Op: Not, Children: []Node{Compare(0, EQ, 1), Compare(0, EQ, 2)}}},
		{"nil child", AndOf(Compare(0, EQ, 1), nil)},
		{"in with bytes", Compare(1, IN, []byte("ab"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, rec := newRecordingTranslator()
			pred, err := tr.Translate(tt.tree)
			require.Error(t, err)
			assert.Nil(t, pred)
			assert.True(t, errors.HasCode(err, FilterInvalid))
			assert.Empty(t, rec.calls)
		})
	}
}

func TestTranslateCoercesDates(t *testing.T) {
	day := time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)
	expected := sarg.NewDate(day)

	tr, rec := newRecordingTranslator()
	_, err := tr.Translate(Compare(2, EQ, Date{Year: 2021, Month: time.June, Day: 1}))
	require.NoError(t, err)
	assert.Equal(t, []string{"startAnd", "equals(day," + fmt.Sprint(expected) + ")", "end"}, rec.calls)

	pred, err := NewTranslator(testColumns).Translate(Compare(2, IN, []any{day, day.AddDate(0, 0, 1)}))
	require.NoError(t, err)
	sa := pred.(*sarg.SearchArgument)
	require.Len(t, sa.Leaves, 1)
	assert.Equal(t, sarg.TypeDate, sa.Leaves[0].Type)
	assert.Equal(t, []any{expected, sarg.NewDate(day.AddDate(0, 0, 1))}, sa.Leaves[0].Literals)

	// timestamps on non-date columns are passed through
	ts := time.Date(2021, time.June, 1, 12, 30, 0, 0, time.UTC)
	pred, err = NewTranslator(testColumns).Translate(Compare(0, LT, ts))
	require.NoError(t, err)
	assert.Equal(t, ts, pred.(*sarg.SearchArgument).Leaves[0].Literal)
}

func TestTranslateSearchArgument(t *testing.T) {
	pred, err := NewTranslator(testColumns).Translate(Compare(0, EQ, 5))
	require.NoError(t, err)
	assert.Equal(t, "leaf-0 = (EQUALS id 5), expr = (and leaf-0)", pred.String())
}

func TestPushdownDegradesToNil(t *testing.T) {
	tr := NewTranslator(testColumns)

	invalid := testutil.ToFloat64(pushdownTotal.WithLabelValues(OutcomeInvalid))
	skipped := testutil.ToFloat64(pushdownTotal.WithLabelValues(OutcomeSkipped))
	pushed := testutil.ToFloat64(pushdownTotal.WithLabelValues(OutcomePushed))

	assert.Nil(t, tr.Pushdown(nil))
	assert.Nil(t, tr.Pushdown(Compare(0, IN, 5)))
	assert.Nil(t, tr.Pushdown(Compare(1, Like, "x%")))
	assert.NotNil(t, tr.Pushdown(Compare(0, EQ, 5)))

	assert.Equal(t, invalid+1, testutil.ToFloat64(pushdownTotal.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, skipped+1, testutil.ToFloat64(pushdownTotal.WithLabelValues(OutcomeSkipped)))
	assert.Equal(t, pushed+1, testutil.ToFloat64(pushdownTotal.WithLabelValues(OutcomePushed)))
}

func TestPushdownBuilderFailureIsInvalid(t *testing.T) {
	tr := NewTranslator(testColumns)
	// IN with mixed literal types is rejected by the search argument builder
	pred, err := tr.Translate(Compare(0, IN, []any{1, "x"}))
	assert.Nil(t, pred)
	assert.True(t, errors.HasCode(err, FilterInvalid))
	assert.True(t, errors.HasCode(err, sarg.SargInvalidLeaf))
}

func TestPushdownDisabled(t *testing.T) {
	rec := &recordingBuilder{}
	disabled := NewTranslator(testColumns, WithPushdown(false), WithBuilder(func() Builder { return rec }))

	skipped := testutil.ToFloat64(pushdownTotal.WithLabelValues(OutcomeSkipped))
	assert.Nil(t, disabled.Pushdown(Compare(0, EQ, 5)))
	assert.Equal(t, skipped+1, testutil.ToFloat64(pushdownTotal.WithLabelValues(OutcomeSkipped)))
	assert.Empty(t, rec.calls)

	// explicit translation is unaffected
	pred, err := disabled.Translate(Compare(0, EQ, 5))
	require.NoError(t, err)
	assert.Equal(t, "startAnd equals(id,5) end", pred.String())
}

func TestConfigOptions(t *testing.T) {
	cfg := config.LoadDefaultConfig()

	enabled := NewTranslator(testColumns, ConfigOptions(cfg.Pushdown, zerolog.Nop())...)
	assert.NotNil(t, enabled.Pushdown(Compare(0, EQ, 5)))

	cfg.Pushdown.Enabled = false
	disabled := NewTranslator(testColumns, ConfigOptions(cfg.Pushdown, zerolog.Nop())...)
	assert.Nil(t, disabled.Pushdown(Compare(0, EQ, 5)))
}

func TestTranslateInListsWithSameRendering(t *testing.T) {
	tr := NewTranslator(Columns{{Name: "c", Type: types.Text}})

	pred, err := tr.Translate(OrOf(Compare(0, IN, []any{"a b"}), Compare(0, IN, []any{"a", "b"})))
	require.NoError(t, err)
	sa := pred.(*sarg.SearchArgument)
	require.Len(t, sa.Leaves, 2)
	assert.Equal(t, "(or leaf-0 leaf-1)", sa.Expression.String())
}
