package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fallbackTree mirrors the shape the compiler emits for point fields.
func fallbackTree() Predicate {
	return AnyOf(
		AllOf(IsNotNull{Column: "result_time"}, Greater("result_time", "end1")),
		AllOf(IsNull{Column: "result_time"}, Greater("phenomenon_time_end", "end1")),
	)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "<", OpLess.String())
	assert.Equal(t, ">", OpGreater.String())
	assert.Equal(t, "=", OpEqual.String())
	assert.Equal(t, "Op(0)", Op(0).String())
	assert.False(t, Op(0).Valid())
	assert.False(t, Op(9).Valid())
	assert.True(t, OpEqual.Valid())
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		want string
	}{
		{"comparison", Less("phenomenon_time_end", "start1"), "phenomenon_time_end < :start1"},
		{"is null", IsNull{Column: "result_time"}, "result_time IS NULL"},
		{"is not null", IsNotNull{Column: "result_time"}, "result_time IS NOT NULL"},
		{"empty and", And{}, "TRUE"},
		{"empty or", Or{}, "FALSE"},
		{
			"conjunction",
			AllOf(Equal("a", "start1"), Equal("b", "end1")),
			"(a = :start1 AND b = :end1)",
		},
		{
			"fallback",
			fallbackTree(),
			"((result_time IS NOT NULL AND result_time > :end1) OR (result_time IS NULL AND phenomenon_time_end > :end1))",
		},
		{"nil", nil, "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.pred))
		})
	}
}

func TestParamsAndColumns(t *testing.T) {
	p := AllOf(
		Less("phenomenon_time_start", "start2"),
		Greater("phenomenon_time_end", "end2"),
		Equal("phenomenon_time_start", "start2"),
	)
	assert.Equal(t, []string{"start2", "end2"}, Params(p))
	assert.Equal(t, []string{"phenomenon_time_start", "phenomenon_time_end"}, Columns(p))

	assert.Equal(t, []string{"end1"}, Params(fallbackTree()))
	assert.Equal(t, []string{"result_time", "phenomenon_time_end"}, Columns(fallbackTree()))

	assert.Nil(t, Params(And{}))
	assert.Nil(t, Columns(nil))
}

func TestWalkStopsDescent(t *testing.T) {
	var visited int
	Walk(fallbackTree(), func(p Predicate) bool {
		visited++
		_, isOr := p.(Or)
		return !isOr
	})
	assert.Equal(t, 1, visited, "returning false on the root skips its children")

	visited = 0
	Walk(fallbackTree(), func(Predicate) bool {
		visited++
		return true
	})
	assert.Equal(t, 7, visited)
}

func TestMarshalCanonical(t *testing.T) {
	data, err := MarshalCanonical(Less("a", "p"))
	require.NoError(t, err)
	assert.Equal(t, `{"column":"a","kind":"cmp","op":"<","param":"p"}`, string(data))

	data, err = MarshalCanonical(AllOf(IsNull{Column: "x"}, IsNotNull{Column: "y"}))
	require.NoError(t, err)
	assert.Equal(t,
		`{"kind":"and","predicates":[{"column":"x","kind":"null"},{"column":"y","kind":"notnull"}]}`,
		string(data))

	data, err = MarshalCanonical(Or{})
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"or","predicates":[]}`, string(data))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical(IsNull{Column: "a<b&c"})
	require.NoError(t, err)
	assert.Equal(t, `{"column":"a<b&c","kind":"null"}`, string(data))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "é" precomposed vs. "e" + combining acute
	nfc, err := MarshalCanonical(IsNull{Column: "caf\u00e9"})
	require.NoError(t, err)
	nfd, err := MarshalCanonical(IsNull{Column: "cafe\u0301"})
	require.NoError(t, err)
	assert.Equal(t, nfc, nfd)
}

func TestMarshalCanonicalErrors(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(Comparison{Column: "a", Param: "p"})
	assert.ErrorContains(t, err, "invalid operator")

	_, err = MarshalCanonical(AllOf(Less("a", "p"), nil))
	assert.ErrorContains(t, err, "[1]")
}

func TestFingerprint(t *testing.T) {
	fp1, err := Fingerprint(fallbackTree())
	require.NoError(t, err)
	fp2, err := Fingerprint(fallbackTree())
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2, "fingerprint must be deterministic")
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")

	other, err := Fingerprint(AnyOf(
		AllOf(IsNotNull{Column: "result_time"}, Greater("result_time", "end2")),
		AllOf(IsNull{Column: "result_time"}, Greater("phenomenon_time_end", "end2")),
	))
	require.NoError(t, err)
	assert.NotEqual(t, fp1, other, "parameter names take part in the fingerprint")

	swapped, err := Fingerprint(AllOf(Less("a", "p"), Less("b", "q")))
	require.NoError(t, err)
	ordered, err := Fingerprint(AllOf(Less("b", "q"), Less("a", "p")))
	require.NoError(t, err)
	assert.NotEqual(t, swapped, ordered, "child order is significant")

	_, err = Fingerprint(nil)
	assert.Error(t, err)
}
