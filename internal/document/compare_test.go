package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	countryA = `{"a":10,"b":{"c":30,"d":45.5,"e":"abc","f":[10.0,15.0]}}`
	countryB = `{"a":20,"b":{"c":30,"d":43.5,"e":"abcd","f":[11.0,14.0]}}`
)

func TestCompareScenario(t *testing.T) {
	got, err := Compare(MustParse(countryA), MustParse(countryB), "CountryA", "CountryB")
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"a":"CountryB","b":{"c":"Equal","d":"CountryA","f":["CountryB","CountryA"]}}`,
		got.String())
}

func TestCompareAntisymmetric(t *testing.T) {
	a, b := MustParse(countryA), MustParse(countryB)
	ab, err := Compare(a, b, "A", "B")
	require.NoError(t, err)
	ba, err := Compare(b, a, "B", "A")
	require.NoError(t, err)

	// Swapping sides with the names keeps every verdict.
	assert.JSONEq(t, ab.String(), ba.String())

	// Swapping sides but not the names flips every winner.
	flipped, err := Compare(b, a, "A", "B")
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"a":"A","b":{"c":"Equal","d":"B","f":["A","B"]}}`,
		flipped.String())
}

func TestCompareReflexive(t *testing.T) {
	a := MustParse(`{"area":100,"gini":{"2018":41.5},"latlng":[46,2],"name":"X","flag":true}`)
	got, err := Compare(a, a, "X", "X2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"area":"Equal","gini":{"2018":"Equal"},"latlng":["Equal","Equal"]}`, got.String())
}

func TestCompareSkipsNonNumeric(t *testing.T) {
	a := MustParse(`{"s":"x","b":true,"z":null,"mixed":[1,"two"],"strs":["a"],"n":1,"t":2}`)
	b := MustParse(`{"n":"one","t":1}`)
	got, err := Compare(a, b, "A", "B")
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"A"}`, got.String())
}

func TestCompareNestedEmptyMap(t *testing.T) {
	a := MustParse(`{"name":{"common":"France"}}`)
	b := MustParse(`{"name":{"common":"Spain"}}`)
	got, err := Compare(a, b, "France", "Spain")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":{}}`, got.String())
}

func TestCompareEmptyNumericList(t *testing.T) {
	got, err := Compare(MustParse(`{"l":[]}`), MustParse(`{"l":[]}`), "A", "B")
	require.NoError(t, err)
	assert.JSONEq(t, `{"l":[]}`, got.String())
}

func TestCompareIntegerAndFloat(t *testing.T) {
	got, err := Compare(MustParse(`{"x":2}`), MustParse(`{"x":2.0}`), "A", "B")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":"Equal"}`, got.String())
}

func TestCompareErrors(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		err  error
		path string
	}{
		{"missing number", `{"a":1}`, `{}`, ErrMissingCounterpart, "a"},
		{"missing nested map", `{"m":{"x":1}}`, `{"n":1}`, ErrMissingCounterpart, "m"},
		{"missing deep leaf", `{"m":{"x":1}}`, `{"m":{}}`, ErrMissingCounterpart, "m.x"},
		{"map against number", `{"m":{"x":1}}`, `{"m":3}`, ErrShapeMismatch, "m"},
		{"list against number", `{"l":[1]}`, `{"l":1}`, ErrShapeMismatch, "l"},
		{"list with strings", `{"l":[1]}`, `{"l":["1"]}`, ErrShapeMismatch, "l"},
		{"list lengths", `{"l":[1,2]}`, `{"l":[1]}`, ErrLengthMismatch, "l"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(MustParse(tt.a), MustParse(tt.b), "A", "B")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			var cerr *ComparisonError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.path, cerr.Path.String())
		})
	}
}

func TestCompareIgnoresExtraFieldsOnB(t *testing.T) {
	got, err := Compare(MustParse(`{"a":1}`), MustParse(`{"a":1,"b":2}`), "A", "B")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"Equal"}`, got.String())
}
