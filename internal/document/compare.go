package document

import (
	"errors"
	"fmt"
)

// Equal is the result leaf for a tie.
const Equal = "Equal"

var (
	ErrMissingCounterpart = errors.New("field missing on the other side")
	ErrShapeMismatch      = errors.New("field has a different shape on the other side")
	ErrLengthMismatch     = errors.New("numeric lists differ in length")
)

// ComparisonError reports where two documents could not be compared.
type ComparisonError struct {
	Path Path
	Err  error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("compare %s: %v", e.Path, e.Err)
}

func (e *ComparisonError) Unwrap() error {
	return e.Err
}

// Compare walks the fields of a and names, for every numeric leaf, the side
// holding the larger value. Lists of numbers are compared element by element.
// Nested maps produce nested results. Strings, booleans, nulls and leaves
// whose counterpart is not a number are left out of the result.
//
// a decides which fields are visited; a field of a that is missing on b, a
// container of a different kind on b, or numeric lists of unequal length fail
// the whole comparison.
func Compare(a, b Value, nameA, nameB string) (Value, error) {
	c := comparator{nameA: nameA, nameB: nameB}
	return c.compareMaps(a, b, nil)
}

type comparator struct {
	nameA, nameB string
}

func (c comparator) winner(x, y float64) Value {
	switch {
	case x > y:
		return StringValue(c.nameA)
	case y > x:
		return StringValue(c.nameB)
	default:
		return StringValue(Equal)
	}
}

func (c comparator) compareMaps(a, b Value, at Path) (Value, error) {
	if !a.IsMap() {
		return MapValue(nil), nil
	}
	if !b.IsMap() {
		return Value{}, &ComparisonError{Path: at, Err: ErrShapeMismatch}
	}

	res := NewObject()
	for _, k := range a.obj.keys {
		va := a.obj.fields[k]
		if !participates(va) {
			continue
		}
		path := at.child(k)
		vb, ok := b.obj.Get(k)
		if !ok {
			return Value{}, &ComparisonError{Path: path, Err: ErrMissingCounterpart}
		}

		switch va.kind {
		case KindNumber:
			if vb.kind != KindNumber {
				continue
			}
			res.Set(k, c.winner(va.n, vb.n))
		case KindList:
			r, err := c.compareLists(va, vb, path)
			if err != nil {
				return Value{}, err
			}
			res.Set(k, r)
		case KindMap:
			r, err := c.compareMaps(va, vb, path)
			if err != nil {
				return Value{}, err
			}
			res.Set(k, r)
		}
	}
	return MapValue(res), nil
}

func (c comparator) compareLists(a, b Value, at Path) (Value, error) {
	if !b.allNumbers() {
		return Value{}, &ComparisonError{Path: at, Err: ErrShapeMismatch}
	}
	if len(a.items) != len(b.items) {
		return Value{}, &ComparisonError{Path: at, Err: ErrLengthMismatch}
	}
	out := make([]Value, len(a.items))
	for i := range a.items {
		out[i] = c.winner(a.items[i].n, b.items[i].n)
	}
	return ListValue(out...), nil
}

// participates reports whether v takes part in a comparison at all.
func participates(v Value) bool {
	switch v.kind {
	case KindNumber, KindMap:
		return true
	case KindList:
		return v.allNumbers()
	}
	return false
}
