package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("invalid json document")

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is one node of a schema-less document. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	items []Value
	obj   *Object
}

func NullValue() Value { return Value{} }
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, n: n} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func ListValue(items ...Value) Value { return Value{kind: KindList, items: items} }

func MapValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindMap, obj: o}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsMap() bool { return v.kind == KindMap }
func (v Value) IsList() bool { return v.kind == KindList }
func (v Value) Bool() bool { return v.b }
func (v Value) Float() float64 { return v.n }
func (v Value) Str() string { return v.s }
func (v Value) Items() []Value { return v.items }
func (v Value) Object() *Object { return v.obj }

// Get returns the field k of a map value. Any other kind has no fields.
func (v Value) Get(k string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	return v.obj.Get(k)
}

// Len is the number of fields of a map or elements of a list.
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return v.obj.Len()
	case KindList:
		return len(v.items)
	}
	return 0
}

// allNumbers reports whether v is a list of numbers only. An empty list counts.
func (v Value) allNumbers() bool {
	if v.kind != KindList {
		return false
	}
	for _, it := range v.items {
		if it.kind != KindNumber {
			return false
		}
	}
	return true
}

// Object is an insertion ordered string keyed map.
type Object struct {
	keys   []string
	fields map[string]Value
}

func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

func (o *Object) Get(k string) (Value, bool) {
	v, ok := o.fields[k]
	return v, ok
}

// Set adds or replaces a field. Replacing keeps the original position.
func (o *Object) Set(k string, v Value) {
	if _, ok := o.fields[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.fields[k] = v
}

func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Parse decodes a JSON text into a Value.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, ErrInvalidJSON
	}
	return FromResult(gjson.ParseBytes(data)), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

// FromResult converts an already parsed gjson result.
func FromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return BoolValue(false)
	case gjson.True:
		return BoolValue(true)
	case gjson.Number:
		return NumberValue(r.Num)
	case gjson.String:
		return StringValue(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := make([]Value, 0)
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, FromResult(item))
				return true
			})
			return ListValue(items...)
		}
		o := NewObject()
		r.ForEach(func(key, item gjson.Result) bool {
			o.Set(key.Str, FromResult(item))
			return true
		})
		return MapValue(o)
	}
	return NullValue()
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	p, err := Parse(data)
	if err != nil {
		return err
	}
	*v = p
	return nil
}

// String returns the JSON text of v.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.Write(strconv.AppendFloat(nil, v.n, 'f', -1, 64))
	case KindString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := v.obj.fields[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
