package state

import (
	"encoding/binary"
	"hash"
	"math"
	"sort"
)

// Kind discriminates the variants of a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindArray
	KindObject
	KindNull
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Value is a tagged state value that can be tracked in a Snapshot.
// Implementations are immutable: accessors return copies of composite data.
type Value interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Equal reports structural equality with another value.
	Equal(other Value) bool

	// writeHash mixes the value, prefixed by its kind tag, into h.
	writeHash(h hash.Hash64)
}

type stringValue struct{ v string }
type intValue struct{ v int64 }
type floatValue struct{ v float64 }
type boolValue struct{ v bool }
type arrayValue struct{ v []Value }
type objectValue struct{ v map[string]Value }
type nullValue struct{}

// String wraps a string as a Value.
func String(v string) Value { return stringValue{v} }

// Int wraps an integer as a Value.
func Int(v int64) Value { return intValue{v} }

// Float wraps a float as a Value.
func Float(v float64) Value { return floatValue{v} }

// Bool wraps a bool as a Value.
func Bool(v bool) Value { return boolValue{v} }

// Array wraps an ordered list of values. The slice is copied.
func Array(v ...Value) Value {
	cp := make([]Value, len(v))
	copy(cp, v)
	return arrayValue{cp}
}

// Object wraps a string-keyed map of values. The map is copied.
func Object(v map[string]Value) Value {
	cp := make(map[string]Value, len(v))
	for k, val := range v {
		cp[k] = val
	}
	return objectValue{cp}
}

// Null is the absent value.
func Null() Value { return nullValue{} }

func (v stringValue) Kind() Kind { return KindString }
func (v intValue) Kind() Kind    { return KindInt }
func (v floatValue) Kind() Kind  { return KindFloat }
func (v boolValue) Kind() Kind   { return KindBool }
func (v arrayValue) Kind() Kind  { return KindArray }
func (v objectValue) Kind() Kind { return KindObject }
func (v nullValue) Kind() Kind   { return KindNull }

// StringVal returns the wrapped string and whether v holds one.
func StringVal(v Value) (string, bool) {
	s, ok := v.(stringValue)
	return s.v, ok
}

// IntVal returns the wrapped integer and whether v holds one.
func IntVal(v Value) (int64, bool) {
	i, ok := v.(intValue)
	return i.v, ok
}

// FloatVal returns the wrapped float and whether v holds one.
func FloatVal(v Value) (float64, bool) {
	f, ok := v.(floatValue)
	return f.v, ok
}

// BoolVal returns the wrapped bool and whether v holds one.
func BoolVal(v Value) (bool, bool) {
	b, ok := v.(boolValue)
	return b.v, ok
}

func (v stringValue) Equal(other Value) bool {
	o, ok := other.(stringValue)
	return ok && v.v == o.v
}

func (v intValue) Equal(other Value) bool {
	o, ok := other.(intValue)
	return ok && v.v == o.v
}

func (v floatValue) Equal(other Value) bool {
	o, ok := other.(floatValue)
	return ok && math.Float64bits(v.v) == math.Float64bits(o.v)
}

func (v boolValue) Equal(other Value) bool {
	o, ok := other.(boolValue)
	return ok && v.v == o.v
}

func (v arrayValue) Equal(other Value) bool {
	o, ok := other.(arrayValue)
	if !ok || len(v.v) != len(o.v) {
		return false
	}
	for i := range v.v {
		if !v.v[i].Equal(o.v[i]) {
			return false
		}
	}
	return true
}

func (v objectValue) Equal(other Value) bool {
	o, ok := other.(objectValue)
	if !ok || len(v.v) != len(o.v) {
		return false
	}
	for k, val := range v.v {
		oval, present := o.v[k]
		if !present || !val.Equal(oval) {
			return false
		}
	}
	return true
}

func (v nullValue) Equal(other Value) bool {
	_, ok := other.(nullValue)
	return ok
}

func hashUint64(h hash.Hash64, n uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	h.Write(buf[:])
}

func (v stringValue) writeHash(h hash.Hash64) {
	h.Write([]byte{byte(KindString)})
	h.Write([]byte(v.v))
}

func (v intValue) writeHash(h hash.Hash64) {
	h.Write([]byte{byte(KindInt)})
	hashUint64(h, uint64(v.v))
}

func (v floatValue) writeHash(h hash.Hash64) {
	h.Write([]byte{byte(KindFloat)})
	hashUint64(h, math.Float64bits(v.v))
}

func (v boolValue) writeHash(h hash.Hash64) {
	h.Write([]byte{byte(KindBool)})
	if v.v {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
}

func (v arrayValue) writeHash(h hash.Hash64) {
	h.Write([]byte{byte(KindArray)})
	hashUint64(h, uint64(len(v.v)))
	for _, item := range v.v {
		item.writeHash(h)
	}
}

func (v objectValue) writeHash(h hash.Hash64) {
	h.Write([]byte{byte(KindObject)})
	// Sorted keys so map iteration order never affects the hash.
	keys := make([]string, 0, len(v.v))
	for k := range v.v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		v.v[k].writeHash(h)
	}
}

func (v nullValue) writeHash(h hash.Hash64) {
	h.Write([]byte{byte(KindNull)})
}
