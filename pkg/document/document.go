// Package document models parsed JSON documents.
//
// The standard library decodes objects into maps, which discards member
// order. Arbor lays out siblings left to right in document order, so the
// parser in this package walks the decoder's token stream and keeps object
// members as an ordered slice. Numbers stay as json.Number so their source
// text survives into labels and value search.
package document

import (
	"bytes"
	"encoding/json"
)

// Kind identifies the JSON type of a Value.
type Kind int

// JSON value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the wire name of the kind: "object", "array", "string",
// "number", "boolean", or "null".
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// Primitive reports whether the kind is a leaf value rather than a container.
func (k Kind) Primitive() bool {
	return k != KindObject && k != KindArray
}

// ParseKind maps a wire name back to its Kind. It is the inverse of
// [Kind.String] and reports false for unknown names.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "object":
		return KindObject, true
	case "array":
		return KindArray, true
	case "string":
		return KindString, true
	case "number":
		return KindNumber, true
	case "boolean":
		return KindBool, true
	case "null":
		return KindNull, true
	}
	return KindNull, false
}

// Member is a single key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value *Value
}

// Value is one parsed JSON value. Exactly one payload field is meaningful,
// selected by Kind. Duplicate object keys are preserved as written.
type Value struct {
	Kind    Kind
	Members []Member    // object members, in document order
	Elems   []*Value    // array elements
	Str     string      // string payload
	Num     json.Number // number payload, source text preserved
	Bool    bool        // boolean payload
}

// IsContainer reports whether the value is an object or array.
func (v *Value) IsContainer() bool {
	return v.Kind == KindObject || v.Kind == KindArray
}

// Len returns the number of direct children: member count for objects,
// element count for arrays, zero for primitives.
func (v *Value) Len() int {
	switch v.Kind {
	case KindObject:
		return len(v.Members)
	case KindArray:
		return len(v.Elems)
	}
	return 0
}

// Text returns the display text of a primitive value: the raw string, the
// number's source text, "true"/"false", or "null". Containers return "".
func (v *Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num.String()
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	}
	return ""
}

// Plain converts the value into plain Go data: map[string]any, []any,
// string, int64/float64, bool, or nil. Used for JSONPath evaluation, where
// member order does not matter. Callers that care about order walk the
// Value directly.
func (v *Value) Plain() any {
	switch v.Kind {
	case KindObject:
		m := make(map[string]any, len(v.Members))
		for _, mem := range v.Members {
			m[mem.Key] = mem.Value.Plain()
		}
		return m
	case KindArray:
		s := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			s[i] = e.Plain()
		}
		return s
	case KindString:
		return v.Str
	case KindNumber:
		if i, err := v.Num.Int64(); err == nil {
			return i
		}
		if f, err := v.Num.Float64(); err == nil {
			return f
		}
		return v.Num.String()
	case KindBool:
		return v.Bool
	}
	return nil
}

// MarshalJSON re-serializes the value with object members in document order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindString:
		s, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(s)
	case KindNumber:
		if v.Num == "" {
			buf.WriteByte('0')
		} else {
			buf.WriteString(v.Num.String())
		}
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNull:
		buf.WriteString("null")
	}
	return nil
}
