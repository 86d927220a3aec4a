package tsparse

import "sort"

// ValueKind classifies a literal extracted from decorator arguments.
type ValueKind string

const (
	KindNone       ValueKind = ""
	KindString     ValueKind = "string"
	KindNumber     ValueKind = "number"
	KindBool       ValueKind = "bool"
	KindIdentifier ValueKind = "identifier"
	KindArray      ValueKind = "array"
	KindObject     ValueKind = "object"
	KindOther      ValueKind = "other"
)

// Value is a literal expression tree. Text holds the string contents, the
// identifier or member path, the number source, or the raw source of an
// expression that is not modelled.
type Value struct {
	Kind  ValueKind        `json:"kind"`
	Text  string           `json:"text,omitempty"`
	Bool  bool             `json:"bool,omitempty"`
	Items []Value          `json:"items,omitempty"`
	Props map[string]Value `json:"props,omitempty"`
}

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool {
	return v.Kind == KindNone
}

// Prop returns the property key of an object value.
func (v Value) Prop(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	p, ok := v.Props[key]
	return p, ok
}

// AsString returns the contents of a string value.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.Text, true
}

// AsBool returns the value of a boolean literal.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// Names returns identifier and string items of an array value in order.
// Other items, such as spreads or calls, are skipped.
func (v Value) Names() []string {
	if v.Kind != KindArray {
		return nil
	}
	names := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		switch item.Kind {
		case KindIdentifier, KindString:
			names = append(names, item.Text)
		}
	}
	return names
}

// Strings returns the string items of an array value, or the value itself
// when it is a single string.
func (v Value) Strings() []string {
	switch v.Kind {
	case KindString:
		return []string{v.Text}
	case KindArray:
		out := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if item.Kind == KindString {
				out = append(out, item.Text)
			}
		}
		return out
	}
	return nil
}

// StringProps returns the string-valued properties of an object value.
func (v Value) StringProps() map[string]string {
	if v.Kind != KindObject {
		return nil
	}
	out := make(map[string]string)
	for k, p := range v.Props {
		if p.Kind == KindString {
			out[k] = p.Text
		}
	}
	return out
}

// Keys returns the property names of an object value in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.Props))
	for k := range v.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
