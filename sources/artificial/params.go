package artificial

import (
	"sort"
	"strings"
)

const countKey = "count"

type valueKind int

const (
	scalarValue valueKind = iota
	listValue
	perIndexValue
)

// Value is one template parameter. Scalar and List values are broadcast to every item of a batch,
// PerIndex values hand element i to item i.
type Value struct {
	kind  valueKind
	items []string
}

func Scalar(value string) Value {
	return Value{kind: scalarValue, items: []string{value}}
}

// List renders as a comma separated enumeration, e.g. a set of existing names to avoid.
func List(values ...string) Value {
	return Value{kind: listValue, items: append([]string(nil), values...)}
}

func PerIndex(values ...string) Value {
	return Value{kind: perIndexValue, items: append([]string(nil), values...)}
}

func (v Value) IsPerIndex() bool {
	return v.kind == perIndexValue
}

func (v Value) at(index int) string {
	switch v.kind {
	case listValue:
		return strings.Join(v.items, ", ")
	case perIndexValue:
		return v.items[index]
	default:
		if len(v.items) == 0 {
			return ""
		}
		return v.items[0]
	}
}

type Params map[string]Value

// Validate checks every per-index value against the batch size.
func (p Params) Validate(count int) error {
	if count < 0 {
		return &ParameterArityError{Key: countKey, Count: count}
	}

	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := p[key]
		if value.IsPerIndex() && len(value.items) != count {
			return &ParameterArityError{Key: key, Count: count, Length: len(value.items)}
		}
	}
	return nil
}

// At returns the plain values seen by batch item index. Call Validate first.
func (p Params) At(index int) map[string]string {
	values := make(map[string]string, len(p))
	for key, value := range p {
		values[key] = value.at(index)
	}
	return values
}
