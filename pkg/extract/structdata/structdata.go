// SPDX-FileCopyrightText: © 2025 the meta-oxide authors
//
// SPDX-License-Identifier: MIT OR Apache-2.0

// Package structdata provides the value model shared by every structured
// data extractor: a tagged property value, a recursive item type and the
// URL resolution and class token tables the extractors dispatch on.
package structdata

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"
	"strings"
)

// DefaultMaxDepth bounds the recursive extraction of nested items.
// Well-formed documents never get anywhere close; the limit only exists
// so that adversarial nesting cannot exhaust the stack.
const DefaultMaxDepth = 128

// Kind is a property value type.
type Kind uint8

const (
	// KindText is a plain text value.
	KindText Kind = iota
	// KindURL is a URL value, absolute whenever resolution succeeded.
	KindURL
	// KindHTML is a serialized inner markup fragment.
	KindHTML
	// KindDateTime is an ISO-8601-like string, passed through verbatim.
	KindDateTime
	// KindNumber is a numeric value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindItem is a nested item.
	KindItem
	// KindList is an ordered sequence of values.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindURL:
		return "url"
	case KindHTML:
		return "html"
	case KindDateTime:
		return "datetime"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindItem:
		return "item"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Value is a tagged property value. The zero value is an empty text
// value, which every container treats as absent.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Item *Item
	List []Value
}

// TextValue returns a plain text value, trimmed at the edges.
func TextValue(s string) Value {
	return Value{Kind: KindText, Str: strings.TrimSpace(s)}
}

// URLValue returns a URL value, resolved against base at the point of
// creation. Resolution never fails; an unresolvable candidate is kept
// as-is.
func URLValue(base, candidate string) Value {
	return Value{Kind: KindURL, Str: ResolveURL(base, candidate)}
}

// HTMLValue returns a rich content value holding serialized markup.
func HTMLValue(s string) Value {
	return Value{Kind: KindHTML, Str: strings.TrimSpace(s)}
}

// DateTimeValue returns a date/time value. The source string is kept
// verbatim, source formats vary too much to parse into a calendar type.
func DateTimeValue(s string) Value {
	return Value{Kind: KindDateTime, Str: strings.TrimSpace(s)}
}

// NumberValue returns a numeric value.
func NumberValue(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// ItemValue returns a nested item value.
func ItemValue(it *Item) Value {
	return Value{Kind: KindItem, Item: it}
}

// IsZero reports whether the value carries nothing worth keeping.
// Extractors drop such values, absence is an omitted key, never an
// empty string.
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindText, KindURL, KindHTML, KindDateTime:
		return v.Str == ""
	case KindItem:
		return v.Item == nil
	case KindList:
		return len(v.List) == 0
	}
	return false
}

// MarshalJSON renders the scalar, nested item or list form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindItem:
		return json.Marshal(v.Item)
	case KindList:
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Str)
}

// Item is one extracted structured entity. Properties keep document
// order and hold a single value until a second declaration of the same
// name promotes it to a list.
type Item struct {
	Types []string
	ID    string

	props map[string]Value
	order []string
}

// NewItem returns an item with the given vocabulary identifiers.
// An untyped item still serializes its type list, as an empty one.
func NewItem(types ...string) *Item {
	if types == nil {
		types = []string{}
	}
	return &Item{
		Types: types,
		props: map[string]Value{},
	}
}

// Add records a property occurrence. A zero value is dropped. The first
// occurrence of a name stays scalar, the second one promotes the entry
// to a list; further occurrences append, in call order.
func (it *Item) Add(name string, v Value) {
	if name == "" || v.IsZero() {
		return
	}

	cur, ok := it.props[name]
	if !ok {
		it.props[name] = v
		it.order = append(it.order, name)
		return
	}

	if cur.Kind == KindList {
		cur.List = append(cur.List, v)
		it.props[name] = cur
		return
	}
	it.props[name] = Value{Kind: KindList, List: []Value{cur, v}}
}

// Get returns the value stored under a property name.
func (it *Item) Get(name string) (Value, bool) {
	v, ok := it.props[name]
	return v, ok
}

// Len returns the number of distinct property names.
func (it *Item) Len() int {
	return len(it.order)
}

// HasType reports whether the item declares the given vocabulary
// identifier.
func (it *Item) HasType(name string) bool {
	return slices.Contains(it.Types, name)
}

// Properties iterates over properties in insertion (document) order.
func (it *Item) Properties() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range it.order {
			if !yield(name, it.props[name]) {
				return
			}
		}
	}
}

// MarshalJSON renders the item with its properties in document order.
func (it *Item) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')

	writeMember := func(name string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}

	if err := writeMember("type", it.Types); err != nil {
		return nil, err
	}
	if it.ID != "" {
		if err := writeMember("id", it.ID); err != nil {
			return nil, err
		}
	}

	props := new(bytes.Buffer)
	props.WriteByte('{')
	for _, name := range it.order {
		if props.Len() > 1 {
			props.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		props.Write(k)
		props.WriteByte(':')
		b, err := json.Marshal(it.props[name])
		if err != nil {
			return nil, err
		}
		props.Write(b)
	}
	props.WriteByte('}')

	if err := writeMember("properties", json.RawMessage(props.Bytes())); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
