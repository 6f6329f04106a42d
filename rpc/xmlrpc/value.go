// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package xmlrpc implements the XML-RPC wire format used by the Boa API:
// a tagged union value type and a streaming encoder and decoder for
// method calls and method responses.
package xmlrpc

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/juju/errors"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindBase64
	KindDateTime
	KindArray
	KindStruct
)

var kindNames = map[Kind]string{
	KindNil:      "nil",
	KindBool:     "boolean",
	KindInt:      "int",
	KindDouble:   "double",
	KindString:   "string",
	KindBase64:   "base64",
	KindDateTime: "dateTime.iso8601",
	KindArray:    "array",
	KindStruct:   "struct",
}

// String returns the XML-RPC element name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is a single named entry of a struct value.
type Member struct {
	Name  string
	Value Value
}

// Value is a single XML-RPC value. The zero Value is nil.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	s       string
	data    []byte
	t       time.Time
	items   []Value
	members []Member
}

// Nil returns the explicit nil value.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double returns a floating point value. It is always encoded as
// <double>, even when it is integral.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// Number returns an integer value when f is mathematically integral
// and representable as an int64, and a double value otherwise.
func Number(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Double(f)
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Base64 returns a byte buffer value.
func Base64(data []byte) Value { return Value{kind: KindBase64, data: data} }

// DateTime returns a timestamp value. The wire format carries second
// precision and no zone, so the time is stored truncated and in UTC.
func DateTime(t time.Time) Value {
	return Value{kind: KindDateTime, t: t.UTC().Truncate(time.Second)}
}

// Array returns an ordered list value.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Struct returns a struct value. Member names are unique: a repeated
// name replaces the earlier value in its original position.
func Struct(members ...Member) Value {
	v := Value{kind: KindStruct, members: make([]Member, 0, len(members))}
	for _, m := range members {
		v.members = setMember(v.members, m)
	}
	return v
}

func setMember(members []Member, m Member) []Member {
	for i := range members {
		if members[i].Name == m.Name {
			members[i].Value = m.Value
			return members
		}
	}
	return append(members, m)
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the nil value.
func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) mismatch(want Kind) error {
	return errors.NotValidf("%s value as %s", v.kind, want)
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.b, nil
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, v.mismatch(KindInt)
	}
	return v.i, nil
}

// AsDouble returns the floating point number held by v. Integer values
// are widened.
func (v Value) AsDouble() (float64, error) {
	switch v.kind {
	case KindDouble:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	}
	return 0, v.mismatch(KindDouble)
}

// AsString returns the string held by v.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.s, nil
}

// AsBytes returns the byte buffer held by v.
func (v Value) AsBytes() ([]byte, error) {
	if v.kind != KindBase64 {
		return nil, v.mismatch(KindBase64)
	}
	return v.data, nil
}

// AsTime returns the timestamp held by v.
func (v Value) AsTime() (time.Time, error) {
	if v.kind != KindDateTime {
		return time.Time{}, v.mismatch(KindDateTime)
	}
	return v.t, nil
}

// Items returns the elements of an array value.
func (v Value) Items() ([]Value, error) {
	if v.kind != KindArray {
		return nil, v.mismatch(KindArray)
	}
	return v.items, nil
}

// Members returns the members of a struct value in insertion order.
func (v Value) Members() ([]Member, error) {
	if v.kind != KindStruct {
		return nil, v.mismatch(KindStruct)
	}
	return v.members, nil
}

// Get returns the named member of a struct value. It returns false if v
// is not a struct or has no such member.
func (v Value) Get(name string) (Value, bool) {
	if v.kind != KindStruct {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether v and other hold the same variant and content.
// Struct member order is not significant; array order is.
func (v Value) Equal(other Value) bool {
	type pair struct{ a, b Value }
	pending := []pair{{v, other}}
	for len(pending) > 0 {
		p := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		a, b := p.a, p.b
		if a.kind != b.kind {
			return false
		}
		switch a.kind {
		case KindNil:
		case KindBool:
			if a.b != b.b {
				return false
			}
		case KindInt:
			if a.i != b.i {
				return false
			}
		case KindDouble:
			if a.f != b.f && !(math.IsNaN(a.f) && math.IsNaN(b.f)) {
				return false
			}
		case KindString:
			if a.s != b.s {
				return false
			}
		case KindBase64:
			if !bytes.Equal(a.data, b.data) {
				return false
			}
		case KindDateTime:
			if !a.t.Equal(b.t) {
				return false
			}
		case KindArray:
			if len(a.items) != len(b.items) {
				return false
			}
			for i := range a.items {
				pending = append(pending, pair{a.items[i], b.items[i]})
			}
		case KindStruct:
			if len(a.members) != len(b.members) {
				return false
			}
			for _, m := range a.members {
				bv, ok := b.Get(m.Name)
				if !ok {
					return false
				}
				pending = append(pending, pair{m.Value, bv})
			}
		}
	}
	return true
}

// GoString renders the value for test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case KindNil:
		return "xmlrpc.Nil()"
	case KindBool:
		return fmt.Sprintf("xmlrpc.Bool(%v)", v.b)
	case KindInt:
		return fmt.Sprintf("xmlrpc.Int(%d)", v.i)
	case KindDouble:
		return fmt.Sprintf("xmlrpc.Double(%v)", v.f)
	case KindString:
		return fmt.Sprintf("xmlrpc.String(%q)", v.s)
	case KindBase64:
		return fmt.Sprintf("xmlrpc.Base64(%q)", v.data)
	case KindDateTime:
		return fmt.Sprintf("xmlrpc.DateTime(%s)", v.t.Format(time.RFC3339))
	case KindArray:
		return fmt.Sprintf("xmlrpc.Array(%d items)", len(v.items))
	case KindStruct:
		names := make([]string, len(v.members))
		for i, m := range v.members {
			names[i] = m.Name
		}
		return fmt.Sprintf("xmlrpc.Struct(%v)", names)
	}
	return v.kind.String()
}

// ValueOf converts a native Go value into a Value. Supported inputs are
// nil, Value, bool, the integer and float types, string, []byte,
// time.Time, []any, []Value and map[string]any (members sorted by name).
// Floats go through Number, so integral floats become ints.
func ValueOf(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Nil(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Base64(x), nil
	case time.Time:
		return DateTime(x), nil
	case []Value:
		return Array(x...), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := ValueOf(item)
			if err != nil {
				return Value{}, errors.Annotatef(err, "item %d", i)
			}
			items[i] = v
		}
		return Array(items...), nil
	case map[string]any:
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)
		members := make([]Member, len(names))
		for i, name := range names {
			v, err := ValueOf(x[name])
			if err != nil {
				return Value{}, errors.Annotatef(err, "member %q", name)
			}
			members[i] = Member{Name: name, Value: v}
		}
		return Struct(members...), nil
	}
	return Value{}, errors.NotSupportedf("converting %T to an xml-rpc value", in)
}
