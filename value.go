// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import "fmt"

// Kind identifies the type of a JSON value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullValue Kind = iota
	BoolValue
	NumberValue
	StringValue
	ArrayValue
	ObjectValue
)

var kindName = [...]string{
	NullValue:   "null",
	BoolValue:   "bool",
	NumberValue: "number",
	StringValue: "string",
	ArrayValue:  "array",
	ObjectValue: "object",
}

func (k Kind) String() string {
	if int(k) >= len(kindName) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindName[k]
}

// A Value is an arbitrary JSON value. The zero Value is null.
//
// The elements of an array and the members of an object returned by the
// parser are stored in an Arena, and must not be modified.
type Value struct {
	kind Kind
	flag bool    // Bool
	num  float64 // Number
	text string  // String, decoded
	vals []Value // Array
	mems []Member
	span Span
}

// A Member is a single key-value pair belonging to an object.
type Member struct {
	Key   string
	Value Value
}

// NewNull returns a null value.
func NewNull() Value { return Value{} }

// NewBool returns a Boolean value.
func NewBool(b bool) Value { return Value{kind: BoolValue, flag: b} }

// NewNumber returns a number value.
func NewNumber(f float64) Value { return Value{kind: NumberValue, num: f} }

// NewString returns a string value with the given (unescaped) text.
func NewString(s string) Value { return Value{kind: StringValue, text: s} }

// NewArray returns an array value with the given elements.
func NewArray(vs ...Value) Value { return Value{kind: ArrayValue, vals: vs} }

// NewObject returns an object value with the given members.
func NewObject(ms ...Member) Value { return Value{kind: ObjectValue, mems: ms} }

// Field constructs an object member with the given key and value.
func Field(key string, v Value) Member { return Member{Key: key, Value: v} }

// Kind reports the type of v.
func (v Value) Kind() Kind { return v.kind }

// Span reports the location of v in the source text it was parsed from.
// The span of a constructed value is zero.
func (v Value) Span() Span { return v.span }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == NullValue }

// Bool returns the value of a Boolean. It panics if v is not a Boolean.
func (v Value) Bool() bool { v.mustBe(BoolValue); return v.flag }

// Float64 returns the value of a number. It panics if v is not a number.
func (v Value) Float64() float64 { v.mustBe(NumberValue); return v.num }

// Text returns the decoded text of a string. It panics if v is not a string.
func (v Value) Text() string { v.mustBe(StringValue); return v.text }

// Array returns the elements of an array. It panics if v is not an array.
func (v Value) Array() []Value { v.mustBe(ArrayValue); return v.vals }

// Members returns the members of an object, in input order. It panics if v is
// not an object.
func (v Value) Members() []Member { v.mustBe(ObjectValue); return v.mems }

// Len returns the number of elements of an array or members of an object.
// It panics if v is neither.
func (v Value) Len() int {
	switch v.kind {
	case ArrayValue:
		return len(v.vals)
	case ObjectValue:
		return len(v.mems)
	}
	panic(fmt.Sprintf("jval: Len of %v value", v.kind))
}

// Index returns the element at offset i of an array, or the value of the
// member at offset i of an object. It panics if v is neither, or if i is out
// of range.
func (v Value) Index(i int) Value {
	switch v.kind {
	case ArrayValue:
		return v.vals[i]
	case ObjectValue:
		return v.mems[i].Value
	}
	panic(fmt.Sprintf("jval: Index of %v value", v.kind))
}

// Find returns the value of the first member of v with the given key, and
// reports whether such a member was found. It panics if v is not an object.
func (v Value) Find(key string) (Value, bool) {
	for _, m := range v.Members() {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// FindLast returns the value of the last member of v with the given key, and
// reports whether such a member was found. This is the usual interpretation
// of an object with duplicate keys. It panics if v is not an object.
func (v Value) FindLast(key string) (Value, bool) {
	ms := v.Members()
	for i := len(ms) - 1; i >= 0; i-- {
		if ms[i].Key == key {
			return ms[i].Value, true
		}
	}
	return Value{}, false
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("jval: %v value is not %v", v.kind, k))
	}
}

// Equal reports whether a and b are structurally equal. Spans are ignored,
// object members are compared in order, and numbers are compared by value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case BoolValue:
		return a.flag == b.flag
	case NumberValue:
		return a.num == b.num
	case StringValue:
		return a.text == b.text
	case ArrayValue:
		if len(a.vals) != len(b.vals) {
			return false
		}
		for i := range a.vals {
			if !Equal(a.vals[i], b.vals[i]) {
				return false
			}
		}
	case ObjectValue:
		if len(a.mems) != len(b.mems) {
			return false
		}
		for i, m := range a.mems {
			if m.Key != b.mems[i].Key || !Equal(m.Value, b.mems[i].Value) {
				return false
			}
		}
	}
	return true
}
