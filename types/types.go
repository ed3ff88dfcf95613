// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package types

// Polarity classifies a type as data (positive, eager) or codata (negative, lazy).
type Polarity int8

const (
	Positive Polarity = 1
	Negative Polarity = -1
)

// Type is the base interface for all types.
type Type interface {
	TypeName() string
	Polarity() Polarity
}

func (t *Const) TypeName() string     { return "Const" }
func (t *Struct) TypeName() string    { return "Struct" }
func (t *Variant) TypeName() string   { return "Variant" }
func (t *Choice) TypeName() string    { return "Choice" }
func (t *Coroutine) TypeName() string { return "Coroutine" }
func (t *NegFunc) TypeName() string   { return "NegFunc" }
func (t *Return) TypeName() string    { return "Return" }
func (t NoReturn) TypeName() string   { return "NoReturn" }
func (t *Asserted) TypeName() string  { return "Asserted" }

func (t *Const) Polarity() Polarity     { return Positive }
func (t *Struct) Polarity() Polarity    { return Positive }
func (t *Variant) Polarity() Polarity   { return Positive }
func (t *Return) Polarity() Polarity    { return Positive }
func (t *Choice) Polarity() Polarity    { return Negative }
func (t *Coroutine) Polarity() Polarity { return Negative }
func (t *NegFunc) Polarity() Polarity   { return Negative }
func (t NoReturn) Polarity() Polarity   { return Negative }
func (t *Asserted) Polarity() Polarity  { return t.Inner.Polarity() }

// Field pairs a label with a type. Field order is declaration order, which is
// load-bearing for structs, coroutines and continue branches.
type Field struct {
	Name string
	Type Type
}

// Base type: `Int` or `Str`
type Const struct {
	Name string
}

// Struct type (positive): all fields are supplied together.
type Struct struct {
	Fields []Field
}

// Variant type (positive): exactly one tagged case is supplied.
type Variant struct {
	Cases []Field
}

// Choice type (negative dual of Variant): all operations are offered,
// the caller selects exactly one.
type Choice struct {
	Cases []Field
}

// Coroutine type (negative dual of Struct): all yield points are offered
// and every one eventually runs.
type Coroutine struct {
	Yields []Field
}

// Negative function type: `A -> B`
type NegFunc struct {
	Param  Type
	Result Type
}

// Return is a one-shot resume point expecting a value of the inner type.
// Return values are strictly linear and never semistatic.
type Return struct {
	Inner Type
}

// NoReturn is the type of expressions performing a control transfer;
// they never yield to their syntactic continuation.
type NoReturn struct{}

// Asserted marks a type as semistatic: `T + 'static`. The assertion is only
// admitted by the checker when the value is built from static inputs.
type Asserted struct {
	Inner Type
}

// Get the underlying type with semistatic assertions stripped.
func RealType(t Type) Type {
	for {
		a, ok := t.(*Asserted)
		if !ok {
			return t
		}
		t = a.Inner
	}
}

// Case returns the type and position of the named case within a Choice.
func (t *Choice) Case(label string) (Type, int, bool) {
	for i, c := range t.Cases {
		if c.Name == label {
			return c.Type, i, true
		}
	}
	return nil, -1, false
}

// Case returns the type and position of the named case within a Variant.
func (t *Variant) Case(label string) (Type, int, bool) {
	for i, c := range t.Cases {
		if c.Name == label {
			return c.Type, i, true
		}
	}
	return nil, -1, false
}

// Equal reports structural equality, ignoring semistatic assertions.
func Equal(a, b Type) bool {
	a, b = RealType(a), RealType(b)
	switch a := a.(type) {
	case *Const:
		b, ok := b.(*Const)
		return ok && a.Name == b.Name
	case *Struct:
		b, ok := b.(*Struct)
		return ok && fieldsEqual(a.Fields, b.Fields)
	case *Variant:
		b, ok := b.(*Variant)
		return ok && fieldsEqual(a.Cases, b.Cases)
	case *Choice:
		b, ok := b.(*Choice)
		return ok && fieldsEqual(a.Cases, b.Cases)
	case *Coroutine:
		b, ok := b.(*Coroutine)
		return ok && fieldsEqual(a.Yields, b.Yields)
	case *NegFunc:
		b, ok := b.(*NegFunc)
		return ok && Equal(a.Param, b.Param) && Equal(a.Result, b.Result)
	case *Return:
		b, ok := b.(*Return)
		return ok && Equal(a.Inner, b.Inner)
	case NoReturn:
		_, ok := b.(NoReturn)
		return ok
	}
	return false
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !Equal(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

// ContainsReturn reports whether a continuation resource may be reachable
// through a value of type t. Continuations behind function types are not
// tracked; their consumption is checked at the capture site instead.
func ContainsReturn(t Type) bool {
	switch t := RealType(t).(type) {
	case *Return:
		return true
	case *Struct:
		return anyContainsReturn(t.Fields)
	case *Variant:
		return anyContainsReturn(t.Cases)
	case *Choice:
		return anyContainsReturn(t.Cases)
	case *Coroutine:
		return anyContainsReturn(t.Yields)
	}
	return false
}

func anyContainsReturn(fields []Field) bool {
	for _, f := range fields {
		if ContainsReturn(f.Type) {
			return true
		}
	}
	return false
}
