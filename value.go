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

package polar

import (
	"github.com/benbjohnson/immutable"
	"github.com/polar-lang/polar/ast"
	"github.com/polar-lang/polar/types"
)

// Value is the base for all evaluator results.
type Value interface {
	// Name of the kind of the value.
	ValueName() string
}

var (
	_ Value = (*LitVal)(nil)
	_ Value = (*StructVal)(nil)
	_ Value = (*VariantVal)(nil)
	_ Value = (*ClosureVal)(nil)
	_ Value = (*ChoiceVal)(nil)
	_ Value = (*CoroutineVal)(nil)
	_ Value = (*ContVal)(nil)
)

// LitVal is a base-type literal value.
type LitVal struct {
	Syntax   string
	TypeName string
}

// "Literal"
func (v *LitVal) ValueName() string { return "Literal" }

// Paired name and value
type NamedValue struct {
	Name  string
	Value Value
}

// StructVal holds one value per field, in declaration order.
type StructVal struct {
	Fields []NamedValue
}

// "Struct"
func (v *StructVal) ValueName() string { return "Struct" }

// Field returns the value of the named field.
func (v *StructVal) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// VariantVal is one tagged payload.
type VariantVal struct {
	Label string
	Value Value
}

// "Variant"
func (v *VariantVal) ValueName() string { return "Variant" }

// ClosureVal is a linear closure; checked code applies it at most once.
type ClosureVal struct {
	ArgName string
	Body    ast.Expr
	Env     *Env
}

// "Closure"
func (v *ClosureVal) ValueName() string { return "Closure" }

// ChoiceVal holds one lazy thunk per case. Selecting any case spends the
// whole value; unselected thunks are never evaluated.
type ChoiceVal struct {
	Cases []ast.LabelValue
	Env   *Env
	used  bool
}

// "Choice"
func (v *ChoiceVal) ValueName() string { return "Choice" }

// CoroutineVal is a suspended coroutine body awaiting its continue site.
type CoroutineVal struct {
	Yields []types.Field
	Body   ast.Expr
	Env    *Env
	used   bool
}

// "Coroutine"
func (v *CoroutineVal) ValueName() string { return "Coroutine" }

// ContVal is a one-shot resume point: a captured machine frame. Invoking it
// a second time is a checker defect surfaced by the evaluator.
type ContVal struct {
	frame frame
	used  bool
}

// "Continuation"
func (v *ContVal) ValueName() string { return "Continuation" }

var emptyEnv = immutable.NewMap(nil)

// Env is a persistent evaluation environment; bind returns a derived
// environment, so captured environments are never mutated under a closure.
type Env struct {
	m *immutable.Map
}

func NewEnv() *Env { return &Env{emptyEnv} }

func (e *Env) bind(name string, v Value) *Env { return &Env{e.m.Set(name, v)} }

func (e *Env) lookup(name string) (Value, bool) {
	v, ok := e.m.Get(name)
	if !ok {
		return nil, false
	}
	return v.(Value), true
}
