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

package ast

import (
	"github.com/polar-lang/polar/types"
)

// Expr is the base for all expressions in the pre-elaborated IR.
type Expr interface {
	// Name of the syntax-type of the expression.
	ExprName() string
	// Type returns the checked type of an expression. Expression types are only available after checking.
	Type() types.Type
}

var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*Var)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*Seq)(nil)
	_ Expr = (*Func)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*StructLit)(nil)
	_ Expr = (*StructMatch)(nil)
	_ Expr = (*VariantLit)(nil)
	_ Expr = (*Match)(nil)
	_ Expr = (*ChoiceLit)(nil)
	_ Expr = (*ChoiceCall)(nil)
	_ Expr = (*CoroutineLit)(nil)
	_ Expr = (*Yield)(nil)
	_ Expr = (*ContinueExpr)(nil)
	_ Expr = (*Invoke)(nil)
	_ Expr = (*CallCC)(nil)
	_ Expr = (*RegionAssert)(nil)
	_ Expr = (*OrderHint)(nil)
)

// Literal value of a base type: `5 : Int`
type Literal struct {
	// Syntax is a string representation of the literal value.
	Syntax string
	// TypeName names the base type of the literal in the capability table.
	TypeName string
	inferred types.Type
}

// Returns the syntax of e.
func (e *Literal) ExprName() string { return e.Syntax }

// Get the checked (or assigned) type of e.
func (e *Literal) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *Literal) SetType(t types.Type) { e.inferred = t }

// Variable occurrence. Occurrences consume the binding unless its type is Copyable.
type Var struct {
	Name     string
	inferred types.Type
}

// "Var"
func (e *Var) ExprName() string { return "Var" }

// Get the checked (or assigned) type of e.
func (e *Var) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *Var) SetType(t types.Type) { e.inferred = t }

// Let-binding: `let a = 1 in e`
//
// Region optionally names the binding's lifetime node: `let a : 'l ! T = ...`.
// Bindings without an annotation take the lifetime of their value.
type Let struct {
	Var    string
	Region string
	Value  Expr
	Body   Expr
}

// "Let"
func (e *Let) ExprName() string { return "Let" }

// Get the checked (or assigned) type of e.
func (e *Let) Type() types.Type { return e.Body.Type() }

// Sequencing: `e1; e2; ...; en`. Non-final expressions must be droppable
// and must not transfer control.
type Seq struct {
	Exprs []Expr
}

// "Seq"
func (e *Seq) ExprName() string { return "Seq" }

// Get the checked (or assigned) type of e.
func (e *Seq) Type() types.Type {
	if len(e.Exprs) == 0 {
		return nil
	}
	return e.Exprs[len(e.Exprs)-1].Type()
}

// Negative function literal: `fn (x : T) -> body`. Construction consumes
// the captured bindings; the closure is then itself a linear resource.
type Func struct {
	ArgName  string
	ArgType  types.Type
	Body     Expr
	inferred *types.NegFunc
}

// "Func"
func (e *Func) ExprName() string { return "Func" }

// Get the checked (or assigned) type of e.
func (e *Func) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *Func) SetType(ft *types.NegFunc) { e.inferred = ft }

// Application: `f(x)`
type Call struct {
	Func     Expr
	Arg      Expr
	inferred types.Type
}

// "Call"
func (e *Call) ExprName() string { return "Call" }

// Get the checked (or assigned) type of e.
func (e *Call) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *Call) SetType(t types.Type) { e.inferred = t }

// Paired label and value
type LabelValue struct {
	Label string
	Value Expr
}

// Struct construction: `{a = 1, b = 2}`
type StructLit struct {
	Fields   []LabelValue
	inferred *types.Struct
}

// "StructLit"
func (e *StructLit) ExprName() string { return "StructLit" }

// Get the checked (or assigned) type of e.
func (e *StructLit) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *StructLit) SetType(st *types.Struct) { e.inferred = st }

// Struct destructuring: `let {a, b} = v in body`. Names bind positionally
// to the struct's fields; all fields are bound.
type StructMatch struct {
	Value Expr
	Names []string
	Body  Expr
}

// "StructMatch"
func (e *StructMatch) ExprName() string { return "StructMatch" }

// Get the checked (or assigned) type of e.
func (e *StructMatch) Type() types.Type { return e.Body.Type() }

// Tagged variant construction: `:X a`. The full variant type is supplied
// by the front end; the checker verifies the payload against it.
type VariantLit struct {
	Label       string
	Value       Expr
	VariantType *types.Variant
}

// "VariantLit"
func (e *VariantLit) ExprName() string { return "VariantLit" }

// Get the checked (or assigned) type of e.
func (e *VariantLit) Type() types.Type { return e.VariantType }

// Pattern-matching case expression over variants:
//
//	match e {
//	    :X a -> expr1
//	  | :Y b -> expr2
//	}
type Match struct {
	Value    Expr
	Cases    []MatchCase
	inferred types.Type
}

// "Match"
func (e *Match) ExprName() string { return "Match" }

// Get the checked (or assigned) type of e.
func (e *Match) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *Match) SetType(t types.Type) { e.inferred = t }

// Case expression within Match: `:X a -> expr1`
type MatchCase struct {
	Label string
	Var   string
	Value Expr
}

// Choice construction: `choice{c1: e1, c2: e2}`. Branches are checked in
// alternate worlds and evaluated lazily; exactly one ever runs.
type ChoiceLit struct {
	Cases    []LabelValue
	inferred *types.Choice
}

// "ChoiceLit"
func (e *ChoiceLit) ExprName() string { return "ChoiceLit" }

// Get the checked (or assigned) type of e.
func (e *ChoiceLit) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *ChoiceLit) SetType(ct *types.Choice) { e.inferred = ct }

// Choice elimination: `v.c1()`. Consumes the whole choice value.
type ChoiceCall struct {
	Value    Expr
	Label    string
	inferred types.Type
}

// "ChoiceCall"
func (e *ChoiceCall) ExprName() string { return "ChoiceCall" }

// Get the checked (or assigned) type of e.
func (e *ChoiceCall) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *ChoiceCall) SetType(t types.Type) { e.inferred = t }

// Coroutine construction: `coroutine(send: Return<Int>, receive: Int) { body }`.
// The body performs every declared yield in order and must not fall through.
type CoroutineLit struct {
	Yields []types.Field
	Body   Expr
}

// "CoroutineLit"
func (e *CoroutineLit) ExprName() string { return "CoroutineLit" }

// Get the checked (or assigned) type of e.
func (e *CoroutineLit) Type() types.Type { return &types.Coroutine{Yields: e.Yields} }

// Yield inside a coroutine body. For a yield point of type Return<X> the
// Value is nil: the yield captures the body's continuation, hands it to the
// matching continue branch and later evaluates to the resumed X. For a plain
// yield point the Value is delivered to the branch and the yield does not
// return.
type Yield struct {
	Name     string
	Value    Expr
	inferred types.Type
}

// "Yield"
func (e *Yield) ExprName() string { return "Yield" }

// Get the checked (or assigned) type of e.
func (e *Yield) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *Yield) SetType(t types.Type) { e.inferred = t }

// Continuation-consuming branch of a continue destructuring. Branch names
// are insignificant; branch position matches the coroutine's yield order.
type ContinueBranch struct {
	Var  string
	Body Expr
}

// Coroutine destructuring: `continue e { send => b1 | received => b2 }`.
// Every branch eventually runs; sibling branches consume disjoint resources;
// each branch terminates in noreturn, so the whole expression does too.
type ContinueExpr struct {
	Value    Expr
	Branches []ContinueBranch
}

// "ContinueExpr"
func (e *ContinueExpr) ExprName() string { return "ContinueExpr" }

// Get the checked (or assigned) type of e.
func (e *ContinueExpr) Type() types.Type { return types.NoReturn{} }

// Continuation invocation: `invoke k v`. Consumes the continuation, requires
// an otherwise-empty linear context, and never yields to its own continuation.
type Invoke struct {
	Cont  Expr
	Value Expr
}

// "Invoke"
func (e *Invoke) ExprName() string { return "Invoke" }

// Get the checked (or assigned) type of e.
func (e *Invoke) Type() types.Type { return types.NoReturn{} }

// call_with_current_continuation: binds a fresh Return<T> to Var inside Body.
// The body must consume the continuation exactly once on every path and must
// not fall through; the whole expression evaluates to the resumed T.
type CallCC struct {
	Var        string
	ReturnType types.Type
	Body       Expr
}

// "CallCC"
func (e *CallCC) ExprName() string { return "CallCC" }

// Get the checked (or assigned) type of e.
func (e *CallCC) Type() types.Type { return e.ReturnType }

// Semistatic assertion: `e + 'static`. Admitted only when e is built purely
// from static inputs. With Region set ("'l ? T") the assertion names a
// continuation lifetime; this form is experimental and disabled by default.
type RegionAssert struct {
	Value  Expr
	Region string
}

// "RegionAssert"
func (e *RegionAssert) ExprName() string { return "RegionAssert" }

// Get the checked (or assigned) type of e.
func (e *RegionAssert) Type() types.Type { return e.Value.Type() }

// Ordering annotation: `'x * 'y in body` requires bindings constrained by 'x
// to be consumed before bindings constrained by 'y.
type OrderHint struct {
	Before string
	After  string
	Body   Expr
}

// "OrderHint"
func (e *OrderHint) ExprName() string { return "OrderHint" }

// Get the checked (or assigned) type of e.
func (e *OrderHint) Type() types.Type { return e.Body.Type() }
