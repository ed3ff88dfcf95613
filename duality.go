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
	"github.com/polar-lang/polar/ast"
	"github.com/polar-lang/polar/types"
)

// Duality builders: coroutines are the negative duals of structs, choices the
// negative duals of variants, and coroutine(arg: Return<A>, result: B) is
// isomorphic to the plain negative function A -> B. Each builder desugars one
// side of an isomorphism into IR for the other; round-tripping through a pair
// of builders is observationally the identity.

// CoroutineOf returns the coroutine type isomorphic to a -> b.
func CoroutineOf(a, b types.Type) *types.Coroutine {
	return &types.Coroutine{Yields: []types.Field{
		{Name: "arg", Type: &types.Return{Inner: a}},
		{Name: "result", Type: b},
	}}
}

// ChoiceOf returns the choice type dual to a continuation of vt: one case per
// variant case, each accepting that case's payload and transferring control.
func ChoiceOf(vt *types.Variant) *types.Choice {
	cases := make([]types.Field, len(vt.Cases))
	for i, c := range vt.Cases {
		cases[i] = types.Field{Name: c.Name, Type: &types.NegFunc{Param: c.Type, Result: types.NoReturn{}}}
	}
	return &types.Choice{Cases: cases}
}

// ContOf returns the continuation type of a variant, encoded as vt -> noreturn.
func ContOf(vt *types.Variant) *types.NegFunc {
	return &types.NegFunc{Param: vt, Result: types.NoReturn{}}
}

// FnToCoroutine desugars an expression of type a -> b into a coroutine that
// captures its argument at the first yield point and delivers the function's
// result at the second.
func FnToCoroutine(f ast.Expr, a, b types.Type) ast.Expr {
	return &ast.CoroutineLit{
		Yields: CoroutineOf(a, b).Yields,
		Body: &ast.Let{
			Var:   "fn",
			Value: f,
			Body: &ast.Yield{
				Name:  "result",
				Value: &ast.Call{Func: &ast.Var{Name: "fn"}, Arg: &ast.Yield{Name: "arg"}},
			},
		},
	}
}

// CoroutineToFn desugars a coroutine(arg: Return<A>, result: B) expression
// back into a function a -> b: the argument resumes the coroutine's first
// yield and the delivered result resumes the caller.
func CoroutineToFn(co ast.Expr, a, b types.Type) ast.Expr {
	return &ast.Func{
		ArgName: "x",
		ArgType: a,
		Body: &ast.CallCC{
			Var:        "ret",
			ReturnType: b,
			Body: &ast.Let{
				Var:   "co",
				Value: co,
				Body: &ast.ContinueExpr{
					Value: &ast.Var{Name: "co"},
					Branches: []ast.ContinueBranch{
						{Var: "k", Body: &ast.Invoke{Cont: &ast.Var{Name: "k"}, Value: &ast.Var{Name: "x"}}},
						{Var: "r", Body: &ast.Invoke{Cont: &ast.Var{Name: "ret"}, Value: &ast.Var{Name: "r"}}},
					},
				},
			},
		},
	}
}

// ContToChoice desugars a continuation of a variant into the dual choice:
// selecting a case accepts that case's payload and feeds the tagged value to
// the continuation. Every case consumes the same continuation, so the
// alternate-world rule is satisfied.
func ContToChoice(k ast.Expr, vt *types.Variant) ast.Expr {
	cases := make([]ast.LabelValue, len(vt.Cases))
	for i, c := range vt.Cases {
		cases[i] = ast.LabelValue{Label: c.Name, Value: &ast.Func{
			ArgName: "x",
			ArgType: c.Type,
			Body: &ast.Call{
				Func: &ast.Var{Name: "k"},
				Arg:  &ast.VariantLit{Label: c.Name, Value: &ast.Var{Name: "x"}, VariantType: vt},
			},
		}}
	}
	return &ast.Let{Var: "k", Value: k, Body: &ast.ChoiceLit{Cases: cases}}
}

// ChoiceToCont desugars a choice dual to vt back into a continuation of vt:
// the tag selects the case and the payload is fed to it.
func ChoiceToCont(c ast.Expr, vt *types.Variant) ast.Expr {
	mcases := make([]ast.MatchCase, len(vt.Cases))
	for i, cs := range vt.Cases {
		mcases[i] = ast.MatchCase{Label: cs.Name, Var: "x", Value: &ast.Call{
			Func: &ast.ChoiceCall{Value: &ast.Var{Name: "c"}, Label: cs.Name},
			Arg:  &ast.Var{Name: "x"},
		}}
	}
	return &ast.Let{Var: "c", Value: c, Body: &ast.Func{
		ArgName: "v",
		ArgType: vt,
		Body:    &ast.Match{Value: &ast.Var{Name: "v"}, Cases: mcases},
	}}
}
