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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polar-lang/polar/ast"
	"github.com/polar-lang/polar/types"
)

func intStrVariant() *types.Variant {
	return &types.Variant{Cases: []types.Field{{Name: "a", Type: intT}, {Name: "b", Type: strT}}}
}

func TestDualTypeConstructors(t *testing.T) {
	co := CoroutineOf(intT, strT)
	require.Equal(t, types.Negative, co.Polarity())
	require.True(t, types.Equal(co.Yields[0].Type, &types.Return{Inner: intT}))
	require.True(t, types.Equal(co.Yields[1].Type, strT))

	vt := intStrVariant()
	ch := ChoiceOf(vt)
	require.Len(t, ch.Cases, 2)
	for i, c := range ch.Cases {
		require.Equal(t, vt.Cases[i].Name, c.Name)
		nf := c.Type.(*types.NegFunc)
		require.True(t, types.Equal(nf.Param, vt.Cases[i].Type))
		require.True(t, types.Equal(nf.Result, types.NoReturn{}))
	}

	k := ContOf(vt)
	require.True(t, types.Equal(k.Param, vt))
	require.True(t, types.Equal(k.Result, types.NoReturn{}))
}

func TestFnToCoroutineTyping(t *testing.T) {
	identity := &ast.Func{ArgName: "x", ArgType: intT, Body: va("x")}
	typ, err := NewCheckContext().Check(testTable(t), FnToCoroutine(identity, intT, intT))
	require.NoError(t, err)
	require.True(t, types.Equal(typ, CoroutineOf(intT, intT)),
		"expected %s, got %s", types.TypeString(CoroutineOf(intT, intT)), types.TypeString(typ))
}

func TestCoroutineFnRoundTrip(t *testing.T) {
	// a function desugared into a coroutine and back computes the same result
	identity := &ast.Func{ArgName: "x", ArgType: intT, Body: va("x")}
	g := CoroutineToFn(FnToCoroutine(identity, intT, intT), intT, intT)
	requireLit(t, checkAndEval(t, &ast.Call{Func: g, Arg: lit("7", "Int")}), "7")
}

func TestCoroutineFnRoundTripLinear(t *testing.T) {
	// the round trip preserves linear payloads: a File passes through intact
	identity := &ast.Func{ArgName: "x", ArgType: fileT, Body: va("x")}
	g := CoroutineToFn(FnToCoroutine(identity, fileT, fileT), fileT, fileT)
	requireLit(t, checkAndEval(t, &ast.Call{Func: g, Arg: lit("handle", "File")}), "handle")
}

// doneCont is a continuation of variant[a: Int, b: Str] that resumes "done"
// with the Int payload, or 0 for the Str case.
func doneCont(vt *types.Variant) ast.Expr {
	return &ast.Func{ArgName: "v", ArgType: vt, Body: &ast.Match{
		Value: va("v"),
		Cases: []ast.MatchCase{
			{Label: "a", Var: "x", Value: &ast.Invoke{Cont: va("done"), Value: va("x")}},
			{Label: "b", Var: "y", Value: &ast.Invoke{Cont: va("done"), Value: lit("0", "Int")}},
		},
	}}
}

func TestContChoiceRoundTrip(t *testing.T) {
	// continuation -> choice -> continuation: feeding the round-tripped
	// continuation a tagged value reaches the original resume point
	vt := intStrVariant()
	root := &ast.CallCC{
		Var: "done", ReturnType: intT,
		Body: &ast.Call{
			Func: ChoiceToCont(ContToChoice(doneCont(vt), vt), vt),
			Arg:  &ast.VariantLit{Label: "a", Value: lit("42", "Int"), VariantType: vt},
		},
	}
	requireLit(t, checkAndEval(t, root), "42")
}

func TestChoiceContRoundTrip(t *testing.T) {
	// choice -> continuation -> choice: selecting a case of the round-tripped
	// choice runs the original case
	vt := intStrVariant()
	original := &ast.ChoiceLit{Cases: []ast.LabelValue{
		{Label: "a", Value: &ast.Func{ArgName: "x", ArgType: intT,
			Body: &ast.Invoke{Cont: va("done"), Value: va("x")}}},
		{Label: "b", Value: &ast.Func{ArgName: "y", ArgType: strT,
			Body: &ast.Invoke{Cont: va("done"), Value: lit("0", "Int")}}},
	}}
	root := &ast.CallCC{
		Var: "done", ReturnType: intT,
		Body: &ast.Call{
			Func: &ast.ChoiceCall{Value: ContToChoice(ChoiceToCont(original, vt), vt), Label: "a"},
			Arg:  lit("42", "Int"),
		},
	}
	requireLit(t, checkAndEval(t, root), "42")
}

func TestContToChoiceConsumesUniformly(t *testing.T) {
	// every case of the dual choice consumes the one continuation, so the
	// construction checks even though the continuation is strictly linear
	vt := intStrVariant()
	root := &ast.CallCC{
		Var: "done", ReturnType: intT,
		Body: &ast.Call{
			Func: &ast.ChoiceCall{Value: ContToChoice(doneCont(vt), vt), Label: "b"},
			Arg:  lit("ignored", "Str"),
		},
	}
	requireLit(t, checkAndEval(t, root), "0")
}
