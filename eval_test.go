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

// checkAndEval runs an expression through the checker, then the evaluator.
func checkAndEval(t *testing.T, root ast.Expr) Value {
	t.Helper()
	table := testTable(t)
	_, err := NewCheckContext().Check(table, root)
	require.NoError(t, err, "check %s", ast.ExprString(root))
	v, err := NewEvaluator(table).Eval(root)
	require.NoError(t, err, "eval %s", ast.ExprString(root))
	return v
}

func requireLit(t *testing.T, v Value, syntax string) {
	t.Helper()
	lv, ok := v.(*LitVal)
	require.True(t, ok, "expected a literal, got %s", v.ValueName())
	require.Equal(t, syntax, lv.Syntax)
}

func TestEvalBasics(t *testing.T) {
	requireLit(t, checkAndEval(t, lit("5", "Int")), "5")
	requireLit(t, checkAndEval(t, &ast.Let{Var: "n", Value: lit("7", "Int"), Body: va("n")}), "7")
	requireLit(t, checkAndEval(t, &ast.Seq{Exprs: []ast.Expr{lit("1", "Int"), lit("2", "Int")}}), "2")
	requireLit(t, checkAndEval(t, &ast.Call{
		Func: &ast.Func{ArgName: "x", ArgType: intT, Body: va("x")},
		Arg:  lit("9", "Int"),
	}), "9")
}

func TestEvalStructRoundTrip(t *testing.T) {
	// let s = {p = 1, q = 2} in let {x, y} = s in y
	v := checkAndEval(t, &ast.Let{
		Var: "s",
		Value: &ast.StructLit{Fields: []ast.LabelValue{
			{Label: "p", Value: lit("1", "Int")},
			{Label: "q", Value: lit("2", "Int")},
		}},
		Body: &ast.StructMatch{Value: va("s"), Names: []string{"x", "y"}, Body: va("y")},
	})
	requireLit(t, v, "2")
}

func TestEvalMatch(t *testing.T) {
	vt := &types.Variant{Cases: []types.Field{{Name: "a", Type: intT}, {Name: "b", Type: intT}}}
	v := checkAndEval(t, &ast.Match{
		Value: &ast.VariantLit{Label: "b", Value: lit("7", "Int"), VariantType: vt},
		Cases: []ast.MatchCase{
			{Label: "a", Var: "x", Value: va("x")},
			{Label: "b", Var: "y", Value: va("y")},
		},
	})
	requireLit(t, v, "7")
}

func TestScenarioAChoice(t *testing.T) {
	choice := &ast.ChoiceLit{Cases: []ast.LabelValue{
		{Label: "c1", Value: lit("5", "Int")},
		{Label: "c2", Value: lit("x", "Str")},
	}}
	v := checkAndEval(t, &ast.Let{Var: "v", Value: choice, Body: &ast.ChoiceCall{Value: va("v"), Label: "c1"}})
	requireLit(t, v, "5")
}

func TestChoiceLaziness(t *testing.T) {
	// unselected branches are never evaluated: the c2 thunk would fail on an
	// unbound variable if it ran
	root := &ast.Let{
		Var: "v",
		Value: &ast.ChoiceLit{Cases: []ast.LabelValue{
			{Label: "c1", Value: lit("5", "Int")},
			{Label: "c2", Value: va("boom")},
		}},
		Body: &ast.ChoiceCall{Value: va("v"), Label: "c1"},
	}
	v, err := NewEvaluator(testTable(t)).Eval(root)
	require.NoError(t, err)
	requireLit(t, v, "5")
}

func TestChoiceSpentAtRuntime(t *testing.T) {
	// the checker rejects this program; fed to the evaluator directly, the
	// second elimination is a checker defect, not a silent re-run
	root := &ast.Let{
		Var:   "v",
		Value: &ast.ChoiceLit{Cases: []ast.LabelValue{{Label: "c1", Value: lit("5", "Int")}}},
		Body: &ast.Seq{Exprs: []ast.Expr{
			&ast.ChoiceCall{Value: va("v"), Label: "c1"},
			&ast.ChoiceCall{Value: va("v"), Label: "c1"},
		}},
	}
	_, err := NewEvaluator(testTable(t)).Eval(root)
	var defect *CheckerDefect
	require.ErrorAs(t, err, &defect)
}

func TestScenarioBCoroutine(t *testing.T) {
	// coroutine(send: Return<Int>, receive: Int) destructured via continue;
	// both branches run and the receive branch carries 10
	identity := &ast.Func{ArgName: "x", ArgType: intT, Body: va("x")}
	v := checkAndEval(t, &ast.CallCC{
		Var: "done", ReturnType: intT,
		Body: &ast.ContinueExpr{
			Value: FnToCoroutine(identity, intT, intT),
			Branches: []ast.ContinueBranch{
				{Var: "send", Body: &ast.Invoke{Cont: va("send"), Value: lit("10", "Int")}},
				{Var: "received", Body: &ast.Invoke{Cont: va("done"), Value: va("received")}},
			},
		},
	})
	requireLit(t, v, "10")
}

func TestContinueThreadsLinearValue(t *testing.T) {
	// a linear File travels into the coroutine through one branch and back
	// out through the other
	v := checkAndEval(t, &ast.Let{Var: "f", Value: lit("handle", "File"), Body: &ast.CallCC{
		Var: "out", ReturnType: fileT,
		Body: &ast.Let{Var: "c", Value: identityCoroutine(), Body: &ast.ContinueExpr{
			Value: va("c"),
			Branches: []ast.ContinueBranch{
				{Var: "k", Body: &ast.Invoke{Cont: va("k"), Value: va("f")}},
				{Var: "d", Body: &ast.Invoke{Cont: va("out"), Value: va("d")}},
			},
		}},
	}})
	requireLit(t, v, "handle")
}

func TestCallCCResume(t *testing.T) {
	requireLit(t, checkAndEval(t, &ast.CallCC{
		Var: "k", ReturnType: intT,
		Body: &ast.Invoke{Cont: va("k"), Value: lit("42", "Int")},
	}), "42")
}

func TestFatalUnwind(t *testing.T) {
	// a control transfer out of a half-built struct discards the fields
	// already evaluated; a bare File declines disposal
	build := func(typeName string) ast.Expr {
		return &ast.CallCC{
			Var: "done", ReturnType: intT,
			Body: &ast.StructLit{Fields: []ast.LabelValue{
				{Label: "a", Value: lit("held", typeName)},
				{Label: "b", Value: &ast.Invoke{Cont: va("done"), Value: lit("5", "Int")}},
			}},
		}
	}
	_, err := NewEvaluator(testTable(t)).Eval(build("File"))
	var fatal *FatalUnwindError
	require.ErrorAs(t, err, &fatal)

	// Sock carries the unwind marker, so the same discard is permitted
	v, err := NewEvaluator(testTable(t)).Eval(build("Sock"))
	require.NoError(t, err)
	requireLit(t, v, "5")
}

func TestContinuationOneShotAtRuntime(t *testing.T) {
	// invoking a continuation twice is a checker defect surfaced by the
	// evaluator: the resumed continuation smuggles itself out as the resume
	// value, and the second invoke finds it spent
	root := &ast.Let{
		Var:   "k",
		Value: &ast.CallCC{Var: "k", ReturnType: intT, Body: &ast.Invoke{Cont: va("k"), Value: va("k")}},
		Body:  &ast.Invoke{Cont: va("k"), Value: lit("2", "Int")},
	}
	_, err := NewEvaluator(testTable(t)).Eval(root)
	var defect *CheckerDefect
	require.ErrorAs(t, err, &defect)
}
