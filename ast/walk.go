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

func WalkExpr(e Expr, f func(Expr)) {
	switch e := e.(type) {
	case *Var, *Literal:
		f(e)

	case *Let:
		f(e)
		WalkExpr(e.Value, f)
		WalkExpr(e.Body, f)

	case *Seq:
		f(e)
		for _, sub := range e.Exprs {
			WalkExpr(sub, f)
		}

	case *Func:
		f(e)
		WalkExpr(e.Body, f)

	case *Call:
		f(e)
		WalkExpr(e.Func, f)
		WalkExpr(e.Arg, f)

	case *StructLit:
		f(e)
		for _, v := range e.Fields {
			WalkExpr(v.Value, f)
		}

	case *StructMatch:
		f(e)
		WalkExpr(e.Value, f)
		WalkExpr(e.Body, f)

	case *VariantLit:
		f(e)
		WalkExpr(e.Value, f)

	case *Match:
		f(e)
		WalkExpr(e.Value, f)
		for _, c := range e.Cases {
			WalkExpr(c.Value, f)
		}

	case *ChoiceLit:
		f(e)
		for _, v := range e.Cases {
			WalkExpr(v.Value, f)
		}

	case *ChoiceCall:
		f(e)
		WalkExpr(e.Value, f)

	case *CoroutineLit:
		f(e)
		WalkExpr(e.Body, f)

	case *Yield:
		f(e)
		if e.Value != nil {
			WalkExpr(e.Value, f)
		}

	case *ContinueExpr:
		f(e)
		WalkExpr(e.Value, f)
		for _, b := range e.Branches {
			WalkExpr(b.Body, f)
		}

	case *Invoke:
		f(e)
		WalkExpr(e.Cont, f)
		WalkExpr(e.Value, f)

	case *CallCC:
		f(e)
		WalkExpr(e.Body, f)

	case *RegionAssert:
		f(e)
		WalkExpr(e.Value, f)

	case *OrderHint:
		f(e)
		WalkExpr(e.Body, f)

	case nil:

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}
