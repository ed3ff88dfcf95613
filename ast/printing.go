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
	"strings"

	"github.com/polar-lang/polar/types"
)

// ExprString returns a string representation of an expression.
func ExprString(e Expr) string {
	var sb strings.Builder
	exprString(&sb, false, e)
	return sb.String()
}

func exprString(sb *strings.Builder, simple bool, e Expr) {
	switch et := e.(type) {
	case *Literal:
		sb.WriteString(et.Syntax)

	case *Var:
		sb.WriteString(et.Name)

	case *Let:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("let ")
		sb.WriteString(et.Var)
		if et.Region != "" {
			sb.WriteString(" : '")
			sb.WriteString(et.Region)
			sb.WriteString(" !")
		}
		sb.WriteString(" = ")
		exprString(sb, false, et.Value)
		sb.WriteString(" in ")
		exprString(sb, false, et.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *Seq:
		if simple {
			sb.WriteByte('(')
		}
		for i, sub := range et.Exprs {
			if i > 0 {
				sb.WriteString("; ")
			}
			exprString(sb, false, sub)
		}
		if simple {
			sb.WriteByte(')')
		}

	case *Func:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("fn (")
		sb.WriteString(et.ArgName)
		sb.WriteString(" : ")
		sb.WriteString(types.TypeString(et.ArgType))
		sb.WriteString(") -> ")
		exprString(sb, false, et.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *Call:
		exprString(sb, true, et.Func)
		sb.WriteByte('(')
		exprString(sb, false, et.Arg)
		sb.WriteByte(')')

	case *StructLit:
		sb.WriteByte('{')
		for i, v := range et.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v.Label)
			sb.WriteString(" = ")
			exprString(sb, false, v.Value)
		}
		sb.WriteByte('}')

	case *StructMatch:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("let {")
		sb.WriteString(strings.Join(et.Names, ", "))
		sb.WriteString("} = ")
		exprString(sb, false, et.Value)
		sb.WriteString(" in ")
		exprString(sb, false, et.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *VariantLit:
		sb.WriteByte(':')
		sb.WriteString(et.Label)
		sb.WriteByte(' ')
		exprString(sb, true, et.Value)

	case *Match:
		sb.WriteString("match ")
		exprString(sb, true, et.Value)
		sb.WriteString(" {")
		for i, c := range et.Cases {
			if i > 0 {
				sb.WriteString(" |")
			}
			sb.WriteString(" :")
			sb.WriteString(c.Label)
			sb.WriteByte(' ')
			sb.WriteString(c.Var)
			sb.WriteString(" -> ")
			exprString(sb, false, c.Value)
		}
		sb.WriteString(" }")

	case *ChoiceLit:
		sb.WriteString("choice{")
		for i, v := range et.Cases {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v.Label)
			sb.WriteString(": ")
			exprString(sb, false, v.Value)
		}
		sb.WriteByte('}')

	case *ChoiceCall:
		exprString(sb, true, et.Value)
		sb.WriteByte('.')
		sb.WriteString(et.Label)
		sb.WriteString("()")

	case *CoroutineLit:
		sb.WriteString("coroutine(")
		for i, y := range et.Yields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(y.Name)
			sb.WriteString(": ")
			sb.WriteString(types.TypeString(y.Type))
		}
		sb.WriteString(") { ")
		exprString(sb, false, et.Body)
		sb.WriteString(" }")

	case *Yield:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("yield ")
		sb.WriteString(et.Name)
		if et.Value != nil {
			sb.WriteByte(' ')
			exprString(sb, true, et.Value)
		}
		if simple {
			sb.WriteByte(')')
		}

	case *ContinueExpr:
		sb.WriteString("continue ")
		exprString(sb, true, et.Value)
		sb.WriteString(" {")
		for i, b := range et.Branches {
			if i > 0 {
				sb.WriteString(" |")
			}
			sb.WriteByte(' ')
			sb.WriteString(b.Var)
			sb.WriteString(" => ")
			exprString(sb, false, b.Body)
		}
		sb.WriteString(" }")

	case *Invoke:
		sb.WriteString("invoke ")
		exprString(sb, true, et.Cont)
		sb.WriteByte(' ')
		exprString(sb, true, et.Value)

	case *CallCC:
		sb.WriteString("callcc (")
		sb.WriteString(et.Var)
		sb.WriteString(" : Return<")
		sb.WriteString(types.TypeString(et.ReturnType))
		sb.WriteString(">) -> ")
		exprString(sb, false, et.Body)

	case *RegionAssert:
		exprString(sb, true, et.Value)
		if et.Region != "" {
			sb.WriteString(" ? '")
			sb.WriteString(et.Region)
		} else {
			sb.WriteString(" + 'static")
		}

	case *OrderHint:
		sb.WriteByte('\'')
		sb.WriteString(et.Before)
		sb.WriteString(" * '")
		sb.WriteString(et.After)
		sb.WriteString(" in ")
		exprString(sb, false, et.Body)

	case nil:
		sb.WriteString("<nil>")

	default:
		sb.WriteString("<unknown " + e.ExprName() + ">")
	}
}
