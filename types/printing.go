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

import (
	"strings"
)

// TypeString returns a string representation of a Type.
func TypeString(t Type) string {
	var sb strings.Builder
	typeString(&sb, false, t)
	return sb.String()
}

func typeString(sb *strings.Builder, simple bool, t Type) {
	switch t := t.(type) {
	case *Const:
		sb.WriteString(t.Name)

	case *Struct:
		fieldsString(sb, "struct{", "}", t.Fields)

	case *Variant:
		fieldsString(sb, "variant[", "]", t.Cases)

	case *Choice:
		fieldsString(sb, "choice[", "]", t.Cases)

	case *Coroutine:
		fieldsString(sb, "coroutine(", ")", t.Yields)

	case *NegFunc:
		if simple {
			sb.WriteByte('(')
		}
		typeString(sb, true, t.Param)
		sb.WriteString(" -> ")
		typeString(sb, false, t.Result)
		if simple {
			sb.WriteByte(')')
		}

	case *Return:
		sb.WriteString("Return<")
		typeString(sb, false, t.Inner)
		sb.WriteByte('>')

	case NoReturn:
		sb.WriteString("noreturn")

	case *Asserted:
		typeString(sb, true, t.Inner)
		sb.WriteString(" + 'static")

	case nil:
		sb.WriteString("<nil>")

	default:
		sb.WriteString("<unknown " + t.TypeName() + ">")
	}
}

func fieldsString(sb *strings.Builder, open, close string, fields []Field) {
	sb.WriteString(open)
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		typeString(sb, false, f.Type)
	}
	sb.WriteString(close)
}
