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
)

// DiagKind enumerates the static failure modes reported by the checker.
// All are check-time failures; a function whose body reports one never
// produces annotated IR.
type DiagKind int8

const (
	TypeMismatch DiagKind = iota
	UnusedLinearResource
	UseAfterConsume
	DuplicateBindingMerge
	ResourceLeakAtControlTransfer
	UseBeforeDependency
	ContinuationEscape
	BranchResourceConflict
)

func (k DiagKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case UnusedLinearResource:
		return "UnusedLinearResource"
	case UseAfterConsume:
		return "UseAfterConsume"
	case DuplicateBindingMerge:
		return "DuplicateBindingMerge"
	case ResourceLeakAtControlTransfer:
		return "ResourceLeakAtControlTransfer"
	case UseBeforeDependency:
		return "UseBeforeDependency"
	case ContinuationEscape:
		return "ContinuationEscape"
	case BranchResourceConflict:
		return "BranchResourceConflict"
	}
	return "Unknown"
}

// Diagnostic is a structured check-time failure: the violated rule, the
// offending binding (when one exists) and the offending expression.
type Diagnostic struct {
	Kind    DiagKind
	Binding string
	Rule    string
	Expr    ast.Expr
}

func (d *Diagnostic) Error() string {
	msg := d.Kind.String()
	if d.Binding != "" {
		msg += ": " + d.Binding
	}
	if d.Rule != "" {
		msg += " (" + d.Rule + ")"
	}
	return msg
}

// KindOf extracts the diagnostic kind from a checker error.
func KindOf(err error) (DiagKind, bool) {
	d, ok := err.(*Diagnostic)
	if !ok {
		return 0, false
	}
	return d.Kind, true
}

func diag(kind DiagKind, binding, rule string) *Diagnostic {
	return &Diagnostic{Kind: kind, Binding: binding, Rule: rule}
}
