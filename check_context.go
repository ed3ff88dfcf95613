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

// CheckContext is a reusable context for checking expressions.
type CheckContext struct {
	table   types.CapTable
	regions *RegionGraph
	ctx     *Context
	// named maps lifetime annotations ('l) to their nodes, per check pass
	named        map[string]Region
	bodies       []*controlFrame
	envStash     []Binding
	experimental bool
	err          error
	invalid      ast.Expr
}

// Create a new type-checking context.
func NewCheckContext() *CheckContext { return &CheckContext{} }

// EnableContinuationRegions opts in to the experimental continuation-lifetime
// annotation ('l ? T). Its inverse laws are unproven; expressions using the
// form are rejected unless this is set.
func (cc *CheckContext) EnableContinuationRegions() { cc.experimental = true }

// Get the error which caused the check to fail.
func (cc *CheckContext) Error() error { return cc.err }

// Get the expression which caused the check to fail.
func (cc *CheckContext) InvalidExpr() ast.Expr { return cc.invalid }

// Check the type of an expression under a capability table.
//
// A checked expression has types, capabilities and lifetime nodes assigned
// throughout; a failed check reports one structured Diagnostic and assigns
// nothing. Failures in one expression never poison the context for the next:
// all per-pass state is reset on entry.
func (cc *CheckContext) Check(table types.CapTable, root ast.Expr) (types.Type, error) {
	cc.table = table
	cc.regions = NewRegionGraph()
	cc.ctx = NewContext()
	cc.named = make(map[string]Region)
	cc.bodies = cc.bodies[:0]
	cc.envStash = cc.envStash[:0]
	cc.err, cc.invalid = nil, nil

	cc.pushBody(cc.regions.Next())
	t, _, err := cc.check(root)
	cc.popBody()
	if err != nil {
		cc.err = err
		return nil, err
	}
	return t, nil
}

// Check several independent top-level expressions, returning one error slot
// per expression. A failing expression never blocks the rest: each gets a
// fresh pass. Error and InvalidExpr reflect the last failing expression.
func (cc *CheckContext) CheckAll(table types.CapTable, roots []ast.Expr) []error {
	errs := make([]error, len(roots))
	var lastErr error
	var lastInvalid ast.Expr
	for i, root := range roots {
		if _, err := cc.Check(table, root); err != nil {
			errs[i] = err
			lastErr, lastInvalid = err, cc.invalid
		}
	}
	cc.err, cc.invalid = lastErr, lastInvalid
	return errs
}

// Regions returns the lifetime graph built during the last check pass.
func (cc *CheckContext) Regions() *RegionGraph { return cc.regions }

// namedRegion resolves a lifetime annotation, creating its node on first use.
func (cc *CheckContext) namedRegion(name string) Region {
	if r, ok := cc.named[name]; ok {
		return r
	}
	r := cc.regions.NewRegion()
	cc.named[name] = r
	return r
}

// stash a binding for name, and return the number of bindings stashed
func (cc *CheckContext) stash(name string) int {
	if b, ok := cc.ctx.Lookup(name); ok {
		cc.envStash = append(cc.envStash, b)
		return 1
	}
	return 0
}

// unstash bindings, restoring the shadowed bindings
func (cc *CheckContext) unstash(count int) {
	if count <= 0 {
		return
	}
	stash := cc.envStash
	unstashed := 0
	for i := len(stash) - 1; unstashed < count && i >= 0; i, unstashed = i-1, unstashed+1 {
		cc.ctx.Restore(stash[i])
	}
	cc.envStash = cc.envStash[:len(stash)-unstashed]
}
