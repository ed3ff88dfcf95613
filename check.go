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
	"sort"

	"github.com/polar-lang/polar/ast"
	"github.com/polar-lang/polar/types"
)

// check wraps checkExpr to record the deepest failing expression.
func (cc *CheckContext) check(e ast.Expr) (types.Type, Region, error) {
	t, r, err := cc.checkExpr(e)
	if err != nil {
		if cc.invalid == nil {
			cc.invalid = e
		}
		if d, ok := err.(*Diagnostic); ok && d.Expr == nil {
			d.Expr = e
		}
		return nil, Static, err
	}
	return t, r, nil
}

// checkExpr performs algorithmic, syntax-directed checking of a single node,
// returning the node's type and lifetime node.
func (cc *CheckContext) checkExpr(e ast.Expr) (types.Type, Region, error) {
	switch e := e.(type) {
	case *ast.Literal:
		t := &types.Const{Name: e.TypeName}
		e.SetType(t)
		return t, Static, nil

	case *ast.Var:
		b, err := cc.ctx.Use(e.Name, Consume, cc.table, cc.regions)
		if err != nil {
			return nil, Static, err
		}
		e.SetType(b.Type)
		return b.Type, b.Region, nil

	case *ast.Let:
		return cc.checkLet(e)

	case *ast.Seq:
		return cc.checkSeq(e)

	case *ast.Func:
		return cc.checkFunc(e)

	case *ast.Call:
		return cc.checkCall(e)

	case *ast.StructLit:
		return cc.checkStruct(e)

	case *ast.StructMatch:
		return cc.checkStructMatch(e)

	case *ast.VariantLit:
		return cc.checkVariant(e)

	case *ast.Match:
		return cc.checkMatch(e)

	case *ast.ChoiceLit:
		return cc.checkChoice(e)

	case *ast.ChoiceCall:
		return cc.checkChoiceCall(e)

	case *ast.CoroutineLit:
		return cc.checkCoroutine(e)

	case *ast.Yield:
		return cc.checkYield(e)

	case *ast.ContinueExpr:
		return cc.checkContinue(e)

	case *ast.Invoke:
		return cc.checkInvoke(e)

	case *ast.CallCC:
		return cc.checkCallCC(e)

	case *ast.RegionAssert:
		return cc.checkRegionAssert(e)

	case *ast.OrderHint:
		before, after := cc.namedRegion(e.Before), cc.namedRegion(e.After)
		if err := cc.regions.AddOrder(before, after); err != nil {
			return nil, Static, diag(TypeMismatch, "", err.Error())
		}
		return cc.check(e.Body)
	}
	panic("unknown expression type: " + e.ExprName())
}

func (cc *CheckContext) checkLet(e *ast.Let) (types.Type, Region, error) {
	tv, rv, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	if isNoReturn(tv) {
		return nil, Static, diag(TypeMismatch, e.Var, "cannot bind a control transfer")
	}
	r := rv
	if e.Region != "" {
		r = cc.namedRegion(e.Region)
	}
	stashed := cc.stash(e.Var)
	cc.ctx.Declare(e.Var, tv, r)
	tb, rb, err := cc.check(e.Body)
	if err != nil {
		return nil, Static, err
	}
	if err := cc.ctx.ScopeExit([]string{e.Var}, cc.table); err != nil {
		return nil, Static, err
	}
	cc.ctx.Remove(e.Var)
	cc.unstash(stashed)
	return tb, rb, nil
}

func (cc *CheckContext) checkSeq(e *ast.Seq) (types.Type, Region, error) {
	if len(e.Exprs) == 0 {
		return nil, Static, diag(TypeMismatch, "", "empty sequence")
	}
	for i, sub := range e.Exprs {
		t, r, err := cc.check(sub)
		if err != nil {
			return nil, Static, err
		}
		if i == len(e.Exprs)-1 {
			return t, r, nil
		}
		if isNoReturn(t) {
			return nil, Static, diag(TypeMismatch, "", "unreachable expression after control transfer")
		}
		if cc.table.Capability(t) == types.StrictLinear {
			return nil, Static, diag(UnusedLinearResource, "", "sequenced expression discards a linear result")
		}
	}
	panic("unreachable")
}

// checkFunc checks a closure construction. Construction consumes the body's
// free bindings; the closure's lifetime node is the meet of theirs, so a
// closure over only static inputs is itself static.
func (cc *CheckContext) checkFunc(e *ast.Func) (types.Type, Region, error) {
	inner, region, err := cc.captureClosure(e.Body, map[string]bool{e.ArgName: true})
	if err != nil {
		return nil, Static, err
	}
	outer := cc.ctx
	cc.ctx = inner
	base := cc.regions.Next()
	cc.pushBody(base)
	defer func() {
		cc.popBody()
		cc.ctx = outer
	}()

	cc.ctx.Declare(e.ArgName, e.ArgType, cc.regions.NewRegion())
	tb, rb, err := cc.check(e.Body)
	if err != nil {
		return nil, Static, err
	}
	if err := cc.closureExit(); err != nil {
		return nil, Static, err
	}
	if types.ContainsReturn(tb) && cc.regions.createdSince(rb, base) {
		return nil, Static, diag(ContinuationEscape, e.ArgName, "continuation escapes its capturing scope")
	}
	ft := &types.NegFunc{Param: e.ArgType, Result: tb}
	e.SetType(ft)
	return ft, region, nil
}

func (cc *CheckContext) checkCall(e *ast.Call) (types.Type, Region, error) {
	tf, rf, err := cc.check(e.Func)
	if err != nil {
		return nil, Static, err
	}
	ft, ok := types.RealType(tf).(*types.NegFunc)
	if !ok {
		return nil, Static, diag(TypeMismatch, "", "calling a non-function")
	}
	ta, ra, err := cc.check(e.Arg)
	if err != nil {
		return nil, Static, err
	}
	if !types.Equal(ft.Param, ta) {
		return nil, Static, diag(TypeMismatch, "", "argument type does not match parameter")
	}
	// the result depends on everything both inputs depended on
	r := cc.regions.Intersect(rf, ra)
	if isNoReturn(ft.Result) {
		if err := cc.leakCheck(cc.table); err != nil {
			return nil, Static, err
		}
		if err := cc.transferControl(); err != nil {
			return nil, Static, err
		}
		r = Static
	}
	e.SetType(ft.Result)
	return ft.Result, r, nil
}

func (cc *CheckContext) checkStruct(e *ast.StructLit) (types.Type, Region, error) {
	fields := make([]types.Field, len(e.Fields))
	region := Static
	seen := make(map[string]bool, len(e.Fields))
	for i, fv := range e.Fields {
		if seen[fv.Label] {
			return nil, Static, diag(TypeMismatch, fv.Label, "duplicate struct field")
		}
		seen[fv.Label] = true
		t, r, err := cc.check(fv.Value)
		if err != nil {
			return nil, Static, err
		}
		if isNoReturn(t) {
			return nil, Static, diag(TypeMismatch, fv.Label, "struct field cannot be a control transfer")
		}
		fields[i] = types.Field{Name: fv.Label, Type: t}
		region = cc.regions.Intersect(region, r)
	}
	st := &types.Struct{Fields: fields}
	e.SetType(st)
	return st, region, nil
}

func (cc *CheckContext) checkStructMatch(e *ast.StructMatch) (types.Type, Region, error) {
	tv, rv, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	st, ok := types.RealType(tv).(*types.Struct)
	if !ok {
		return nil, Static, diag(TypeMismatch, "", "destructuring a non-struct")
	}
	if len(e.Names) != len(st.Fields) {
		return nil, Static, diag(TypeMismatch, "", "destructuring arity mismatch")
	}
	stashed := 0
	for i, name := range e.Names {
		stashed += cc.stash(name)
		cc.ctx.Declare(name, st.Fields[i].Type, rv)
	}
	tb, rb, err := cc.check(e.Body)
	if err != nil {
		return nil, Static, err
	}
	if err := cc.ctx.ScopeExit(e.Names, cc.table); err != nil {
		return nil, Static, err
	}
	for _, name := range e.Names {
		cc.ctx.Remove(name)
	}
	cc.unstash(stashed)
	return tb, rb, nil
}

func (cc *CheckContext) checkVariant(e *ast.VariantLit) (types.Type, Region, error) {
	if e.VariantType == nil {
		return nil, Static, diag(TypeMismatch, e.Label, "variant construction requires a declared type")
	}
	ct, _, ok := e.VariantType.Case(e.Label)
	if !ok {
		return nil, Static, diag(TypeMismatch, e.Label, "variant has no such case")
	}
	tv, rv, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	if !types.Equal(ct, tv) {
		return nil, Static, diag(TypeMismatch, e.Label, "variant payload type mismatch")
	}
	return e.VariantType, rv, nil
}

// checkMatch checks variant elimination. Each case runs in an alternate world
// forked from the entry context; worlds whose branch transfers control never
// rejoin, and the remaining worlds must agree on consumption since exactly
// one of them runs.
func (cc *CheckContext) checkMatch(e *ast.Match) (types.Type, Region, error) {
	tv, rv, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	vt, ok := types.RealType(tv).(*types.Variant)
	if !ok {
		return nil, Static, diag(TypeMismatch, "", "matching a non-variant")
	}
	if len(e.Cases) != len(vt.Cases) {
		return nil, Static, diag(TypeMismatch, "", "match must cover every case exactly once")
	}
	entry := cc.ctx
	entryState := cc.body().state
	defer func() { cc.ctx = entry }()
	var worlds []*Context
	var result types.Type
	region := Static
	seen := make(map[string]bool, len(e.Cases))
	for i := range e.Cases {
		mc := &e.Cases[i]
		ct, _, ok := vt.Case(mc.Label)
		if !ok {
			return nil, Static, diag(TypeMismatch, mc.Label, "match case does not name a variant case")
		}
		if seen[mc.Label] {
			return nil, Static, diag(TypeMismatch, mc.Label, "duplicate match case")
		}
		seen[mc.Label] = true

		// each case is an alternative: it transfers control (or not) on its
		// own, independent of its siblings
		cc.body().state = entryState
		cc.ctx = entry.Fork()
		stashed := cc.stash(mc.Var)
		cc.ctx.Declare(mc.Var, ct, rv)
		bt, br, err := cc.check(mc.Value)
		if err != nil {
			return nil, Static, err
		}
		if err := cc.ctx.ScopeExit([]string{mc.Var}, cc.table); err != nil {
			return nil, Static, err
		}
		cc.ctx.Remove(mc.Var)
		cc.unstash(stashed)
		if isNoReturn(bt) {
			continue
		}
		worlds = append(worlds, cc.ctx)
		if result == nil {
			result = bt
		} else if !types.Equal(result, bt) {
			return nil, Static, diag(TypeMismatch, mc.Label, "match branches disagree on result type")
		}
		region = cc.regions.Intersect(region, br)
	}
	cc.ctx = entry
	if err := cc.ctx.reconcileWorlds(worlds); err != nil {
		return nil, Static, err
	}
	if result == nil {
		// every branch transferred control
		result = types.NoReturn{}
		cc.body().state = stateTerminated
	} else {
		cc.body().state = entryState
	}
	e.SetType(result)
	return result, region, nil
}

// checkChoice checks choice construction with alternate-world branch checking:
// each case may consume the entry context's resources freely, but all cases
// must leave identical post-branch usage state before the outer context marks
// those bindings consumed. Exactly one case ever runs, never more, never fewer.
func (cc *CheckContext) checkChoice(e *ast.ChoiceLit) (types.Type, Region, error) {
	if len(e.Cases) == 0 {
		return nil, Static, diag(TypeMismatch, "", "choice requires at least one case")
	}
	entry := cc.ctx
	entryState := cc.body().state
	defer func() {
		cc.ctx = entry
		// constructing a choice never transfers control; selection does
		cc.body().state = entryState
	}()
	cases := make([]types.Field, len(e.Cases))
	worlds := make([]*Context, len(e.Cases))
	seen := make(map[string]bool, len(e.Cases))
	for i, cv := range e.Cases {
		if seen[cv.Label] {
			return nil, Static, diag(TypeMismatch, cv.Label, "duplicate choice case")
		}
		seen[cv.Label] = true
		cc.body().state = entryState
		cc.ctx = entry.Fork()
		bt, _, err := cc.check(cv.Value)
		if err != nil {
			return nil, Static, err
		}
		cases[i] = types.Field{Name: cv.Label, Type: bt}
		worlds[i] = cc.ctx
	}
	cc.ctx = entry
	region := Static
	for _, name := range worlds[0].consumedSince(entry) {
		if b, ok := entry.Lookup(name); ok {
			region = cc.regions.Intersect(region, b.Region)
		}
	}
	if err := cc.ctx.reconcileWorlds(worlds); err != nil {
		return nil, Static, err
	}
	ct := &types.Choice{Cases: cases}
	e.SetType(ct)
	return ct, region, nil
}

func (cc *CheckContext) checkChoiceCall(e *ast.ChoiceCall) (types.Type, Region, error) {
	tv, rv, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	ct, ok := types.RealType(tv).(*types.Choice)
	if !ok {
		return nil, Static, diag(TypeMismatch, e.Label, "selecting from a non-choice")
	}
	caseT, _, ok := ct.Case(e.Label)
	if !ok {
		return nil, Static, diag(TypeMismatch, e.Label, "choice has no such case")
	}
	if isNoReturn(caseT) {
		if err := cc.leakCheck(cc.table); err != nil {
			return nil, Static, err
		}
		if err := cc.transferControl(); err != nil {
			return nil, Static, err
		}
		rv = Static
	}
	e.SetType(caseT)
	return caseT, rv, nil
}

// checkCoroutine checks coroutine construction. The body runs against only
// its captured bindings, must perform every declared yield in declaration
// order, and must terminate in a control transfer.
func (cc *CheckContext) checkCoroutine(e *ast.CoroutineLit) (types.Type, Region, error) {
	if len(e.Yields) == 0 {
		return nil, Static, diag(TypeMismatch, "", "coroutine requires at least one yield point")
	}
	inner, region, err := cc.captureClosure(e.Body, make(map[string]bool))
	if err != nil {
		return nil, Static, err
	}
	outer := cc.ctx
	cc.ctx = inner
	frame := cc.pushBody(cc.regions.Next())
	frame.co = &coProgress{yields: e.Yields}
	defer func() {
		cc.popBody()
		cc.ctx = outer
	}()

	tb, _, err := cc.check(e.Body)
	if err != nil {
		return nil, Static, err
	}
	if !isNoReturn(tb) {
		return nil, Static, diag(TypeMismatch, "", "coroutine body must not fall through")
	}
	if frame.co.next != len(e.Yields) {
		return nil, Static, diag(TypeMismatch, e.Yields[frame.co.next].Name, "coroutine body must perform every declared yield")
	}
	if err := cc.closureExit(); err != nil {
		return nil, Static, err
	}
	return &types.Coroutine{Yields: e.Yields}, region, nil
}

// checkYield checks one yield point against the innermost coroutine body's
// declared progression. A Return-typed point captures the body's continuation
// and later evaluates to the resumed value; a plain point delivers its value
// and transfers control.
func (cc *CheckContext) checkYield(e *ast.Yield) (types.Type, Region, error) {
	co := cc.currentCoroutine()
	if co == nil {
		return nil, Static, diag(TypeMismatch, e.Name, "yield outside a coroutine body")
	}
	if e.Value == nil {
		f, err := cc.nextYield(co, e.Name)
		if err != nil {
			return nil, Static, err
		}
		rt, ok := types.RealType(f.Type).(*types.Return)
		if !ok {
			return nil, Static, diag(TypeMismatch, e.Name, "yield point delivers a value")
		}
		co.next++
		if err := cc.captureReturn(); err != nil {
			return nil, Static, err
		}
		e.SetType(rt.Inner)
		return rt.Inner, cc.regions.NewRegion(), nil
	}
	tv, _, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	f, err := cc.nextYield(co, e.Name)
	if err != nil {
		return nil, Static, err
	}
	if _, ok := types.RealType(f.Type).(*types.Return); ok {
		return nil, Static, diag(TypeMismatch, e.Name, "yield point captures a continuation")
	}
	if !types.Equal(f.Type, tv) {
		return nil, Static, diag(TypeMismatch, e.Name, "yield value type mismatch")
	}
	co.next++
	if err := cc.leakCheck(cc.table); err != nil {
		return nil, Static, err
	}
	if err := cc.transferControl(); err != nil {
		return nil, Static, err
	}
	e.SetType(types.NoReturn{})
	return types.NoReturn{}, Static, nil
}

func (cc *CheckContext) nextYield(co *coProgress, name string) (types.Field, error) {
	if co.next >= len(co.yields) {
		return types.Field{}, diag(TypeMismatch, name, "every declared yield already performed")
	}
	f := co.yields[co.next]
	if f.Name != name {
		return types.Field{}, diag(TypeMismatch, name, "yield out of declaration order")
	}
	return f, nil
}

// checkContinue checks coroutine destructuring. Branch position matches the
// coroutine's yield order; every branch eventually runs, so sibling branches
// must consume disjoint resource sets and each must transfer control.
func (cc *CheckContext) checkContinue(e *ast.ContinueExpr) (types.Type, Region, error) {
	tv, _, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	co, ok := types.RealType(tv).(*types.Coroutine)
	if !ok {
		return nil, Static, diag(TypeMismatch, "", "continuing a non-coroutine")
	}
	if len(e.Branches) != len(co.Yields) {
		return nil, Static, diag(TypeMismatch, "", "continue must handle every yield point")
	}
	entry := cc.ctx
	worlds := make([]*Context, len(e.Branches))
	for i := range e.Branches {
		br := &e.Branches[i]
		cc.ctx = entry.Fork()
		frame := cc.pushBody(cc.regions.Next())
		frame.boundary = entry
		stashed := cc.stash(br.Var)
		cc.ctx.Declare(br.Var, co.Yields[i].Type, cc.regions.NewRegion())
		bt, _, err := cc.check(br.Body)
		if err == nil && !isNoReturn(bt) {
			err = diag(TypeMismatch, br.Var, "continue branch must not fall through")
		}
		if err == nil {
			err = cc.ctx.ScopeExit([]string{br.Var}, cc.table)
		}
		cc.popBody()
		if err != nil {
			cc.ctx = entry
			return nil, Static, err
		}
		cc.ctx.Remove(br.Var)
		cc.unstash(stashed)
		worlds[i] = cc.ctx
	}
	cc.ctx = entry

	// branch consumption sets must merge without collision
	union := NewContext()
	for _, world := range worlds {
		branch := NewContext()
		for _, name := range world.consumedSince(entry) {
			if b, ok := entry.Lookup(name); ok {
				branch.Declare(b.Name, b.Type, b.Region)
			}
		}
		union, err = Merge(union, branch)
		if err != nil {
			return nil, Static, err
		}
	}
	union.Range(func(b Binding) bool {
		cc.ctx.markUsed(b.Name)
		return true
	})
	if err := cc.leakCheck(cc.table); err != nil {
		return nil, Static, err
	}
	if err := cc.transferControl(); err != nil {
		return nil, Static, err
	}
	return types.NoReturn{}, Static, nil
}

// checkInvoke checks continuation invocation: the continuation is consumed,
// the enclosing context must hold no other live linear resources, and no
// expression follows in sequence.
func (cc *CheckContext) checkInvoke(e *ast.Invoke) (types.Type, Region, error) {
	tc, _, err := cc.check(e.Cont)
	if err != nil {
		return nil, Static, err
	}
	rt, ok := types.RealType(tc).(*types.Return)
	if !ok {
		return nil, Static, diag(TypeMismatch, "", "invoking a non-continuation")
	}
	tv, _, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	if !types.Equal(rt.Inner, tv) {
		return nil, Static, diag(TypeMismatch, "", "resume value type mismatch")
	}
	if types.ContainsReturn(tv) {
		return nil, Static, diag(ContinuationEscape, "", "continuation escapes through a control transfer")
	}
	if err := cc.leakCheck(cc.table); err != nil {
		return nil, Static, err
	}
	if err := cc.transferControl(); err != nil {
		return nil, Static, err
	}
	return types.NoReturn{}, Static, nil
}

// checkCallCC mints a fresh one-shot continuation bound to the current
// scope's lifetime node; the body must consume it on every path and must not
// fall through. The whole expression evaluates to the resumed value.
func (cc *CheckContext) checkCallCC(e *ast.CallCC) (types.Type, Region, error) {
	if e.ReturnType == nil {
		return nil, Static, diag(TypeMismatch, e.Var, "callcc requires a result type")
	}
	cc.pushBody(cc.regions.Next())
	stashed := cc.stash(e.Var)
	cc.ctx.Declare(e.Var, &types.Return{Inner: e.ReturnType}, cc.regions.NewRegion())
	if err := cc.captureReturn(); err != nil {
		cc.popBody()
		return nil, Static, err
	}
	tb, _, err := cc.check(e.Body)
	if err == nil && !isNoReturn(tb) {
		err = diag(TypeMismatch, e.Var, "callcc body must not fall through")
	}
	if err == nil {
		err = cc.ctx.ScopeExit([]string{e.Var}, cc.table)
	}
	cc.popBody()
	if err != nil {
		return nil, Static, err
	}
	cc.ctx.Remove(e.Var)
	cc.unstash(stashed)
	return e.ReturnType, cc.regions.NewRegion(), nil
}

func (cc *CheckContext) checkRegionAssert(e *ast.RegionAssert) (types.Type, Region, error) {
	if e.Region != "" {
		// continuation lifetime form: 'l ? T
		if !cc.experimental {
			return nil, Static, diag(TypeMismatch, e.Region, "continuation lifetime annotations are experimental"+
				" and disabled")
		}
		tv, _, err := cc.check(e.Value)
		if err != nil {
			return nil, Static, err
		}
		return tv, cc.namedRegion(e.Region), nil
	}
	tv, rv, err := cc.check(e.Value)
	if err != nil {
		return nil, Static, err
	}
	if !cc.regions.Semistatic(rv) {
		return nil, Static, diag(TypeMismatch, "", "asserting static on a lifetime-constrained value")
	}
	t := &types.Asserted{Inner: tv}
	return t, Static, nil
}

// captureClosure consumes the free variables of a body and moves them into a
// fresh context; the closure's lifetime node is the meet of their nodes.
func (cc *CheckContext) captureClosure(body ast.Expr, bound map[string]bool) (*Context, Region, error) {
	free := make(map[string]bool)
	freeVars(body, bound, free)
	names := make([]string, 0, len(free))
	for name := range free {
		if _, ok := cc.ctx.Lookup(name); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	inner := NewContext()
	region := Static
	for _, name := range names {
		b, err := cc.ctx.Use(name, Consume, cc.table, cc.regions)
		if err != nil {
			return nil, Static, err
		}
		inner.Declare(name, b.Type, b.Region)
		region = cc.regions.Intersect(region, b.Region)
	}
	return inner, region, nil
}

// closureExit verifies that a closure or coroutine body consumed every
// strictly linear binding it captured.
func (cc *CheckContext) closureExit() error {
	var err error
	cc.ctx.Range(func(b Binding) bool {
		if !b.Used && cc.table.Capability(b.Type) == types.StrictLinear {
			err = diag(UnusedLinearResource, b.Name, "strictly linear binding left unconsumed")
			return false
		}
		return true
	})
	return err
}

func isNoReturn(t types.Type) bool {
	_, ok := types.RealType(t).(types.NoReturn)
	return ok
}

// freeVars collects the free variable names of an expression into free.
func freeVars(e ast.Expr, bound, free map[string]bool) {
	switch e := e.(type) {
	case *ast.Literal:

	case *ast.Var:
		if !bound[e.Name] {
			free[e.Name] = true
		}

	case *ast.Let:
		freeVars(e.Value, bound, free)
		withBound(bound, []string{e.Var}, func() { freeVars(e.Body, bound, free) })

	case *ast.Seq:
		for _, sub := range e.Exprs {
			freeVars(sub, bound, free)
		}

	case *ast.Func:
		withBound(bound, []string{e.ArgName}, func() { freeVars(e.Body, bound, free) })

	case *ast.Call:
		freeVars(e.Func, bound, free)
		freeVars(e.Arg, bound, free)

	case *ast.StructLit:
		for _, fv := range e.Fields {
			freeVars(fv.Value, bound, free)
		}

	case *ast.StructMatch:
		freeVars(e.Value, bound, free)
		withBound(bound, e.Names, func() { freeVars(e.Body, bound, free) })

	case *ast.VariantLit:
		freeVars(e.Value, bound, free)

	case *ast.Match:
		freeVars(e.Value, bound, free)
		for _, mc := range e.Cases {
			mc := mc
			withBound(bound, []string{mc.Var}, func() { freeVars(mc.Value, bound, free) })
		}

	case *ast.ChoiceLit:
		for _, cv := range e.Cases {
			freeVars(cv.Value, bound, free)
		}

	case *ast.ChoiceCall:
		freeVars(e.Value, bound, free)

	case *ast.CoroutineLit:
		freeVars(e.Body, bound, free)

	case *ast.Yield:
		if e.Value != nil {
			freeVars(e.Value, bound, free)
		}

	case *ast.ContinueExpr:
		freeVars(e.Value, bound, free)
		for _, br := range e.Branches {
			br := br
			withBound(bound, []string{br.Var}, func() { freeVars(br.Body, bound, free) })
		}

	case *ast.Invoke:
		freeVars(e.Cont, bound, free)
		freeVars(e.Value, bound, free)

	case *ast.CallCC:
		withBound(bound, []string{e.Var}, func() { freeVars(e.Body, bound, free) })

	case *ast.RegionAssert:
		freeVars(e.Value, bound, free)

	case *ast.OrderHint:
		freeVars(e.Body, bound, free)

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}

func withBound(bound map[string]bool, names []string, f func()) {
	saved := make([]bool, len(names))
	for i, name := range names {
		saved[i] = bound[name]
		bound[name] = true
	}
	f()
	for i, name := range names {
		if !saved[i] {
			delete(bound, name)
		}
	}
}
