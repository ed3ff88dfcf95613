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

// Evaluator is a single-threaded, cooperative small-step interpreter over
// checked IR. Continuations are resumable machine frames; invoke performs a
// non-local jump discarding all intervening frames; coroutine execution
// suspends exactly at yield and resumes at the matching continue branch.
type Evaluator struct {
	table types.CapTable
}

func NewEvaluator(table types.CapTable) *Evaluator { return &Evaluator{table: table} }

// Eval runs a closed expression to a value.
func (ev *Evaluator) Eval(root ast.Expr) (Value, error) { return ev.EvalIn(NewEnv(), root) }

// EvalIn runs an expression under an environment.
func (ev *Evaluator) EvalIn(env *Env, root ast.Expr) (Value, error) {
	m := &machine{ev: ev, control: root, env: env, frame: &haltFrame{}}
	for {
		if m.control != nil {
			if err := m.stepExpr(); err != nil {
				return nil, err
			}
			continue
		}
		if _, done := m.frame.(*haltFrame); done {
			return m.value, nil
		}
		if err := m.stepFrame(); err != nil {
			return nil, err
		}
	}
}

// CheckerDefect reports an evaluator-observed condition that checking rules
// out; seeing one from checked IR is a bug in the checker, not the program.
type CheckerDefect struct {
	Reason string
}

func (e *CheckerDefect) Error() string { return "checker defect: " + e.Reason }

func errDefect(reason string) error { return &CheckerDefect{Reason: reason} }

// FatalUnwindError reports a control transfer that would discard a live
// resource declining disposal. This is the single runtime-observable failure
// mode, fatal and not recoverable; the host is expected to abort.
type FatalUnwindError struct {
	Value Value
}

func (e *FatalUnwindError) Error() string {
	return "fatal unwind: control transfer discards a live " + e.Value.ValueName() + " resource"
}

// frame is a defunctionalized continuation of the machine.
type frame interface {
	nextFrame() frame
}

type haltFrame struct{}

// deadEndFrame roots every noreturn context (callcc bodies, continue
// branches); reaching it with a value means checking failed to rule out a
// fall-through.
type deadEndFrame struct{}

type letFrame struct {
	name string
	body ast.Expr
	env  *Env
	next frame
}

type seqFrame struct {
	rest []ast.Expr
	env  *Env
	next frame
}

type callFnFrame struct {
	arg  ast.Expr
	env  *Env
	next frame
}

type callArgFrame struct {
	fn   Value
	next frame
}

type structFrame struct {
	done  []NamedValue
	label string
	rest  []ast.LabelValue
	env   *Env
	next  frame
}

type structMatchFrame struct {
	names []string
	body  ast.Expr
	env   *Env
	next  frame
}

type variantFrame struct {
	label string
	next  frame
}

type matchFrame struct {
	cases []ast.MatchCase
	env   *Env
	next  frame
}

type choiceCallFrame struct {
	label string
	next  frame
}

type invokeContFrame struct {
	value ast.Expr
	env   *Env
	next  frame
}

type invokeValFrame struct {
	cont *ContVal
	next frame
}

// coFrame anchors one running coroutine: the continue site's branches and
// environment. Yields within the body walk the frame chain to the nearest
// coFrame, so nested coroutines resolve to the innermost one.
type coFrame struct {
	yields   []types.Field
	branches []ast.ContinueBranch
	env      *Env
	next     frame
}

type yieldFrame struct {
	name string
	next frame
}

func (f *haltFrame) nextFrame() frame        { return nil }
func (f *deadEndFrame) nextFrame() frame     { return nil }
func (f *letFrame) nextFrame() frame         { return f.next }
func (f *seqFrame) nextFrame() frame         { return f.next }
func (f *callFnFrame) nextFrame() frame      { return f.next }
func (f *callArgFrame) nextFrame() frame     { return f.next }
func (f *structFrame) nextFrame() frame      { return f.next }
func (f *structMatchFrame) nextFrame() frame { return f.next }
func (f *variantFrame) nextFrame() frame     { return f.next }
func (f *matchFrame) nextFrame() frame       { return f.next }
func (f *choiceCallFrame) nextFrame() frame  { return f.next }
func (f *invokeContFrame) nextFrame() frame  { return f.next }
func (f *invokeValFrame) nextFrame() frame   { return f.next }
func (f *coFrame) nextFrame() frame          { return f.next }
func (f *yieldFrame) nextFrame() frame       { return f.next }

type machine struct {
	ev      *Evaluator
	control ast.Expr
	value   Value
	env     *Env
	frame   frame
}

func (m *machine) ret(v Value) error {
	m.control = nil
	m.value = v
	return nil
}

func (m *machine) stepExpr() error {
	switch e := m.control.(type) {
	case *ast.Literal:
		return m.ret(&LitVal{Syntax: e.Syntax, TypeName: e.TypeName})

	case *ast.Var:
		v, ok := m.env.lookup(e.Name)
		if !ok {
			return errDefect("unbound variable " + e.Name)
		}
		return m.ret(v)

	case *ast.Let:
		m.frame = &letFrame{name: e.Var, body: e.Body, env: m.env, next: m.frame}
		m.control = e.Value

	case *ast.Seq:
		if len(e.Exprs) == 0 {
			return errDefect("empty sequence")
		}
		if len(e.Exprs) > 1 {
			m.frame = &seqFrame{rest: e.Exprs[1:], env: m.env, next: m.frame}
		}
		m.control = e.Exprs[0]

	case *ast.Func:
		return m.ret(&ClosureVal{ArgName: e.ArgName, Body: e.Body, Env: m.env})

	case *ast.Call:
		m.frame = &callFnFrame{arg: e.Arg, env: m.env, next: m.frame}
		m.control = e.Func

	case *ast.StructLit:
		if len(e.Fields) == 0 {
			return m.ret(&StructVal{})
		}
		m.frame = &structFrame{label: e.Fields[0].Label, rest: e.Fields[1:], env: m.env, next: m.frame}
		m.control = e.Fields[0].Value

	case *ast.StructMatch:
		m.frame = &structMatchFrame{names: e.Names, body: e.Body, env: m.env, next: m.frame}
		m.control = e.Value

	case *ast.VariantLit:
		m.frame = &variantFrame{label: e.Label, next: m.frame}
		m.control = e.Value

	case *ast.Match:
		m.frame = &matchFrame{cases: e.Cases, env: m.env, next: m.frame}
		m.control = e.Value

	case *ast.ChoiceLit:
		return m.ret(&ChoiceVal{Cases: e.Cases, Env: m.env})

	case *ast.ChoiceCall:
		m.frame = &choiceCallFrame{label: e.Label, next: m.frame}
		m.control = e.Value

	case *ast.CoroutineLit:
		return m.ret(&CoroutineVal{Yields: e.Yields, Body: e.Body, Env: m.env})

	case *ast.Yield:
		return m.stepYield(e)

	case *ast.ContinueExpr:
		m.frame = &continueFrame{branches: e.Branches, env: m.env, next: m.frame}
		m.control = e.Value

	case *ast.Invoke:
		m.frame = &invokeContFrame{value: e.Value, env: m.env, next: m.frame}
		m.control = e.Cont

	case *ast.CallCC:
		cont := &ContVal{frame: m.frame}
		m.env = m.env.bind(e.Var, cont)
		m.control = e.Body
		m.frame = &deadEndFrame{}

	case *ast.RegionAssert:
		m.control = e.Value

	case *ast.OrderHint:
		m.control = e.Body

	default:
		return errDefect("unknown expression " + m.control.ExprName())
	}
	return nil
}

func (m *machine) stepFrame() error {
	switch f := m.frame.(type) {
	case *deadEndFrame:
		return errDefect("control fell through a noreturn context")

	case *letFrame:
		m.env = f.env.bind(f.name, m.value)
		m.control = f.body
		m.frame = f.next

	case *seqFrame:
		// checked code only discards droppable results here
		if len(f.rest) == 1 {
			m.frame = f.next
		} else {
			m.frame = &seqFrame{rest: f.rest[1:], env: f.env, next: f.next}
		}
		m.env = f.env
		m.control = f.rest[0]

	case *callFnFrame:
		m.frame = &callArgFrame{fn: m.value, next: f.next}
		m.env = f.env
		m.control = f.arg

	case *callArgFrame:
		cl, ok := f.fn.(*ClosureVal)
		if !ok {
			return errDefect("calling a non-closure")
		}
		m.env = cl.Env.bind(cl.ArgName, m.value)
		m.control = cl.Body
		m.frame = f.next

	case *structFrame:
		done := append(f.done, NamedValue{Name: f.label, Value: m.value})
		if len(f.rest) == 0 {
			m.frame = f.next
			m.value = &StructVal{Fields: done}
			return nil
		}
		m.frame = &structFrame{done: done, label: f.rest[0].Label, rest: f.rest[1:], env: f.env, next: f.next}
		m.env = f.env
		m.control = f.rest[0].Value

	case *structMatchFrame:
		sv, ok := m.value.(*StructVal)
		if !ok {
			return errDefect("destructuring a non-struct")
		}
		if len(f.names) != len(sv.Fields) {
			return errDefect("destructuring arity mismatch")
		}
		env := f.env
		for i, name := range f.names {
			env = env.bind(name, sv.Fields[i].Value)
		}
		m.env = env
		m.control = f.body
		m.frame = f.next

	case *variantFrame:
		m.frame = f.next
		m.value = &VariantVal{Label: f.label, Value: m.value}

	case *matchFrame:
		vv, ok := m.value.(*VariantVal)
		if !ok {
			return errDefect("matching a non-variant")
		}
		for _, mc := range f.cases {
			if mc.Label == vv.Label {
				m.env = f.env.bind(mc.Var, vv.Value)
				m.control = mc.Value
				m.frame = f.next
				return nil
			}
		}
		return errDefect("no match case for " + vv.Label)

	case *choiceCallFrame:
		cv, ok := m.value.(*ChoiceVal)
		if !ok {
			return errDefect("selecting from a non-choice")
		}
		if cv.used {
			return errDefect("choice value already spent")
		}
		cv.used = true
		for _, lc := range cv.Cases {
			if lc.Label == f.label {
				m.env = cv.Env
				m.control = lc.Value
				m.frame = f.next
				return nil
			}
		}
		return errDefect("choice has no case " + f.label)

	case *invokeContFrame:
		cont, ok := m.value.(*ContVal)
		if !ok {
			return errDefect("invoking a non-continuation")
		}
		m.frame = &invokeValFrame{cont: cont, next: f.next}
		m.env = f.env
		m.control = f.value

	case *invokeValFrame:
		return m.jump(f.cont, m.value, f.next)

	case *continueFrame:
		w, ok := m.value.(*CoroutineVal)
		if !ok {
			return errDefect("continuing a non-coroutine")
		}
		if w.used {
			return errDefect("coroutine value already spent")
		}
		w.used = true
		if len(f.branches) != len(w.Yields) {
			return errDefect("continue branch arity mismatch")
		}
		m.env = w.Env
		m.control = w.Body
		m.frame = &coFrame{yields: w.Yields, branches: f.branches, env: f.env, next: f.next}

	case *coFrame:
		return errDefect("coroutine body fell through")

	case *yieldFrame:
		co := nearestCo(f.next)
		if co == nil {
			return errDefect("yield outside a running coroutine")
		}
		return m.runBranch(co, f.name, m.value)

	default:
		return errDefect("unknown frame")
	}
	return nil
}

// continueFrame awaits the coroutine value at a continue site.
type continueFrame struct {
	branches []ast.ContinueBranch
	env      *Env
	next     frame
}

func (f *continueFrame) nextFrame() frame { return f.next }

func (m *machine) stepYield(e *ast.Yield) error {
	co := nearestCo(m.frame)
	if co == nil {
		return errDefect("yield outside a running coroutine")
	}
	idx, ok := yieldIndex(co.yields, e.Name)
	if !ok {
		return errDefect("no yield point " + e.Name)
	}
	if _, capture := types.RealType(co.yields[idx].Type).(*types.Return); capture {
		if e.Value != nil {
			return errDefect("yield point " + e.Name + " captures a continuation")
		}
		// the resume point is exactly this yield's continuation
		return m.runBranch(co, e.Name, &ContVal{frame: m.frame})
	}
	if e.Value == nil {
		return errDefect("yield point " + e.Name + " delivers a value")
	}
	m.frame = &yieldFrame{name: e.Name, next: m.frame}
	m.control = e.Value
	return nil
}

// runBranch suspends the coroutine body and transfers control to the branch
// matching the yield point, binding the captured continuation or the
// delivered value.
func (m *machine) runBranch(co *coFrame, name string, v Value) error {
	idx, ok := yieldIndex(co.yields, name)
	if !ok {
		return errDefect("no yield point " + name)
	}
	br := co.branches[idx]
	m.env = co.env.bind(br.Var, v)
	m.control = br.Body
	m.value = nil
	m.frame = &deadEndFrame{}
	return nil
}

// jump performs the non-local transfer for invoke: all frames between the
// invoke site and the resume point are discarded, after verifying that none
// of them holds a resource declining disposal.
func (m *machine) jump(cont *ContVal, v Value, from frame) error {
	if cont.used {
		return errDefect("continuation already invoked")
	}
	cont.used = true
	if err := m.unwind(from, cont.frame); err != nil {
		return err
	}
	m.control = nil
	m.value = v
	m.frame = cont.frame
	return nil
}

func (m *machine) unwind(from, to frame) error {
	for f := from; f != nil; f = f.nextFrame() {
		if f == to {
			return nil
		}
		for _, held := range heldValues(f) {
			if !m.ev.unwindable(held) {
				return &FatalUnwindError{Value: held}
			}
		}
	}
	return nil
}

func heldValues(f frame) []Value {
	switch f := f.(type) {
	case *callArgFrame:
		return []Value{f.fn}
	case *structFrame:
		vals := make([]Value, len(f.done))
		for i, nv := range f.done {
			vals[i] = nv.Value
		}
		return vals
	case *invokeValFrame:
		return []Value{f.cont}
	}
	return nil
}

// unwindable reports whether discarding v during a control transfer is
// permitted: spent one-shot values always are, base types consult the
// capability table's drop/unwind markers, and continuations never unwind.
func (ev *Evaluator) unwindable(v Value) bool {
	switch v := v.(type) {
	case *LitVal:
		return ev.table.Unwindable(&types.Const{Name: v.TypeName})
	case *StructVal:
		for _, f := range v.Fields {
			if !ev.unwindable(f.Value) {
				return false
			}
		}
		return true
	case *VariantVal:
		return ev.unwindable(v.Value)
	case *ContVal:
		return v.used
	case *ChoiceVal:
		return v.used
	case *CoroutineVal:
		return v.used
	}
	return false
}

func nearestCo(f frame) *coFrame {
	for ; f != nil; f = f.nextFrame() {
		if co, ok := f.(*coFrame); ok {
			return co
		}
	}
	return nil
}

func yieldIndex(yields []types.Field, name string) (int, bool) {
	for i, y := range yields {
		if y.Name == name {
			return i, true
		}
	}
	return 0, false
}
