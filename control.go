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
	"github.com/polar-lang/polar/types"
)

// bodyState tracks the control discipline of one function or coroutine body.
//
// Building -> CapturedReturn on the first continuation capture;
// CapturedReturn -> Terminated only through invoke (or, for coroutine
// bodies, by completing every declared yield). There is no transition back
// to Building: captured continuations cannot be recaptured.
type bodyState int8

const (
	stateBuilding bodyState = iota
	stateCapturedReturn
	stateTerminated
)

func (s bodyState) String() string {
	switch s {
	case stateBuilding:
		return "Building"
	case stateCapturedReturn:
		return "CapturedReturn"
	case stateTerminated:
		return "Terminated"
	}
	return "Unknown"
}

// coProgress tracks a coroutine body's walk through its declared yields.
type coProgress struct {
	yields []types.Field
	next   int
}

// controlFrame is the per-body bookkeeping pushed when the driver enters a
// function body, coroutine body or continue branch.
type controlFrame struct {
	state bodyState
	// base is the first region allocated within this body's scope; regions
	// at or above it were created here and may not carry continuations out.
	base Region
	// co is set for coroutine bodies.
	co *coProgress
	// boundary marks a continue branch: bindings left unused outside the
	// boundary are a sibling branch's responsibility, not a leak.
	boundary *Context
}

func (cc *CheckContext) pushBody(base Region) *controlFrame {
	cc.bodies = append(cc.bodies, &controlFrame{base: base})
	return cc.bodies[len(cc.bodies)-1]
}

func (cc *CheckContext) popBody() {
	cc.bodies = cc.bodies[:len(cc.bodies)-1]
}

func (cc *CheckContext) body() *controlFrame {
	return cc.bodies[len(cc.bodies)-1]
}

// captureReturn transitions the current body on a continuation capture.
func (cc *CheckContext) captureReturn() error {
	b := cc.body()
	if b.state == stateTerminated {
		return diag(TypeMismatch, "", "continuation captured after control transfer")
	}
	b.state = stateCapturedReturn
	return nil
}

// transferControl transitions the current body on invoke.
func (cc *CheckContext) transferControl() error {
	b := cc.body()
	if b.state == stateTerminated {
		return diag(TypeMismatch, "", "control transferred twice in sequence")
	}
	b.state = stateTerminated
	return nil
}

// leakCheck enforces the empty-context rule at a control transfer: every
// strictly linear binding must already be consumed, except bindings that a
// sibling continue branch will consume.
func (cc *CheckContext) leakCheck(table types.CapTable) error {
	boundary := cc.nearestBoundary()
	var err error
	cc.ctx.Range(func(b Binding) bool {
		if b.Used || table.Capability(b.Type) != types.StrictLinear {
			return true
		}
		if boundary != nil {
			if outer, ok := boundary.Lookup(b.Name); ok && !outer.Used {
				return true
			}
		}
		err = diag(ResourceLeakAtControlTransfer, b.Name, "linear resource live across control transfer")
		return false
	})
	return err
}

func (cc *CheckContext) nearestBoundary() *Context {
	for i := len(cc.bodies) - 1; i >= 0; i-- {
		if cc.bodies[i].boundary != nil {
			return cc.bodies[i].boundary
		}
	}
	return nil
}

// currentCoroutine returns the innermost body's yield progress, or nil when
// the innermost body is not a coroutine.
func (cc *CheckContext) currentCoroutine() *coProgress {
	b := cc.body()
	return b.co
}
