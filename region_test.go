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
)

func TestRegionOrdering(t *testing.T) {
	rg := NewRegionGraph()
	a, b, c := rg.NewRegion(), rg.NewRegion(), rg.NewRegion()
	if err := rg.AddOrder(a, b); err != nil {
		t.Fatalf("a * b: %v", err)
	}
	if err := rg.AddOrder(b, c); err != nil {
		t.Fatalf("b * c: %v", err)
	}
	if !rg.Outlives(a, b) || !rg.Outlives(b, c) {
		t.Fatalf("expected direct edges to be reachable")
	}
	if !rg.Outlives(a, c) {
		t.Fatalf("expected reachability to be transitive")
	}
	if rg.Outlives(c, a) || rg.Outlives(b, a) {
		t.Fatalf("expected ordering to be directional")
	}
	if err := rg.AddOrder(c, a); err == nil {
		t.Fatalf("expected ordering cycle to be rejected")
	}
	if err := rg.AddOrder(a, a); err == nil {
		t.Fatalf("expected self-ordering to be rejected")
	}
	if err := rg.AddOrder(Static, a); err == nil {
		t.Fatalf("expected the static region to be unordered")
	}
}

func TestStaticUnordered(t *testing.T) {
	rg := NewRegionGraph()
	a := rg.NewRegion()
	if rg.Outlives(Static, a) || rg.Outlives(a, Static) {
		t.Fatalf("the static region must be ordered with nothing")
	}
	if !rg.Semistatic(Static) {
		t.Fatalf("expected the static region to classify as semistatic")
	}
	if rg.Semistatic(a) {
		t.Fatalf("expected fresh regions to be lifetime-constrained")
	}
}

func TestIntersectMeetLaws(t *testing.T) {
	rg := NewRegionGraph()
	a, b, c := rg.NewRegion(), rg.NewRegion(), rg.NewRegion()

	// identity
	if rg.Intersect(Static, a) != a || rg.Intersect(a, Static) != a {
		t.Fatalf("expected static to be the identity of the meet")
	}
	// idempotence
	if rg.Intersect(a, a) != a {
		t.Fatalf("expected meet to be idempotent")
	}
	// commutativity
	ab, ba := rg.Intersect(a, b), rg.Intersect(b, a)
	if ab != ba {
		t.Fatalf("expected meet to be commutative: %d != %d", ab, ba)
	}
	// associativity
	left := rg.Intersect(rg.Intersect(a, b), c)
	right := rg.Intersect(a, rg.Intersect(b, c))
	if left != right {
		t.Fatalf("expected meet to be associative: %d != %d", left, right)
	}
	// absorbing an existing leaf changes nothing
	if rg.Intersect(ab, a) != ab {
		t.Fatalf("expected meet to absorb its own leaves")
	}
	// the meet is unordered against its own leaves: a composite's inputs are
	// consumed at construction, before the composite exists
	if rg.Outlives(ab, a) || rg.Outlives(ab, b) || rg.Outlives(a, ab) || rg.Outlives(b, ab) {
		t.Fatalf("expected the meet to be unordered against its leaves")
	}
}

func TestMeetInheritsOrdering(t *testing.T) {
	rg := NewRegionGraph()
	a, b, c := rg.NewRegion(), rg.NewRegion(), rg.NewRegion()
	if err := rg.AddOrder(a, c); err != nil {
		t.Fatalf("a * c: %v", err)
	}
	ab := rg.Intersect(a, b)
	if !rg.Outlives(ab, c) {
		t.Fatalf("expected the meet to inherit its leaves' constraints")
	}
	if rg.Outlives(c, ab) {
		t.Fatalf("unexpected reverse ordering through the meet")
	}
	// a shared leaf imposes no order between overlapping meets
	bc := rg.Intersect(b, c)
	if rg.Outlives(bc, ab) {
		t.Fatalf("expected shared leaves to impose no order")
	}
	if !rg.Outlives(ab, bc) {
		t.Fatalf("expected leaf constraints to order overlapping meets")
	}
}

func TestIntersectAll(t *testing.T) {
	rg := NewRegionGraph()
	if rg.IntersectAll() != Static {
		t.Fatalf("expected the empty meet to be static")
	}
	a, b := rg.NewRegion(), rg.NewRegion()
	if rg.IntersectAll(a) != a {
		t.Fatalf("expected the unary meet to be the identity")
	}
	if rg.IntersectAll(Static, a, b) != rg.Intersect(a, b) {
		t.Fatalf("expected the folded meet to ignore static inputs")
	}
}

func TestCreatedSince(t *testing.T) {
	rg := NewRegionGraph()
	outer := rg.NewRegion()
	base := rg.Next()
	inner := rg.NewRegion()
	if rg.createdSince(outer, base) {
		t.Fatalf("expected regions before the scope base to be exempt")
	}
	if !rg.createdSince(inner, base) {
		t.Fatalf("expected regions after the scope base to be recognized")
	}
	if !rg.createdSince(rg.Intersect(outer, inner), base) {
		t.Fatalf("expected the meet to inherit its leaves' scopes")
	}
	if rg.createdSince(Static, base) {
		t.Fatalf("the static region belongs to no scope")
	}
}
