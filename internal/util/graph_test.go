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

package util

import (
	"testing"
)

func TestGraphEdges(t *testing.T) {
	g := NewGraph(0)
	a, b, c := g.Grow(), g.Grow(), g.Grow()
	if g.Len() != 3 {
		t.Fatalf("expected 3 vertices, found %d", g.Len())
	}
	g.AddEdge(a, b)
	g.AddEdge(a, b) // duplicate edges collapse
	g.AddEdge(b, c)
	if len(g[a]) != 1 {
		t.Fatalf("expected duplicate edges to collapse, found %d", len(g[a]))
	}
	if !g.HasEdge(a, b) || g.HasEdge(b, a) {
		t.Fatalf("edges must be directed")
	}
}

func TestGraphReachable(t *testing.T) {
	g := NewGraph(0)
	a, b, c, d := g.Grow(), g.Grow(), g.Grow(), g.Grow()
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	if !g.Reachable(a, c) {
		t.Fatalf("expected transitive reachability")
	}
	if g.Reachable(c, a) || g.Reachable(a, d) {
		t.Fatalf("unexpected reachability")
	}
	if g.Reachable(a, a) {
		t.Fatalf("vertices are not reachable from themselves without a cycle")
	}
	g.AddEdge(c, a)
	if !g.Reachable(a, a) {
		t.Fatalf("expected cycles to make a vertex self-reachable")
	}
}

func TestGraphReachableLarge(t *testing.T) {
	// above 64 vertices the search switches off the bitset path
	g := NewGraph(0)
	verts := make([]int, 100)
	for i := range verts {
		verts[i] = g.Grow()
		if i > 0 {
			g.AddEdge(verts[i-1], verts[i])
		}
	}
	if !g.Reachable(verts[0], verts[99]) {
		t.Fatalf("expected a long chain to stay reachable")
	}
	if g.Reachable(verts[99], verts[0]) {
		t.Fatalf("unexpected reverse reachability")
	}
}
