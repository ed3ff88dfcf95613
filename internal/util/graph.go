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

// Graph is a directed graph over dense integer vertex ids.
type Graph [][]int

func NewGraph(numVerts int) Graph { return Graph(make([][]int, numVerts)) }

// Grow appends a fresh vertex and returns its id.
func (g *Graph) Grow() int {
	id := len(*g)
	*g = append(*g, nil)
	return id
}

func (g Graph) Len() int { return len(g) }

func (g Graph) AddEdge(from, to int) {
	if !g.HasEdge(from, to) {
		g[from] = append(g[from], to)
	}
}

func (g Graph) HasEdge(from, to int) bool {
	for _, succ := range g[from] {
		if succ == to {
			return true
		}
	}
	return false
}

// Reachable reports whether a path from -> ... -> to exists. A vertex is not
// considered reachable from itself unless it lies on a cycle.
func (g Graph) Reachable(from, to int) bool {
	if len(g) <= 64 {
		return g.reachableSmall(from, to, 0)
	}
	return g.reachableLarge(from, to, make([]bool, len(g)))
}

func (g Graph) reachableSmall(curr, to int, seen uint64) bool {
	for _, succ := range g[curr] {
		if succ == to {
			return true
		}
		if seen&(1<<uint8(succ)) != 0 {
			continue
		}
		seen |= 1 << uint8(succ)
		if g.reachableSmall(succ, to, seen) {
			return true
		}
	}
	return false
}

func (g Graph) reachableLarge(curr, to int, seen []bool) bool {
	for _, succ := range g[curr] {
		if succ == to {
			return true
		}
		if seen[succ] {
			continue
		}
		seen[succ] = true
		if g.reachableLarge(succ, to, seen) {
			return true
		}
	}
	return false
}
