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
	"errors"
	"sort"
	"strconv"

	"github.com/polar-lang/polar/internal/util"
)

// Region identifies a node in the lifetime order graph. Region ids are
// allocated monotonically within one check pass, so a larger id always
// belongs to a scope entered no earlier.
type Region int

// Static is the universal region: values independent of every lifetime.
// Static bindings are exempt from ordering checks.
const Static Region = 0

type reachKey struct {
	from, to Region
}

// RegionGraph maintains the partial order over lifetime nodes for one check
// pass. An edge a -> b encodes "a must be consumed before b". The graph is
// kept acyclic; reachability and meets are memoized.
type RegionGraph struct {
	g     util.Graph
	reach map[reachKey]bool
	meets map[string]Region
	// base regions each meet node was built from; base regions map to themselves
	leaves map[Region][]Region
}

func NewRegionGraph() *RegionGraph {
	rg := &RegionGraph{
		reach:  make(map[reachKey]bool),
		meets:  make(map[string]Region),
		leaves: make(map[Region][]Region),
	}
	if id := rg.g.Grow(); Region(id) != Static {
		panic("static region must be vertex 0")
	}
	return rg
}

// NewRegion creates a fresh lifetime node, unordered with every other node.
func (rg *RegionGraph) NewRegion() Region {
	r := Region(rg.g.Grow())
	rg.leaves[r] = []Region{r}
	return r
}

// Next returns the id the next created region will receive. Scopes record it
// on entry to recognize regions of their own making.
func (rg *RegionGraph) Next() Region { return Region(rg.g.Len()) }

// AddOrder requires before-bindings to be consumed before after-bindings.
// Adding an edge that would close a cycle is rejected: the realized
// consumption order must remain a linear extension of a partial order.
func (rg *RegionGraph) AddOrder(before, after Region) error {
	if before == Static || after == Static {
		return errors.New("the static region is unordered")
	}
	if before == after {
		return errors.New("a region cannot precede itself")
	}
	if rg.Outlives(after, before) {
		return errors.New("ordering cycle between regions")
	}
	rg.g.AddEdge(int(before), int(after))
	rg.reach = make(map[reachKey]bool)
	return nil
}

// Outlives reports whether a must be consumed before b. Meet nodes inherit
// the ordering constraints of their leaves: a precedes b when any leaf of a
// has a path to a leaf of b. A shared leaf imposes no order, and the static
// region is ordered with nothing.
func (rg *RegionGraph) Outlives(a, b Region) bool {
	if a == Static || b == Static || a == b {
		return false
	}
	key := reachKey{a, b}
	if r, ok := rg.reach[key]; ok {
		return r
	}
	r := false
	for _, la := range rg.leavesOf(a) {
		for _, lb := range rg.leavesOf(b) {
			if la != lb && rg.g.Reachable(int(la), int(lb)) {
				r = true
				break
			}
		}
		if r {
			break
		}
	}
	rg.reach[key] = r
	return r
}

// Intersect computes the meet of two lifetime nodes: a node depending on
// everything both inputs depended on. The meet inherits its leaves' ordering
// constraints but is unordered against the leaves themselves: a composite's
// inputs are consumed at construction, before the composite exists. The
// operation is idempotent, commutative and associative; Static is its
// identity.
func (rg *RegionGraph) Intersect(a, b Region) Region {
	if a == Static {
		return b
	}
	if b == Static || a == b {
		return a
	}
	merged := mergeLeaves(rg.leavesOf(a), rg.leavesOf(b))
	if len(merged) == 1 {
		return merged[0]
	}
	key := leafKey(merged)
	if m, ok := rg.meets[key]; ok {
		return m
	}
	m := Region(rg.g.Grow())
	rg.leaves[m] = merged
	rg.meets[key] = m
	return m
}

// IntersectAll folds Intersect over a set of regions; the empty set is Static.
func (rg *RegionGraph) IntersectAll(regions ...Region) Region {
	r := Static
	for _, next := range regions {
		r = rg.Intersect(r, next)
	}
	return r
}

// Semistatic reports whether values at r are provably independent of every
// lifetime and may escape their constructing scope freely.
func (rg *RegionGraph) Semistatic(r Region) bool { return r == Static }

// createdSince reports whether r depends on any lifetime node allocated at or
// after base. Escape checks use it to recognize values built from a scope's
// own nodes.
func (rg *RegionGraph) createdSince(r, base Region) bool {
	if r == Static {
		return false
	}
	for _, leaf := range rg.leavesOf(r) {
		if leaf >= base {
			return true
		}
	}
	return false
}

func (rg *RegionGraph) leavesOf(r Region) []Region {
	if ls, ok := rg.leaves[r]; ok {
		return ls
	}
	return []Region{r}
}

func mergeLeaves(a, b []Region) []Region {
	merged := make([]Region, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	flat := merged[:0]
	var last Region = -1
	for _, r := range merged {
		if r != last {
			flat = append(flat, r)
			last = r
		}
	}
	return flat[:len(flat):len(flat)]
}

func leafKey(leaves []Region) string {
	key := ""
	for i, r := range leaves {
		if i > 0 {
			key += ","
		}
		key += strconv.Itoa(int(r))
	}
	return key
}
