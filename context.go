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
	"github.com/benbjohnson/immutable"
	"github.com/polar-lang/polar/types"
)

// UseMode selects how a binding occurrence treats the resource.
type UseMode int8

const (
	// Consume uses up the resource. Repeatable only for Copyable bindings.
	Consume UseMode = iota
	// Borrow observes the resource without a usage transition.
	Borrow
)

// Binding is one named resource in a Context.
type Binding struct {
	Id     int
	Name   string
	Type   types.Type
	Region Region
	Used   bool
}

var (
	emptyBindings = immutable.NewMap(nil)
	emptyConsumed = immutable.NewSortedMap(nil)
)

// Context is the linear/affine typing context: an unordered collection of
// bindings tracking usage state for one path through a function body.
//
// A Context is backed by persistent maps, so Fork produces an independent
// world in constant time; alternate-world branch checking relies on this.
// A context cannot be used concurrently.
type Context struct {
	bindings *immutable.Map       // name -> Binding
	consumed *immutable.SortedMap // int(Region) -> struct{}
	nextId   *int
}

func NewContext() *Context {
	return &Context{bindings: emptyBindings, consumed: emptyConsumed, nextId: new(int)}
}

// Fork produces an independent world sharing this context's current state.
// Usage transitions in one world are invisible to its siblings.
func (c *Context) Fork() *Context {
	return &Context{bindings: c.bindings, consumed: c.consumed, nextId: c.nextId}
}

// Declare adds a binding in the Unused state. Shadowing is the caller's
// concern: stash the previous binding before redeclaring a name.
func (c *Context) Declare(name string, t types.Type, r Region) Binding {
	id := *c.nextId
	*c.nextId++
	b := Binding{Id: id, Name: name, Type: t, Region: r}
	c.bindings = c.bindings.Set(name, b)
	return b
}

// Lookup returns the binding for a name.
func (c *Context) Lookup(name string) (Binding, bool) {
	v, ok := c.bindings.Get(name)
	if !ok {
		return Binding{}, false
	}
	return v.(Binding), true
}

// Remove deletes a binding; used when the driver leaves a binding construct.
func (c *Context) Remove(name string) {
	c.bindings = c.bindings.Delete(name)
}

// Restore reinstates a stashed (shadowed) binding.
func (c *Context) Restore(b Binding) {
	c.bindings = c.bindings.Set(b.Name, b)
}

// Len returns the number of live bindings.
func (c *Context) Len() int { return c.bindings.Len() }

// Range iterates over live bindings in unspecified order.
// If f returns false, iteration will be stopped.
func (c *Context) Range(f func(Binding) bool) {
	iter := c.bindings.Iterator()
	for !iter.Done() {
		_, v := iter.Next()
		if !f(v.(Binding)) {
			return
		}
	}
}

// Use records an occurrence of a binding.
//
// Consume on a Copyable binding leaves it Unused and repeatable; otherwise
// it transitions Unused -> Used, failing with UseAfterConsume when already
// Used. Consume additionally enforces the generalized exchange rule: no
// binding this one must precede may have been consumed already.
func (c *Context) Use(name string, mode UseMode, table types.CapTable, rg *RegionGraph) (Binding, error) {
	b, ok := c.Lookup(name)
	if !ok {
		return Binding{}, diag(TypeMismatch, name, "binding not found")
	}
	if mode == Borrow {
		return b, nil
	}
	capability := table.Capability(b.Type)
	if b.Used && capability != types.Copyable {
		return b, diag(UseAfterConsume, name, "binding already consumed")
	}
	if err := c.consumeOrder(b, rg); err != nil {
		return b, err
	}
	if capability != types.Copyable {
		b.Used = true
		c.bindings = c.bindings.Set(name, b)
		if b.Region != Static {
			c.consumed = c.consumed.Set(int(b.Region), struct{}{})
		}
	}
	return b, nil
}

// consumeOrder rejects a consumption whose region must precede an
// already-consumed region: the realized order on every path has to be a
// linear extension of the lifetime DAG.
func (c *Context) consumeOrder(b Binding, rg *RegionGraph) error {
	if b.Region == Static || rg == nil {
		return nil
	}
	iter := c.consumed.Iterator()
	for !iter.Done() {
		k, _ := iter.Next()
		if rg.Outlives(b.Region, Region(k.(int))) {
			return diag(UseBeforeDependency, b.Name, "a binding this one must precede was already consumed")
		}
	}
	return nil
}

// ScopeExit verifies the exit discipline for bindings leaving scope:
// StrictLinear bindings must be Used; Affine bindings may remain Unused
// (implicitly disposed); Copyable bindings are unconstrained.
func (c *Context) ScopeExit(names []string, table types.CapTable) error {
	for _, name := range names {
		b, ok := c.Lookup(name)
		if !ok {
			continue
		}
		if !b.Used && table.Capability(b.Type) == types.StrictLinear {
			return diag(UnusedLinearResource, name, "strictly linear binding left unconsumed")
		}
	}
	return nil
}

// Merge combines two contexts with disjoint binding names.
func Merge(g1, g2 *Context) (*Context, error) {
	merged := g1.Fork()
	var err error
	g2.Range(func(b Binding) bool {
		if _, exists := merged.Lookup(b.Name); exists {
			err = diag(DuplicateBindingMerge, b.Name, "binding present in both contexts")
			return false
		}
		merged.bindings = merged.bindings.Set(b.Name, b)
		return true
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// markUsed force-transitions a binding to Used without ordering checks.
// Branch-union accounting uses it: branches of one continue all run, but
// their relative order is unspecified, so no linearization is enforced.
func (c *Context) markUsed(name string) {
	b, ok := c.Lookup(name)
	if !ok || b.Used {
		return
	}
	b.Used = true
	c.bindings = c.bindings.Set(name, b)
	if b.Region != Static {
		c.consumed = c.consumed.Set(int(b.Region), struct{}{})
	}
}

// consumedSince lists names Used in this world but not in the entry world.
func (c *Context) consumedSince(entry *Context) []string {
	var names []string
	c.Range(func(b Binding) bool {
		if !b.Used {
			return true
		}
		if prev, ok := entry.Lookup(b.Name); ok && !prev.Used {
			names = append(names, b.Name)
		}
		return true
	})
	return names
}

// adoptWorld copies the usage state of every entry-world binding from a
// branch world back into this context.
func (c *Context) adoptWorld(world *Context) {
	c.Range(func(b Binding) bool {
		if wb, ok := world.Lookup(b.Name); ok && wb.Used != b.Used {
			c.bindings = c.bindings.Set(b.Name, wb)
		}
		return true
	})
	c.consumed = world.consumed
}

// reconcileWorlds enforces the conservative post-branch rule for
// alternate-world constructs: every world must leave each pre-existing
// binding in the same usage state, since exactly one branch runs.
func (c *Context) reconcileWorlds(worlds []*Context) error {
	if len(worlds) == 0 {
		return nil
	}
	var err error
	c.Range(func(b Binding) bool {
		first, ok := worlds[0].Lookup(b.Name)
		if !ok {
			return true
		}
		for _, w := range worlds[1:] {
			wb, ok := w.Lookup(b.Name)
			if !ok || wb.Used != first.Used {
				err = diag(BranchResourceConflict, b.Name, "branches disagree on consumption")
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	c.adoptWorld(worlds[0])
	return nil
}
