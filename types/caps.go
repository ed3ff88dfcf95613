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

package types

import (
	"errors"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/magiconair/properties"
)

// Capability is the closed substructural classification of a type.
type Capability int8

const (
	// StrictLinear values must be consumed exactly once.
	StrictLinear Capability = iota
	// Affine values are consumed at most once; unused values are implicitly disposed.
	Affine
	// Copyable values may be consumed any number of times.
	Copyable
)

func (c Capability) String() string {
	switch c {
	case StrictLinear:
		return "StrictLinear"
	case Affine:
		return "Affine"
	case Copyable:
		return "Copyable"
	}
	return "Unknown"
}

// Caps are the per-base-type markers supplied by the front end alongside the IR.
type Caps struct {
	// Copy permits contraction: any number of uses.
	Copy bool
	// ImplicitDrop permits weakening: unused values are silently disposed.
	ImplicitDrop bool
	// Unwind permits disposal during exceptional unwinding even when the
	// type lacks ImplicitDrop.
	Unwind bool
}

// Capability folds the markers into the closed capability enum.
func (c Caps) Capability() Capability {
	switch {
	case c.Copy:
		return Copyable
	case c.ImplicitDrop:
		return Affine
	}
	return StrictLinear
}

var emptyCaps = immutable.NewSortedMap(nil)

// CapTable maps base type names to capability markers. The table is immutable;
// Set returns a derived table.
type CapTable struct {
	m *immutable.SortedMap
}

func NewCapTable() CapTable { return CapTable{emptyCaps} }

// Get the number of entries in the table.
func (t CapTable) Len() int {
	if t.m == nil {
		return 0
	}
	return t.m.Len()
}

// Set the markers for a base type name.
func (t CapTable) Set(name string, c Caps) CapTable {
	m := t.m
	if m == nil {
		m = emptyCaps
	}
	return CapTable{m.Set(name, c)}
}

// Get the markers for a base type name.
func (t CapTable) Get(name string) (Caps, bool) {
	if t.m == nil {
		return Caps{}, false
	}
	c, ok := t.m.Get(name)
	if !ok {
		return Caps{}, false
	}
	return c.(Caps), true
}

// Iterate over entries in the table, sorted by name.
// If f returns false, iteration will be stopped.
func (t CapTable) Range(f func(string, Caps) bool) {
	if t.m == nil {
		return
	}
	iter := t.m.Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		if !f(k.(string), v.(Caps)) {
			return
		}
	}
}

// LoadCapTable parses a capability table from properties-format text.
// Each key is a base type name; the value lists markers separated by
// commas or spaces:
//
//	Int  = copy drop
//	Str  = copy drop
//	Sock = unwind
//
// Base types absent from the table are strictly linear.
func LoadCapTable(src string) (CapTable, error) {
	p, err := properties.Load([]byte(src), properties.UTF8)
	if err != nil {
		return CapTable{}, err
	}
	table := NewCapTable()
	for _, key := range p.Keys() {
		val, _ := p.Get(key)
		var c Caps
		for _, marker := range strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			switch marker {
			case "copy":
				c.Copy = true
			case "drop":
				c.ImplicitDrop = true
			case "unwind":
				c.Unwind = true
			default:
				return CapTable{}, errors.New("unknown capability marker " + marker + " for base type " + key)
			}
		}
		table = table.Set(key, c)
	}
	return table, nil
}

// Capability resolves the capability of a type under the table.
//
// Base types resolve by lookup; positive composites take the weakest
// capability among their components; Return and the negative types are
// strictly linear.
func (t CapTable) Capability(typ Type) Capability {
	switch typ := RealType(typ).(type) {
	case *Const:
		c, ok := t.Get(typ.Name)
		if !ok {
			return StrictLinear
		}
		return c.Capability()
	case *Struct:
		return t.fieldsCapability(typ.Fields)
	case *Variant:
		return t.fieldsCapability(typ.Cases)
	}
	return StrictLinear
}

func (t CapTable) fieldsCapability(fields []Field) Capability {
	c := Copyable
	for _, f := range fields {
		if fc := t.Capability(f.Type); fc < c {
			c = fc
		}
	}
	return c
}

// Unwindable reports whether a value of type typ may be disposed during
// exceptional unwinding. ImplicitDrop types always may; other base types
// require the Unwind marker; continuations never unwind.
func (t CapTable) Unwindable(typ Type) bool {
	switch typ := RealType(typ).(type) {
	case *Const:
		c, ok := t.Get(typ.Name)
		if !ok {
			return false
		}
		return c.ImplicitDrop || c.Unwind
	case *Struct:
		for _, f := range typ.Fields {
			if !t.Unwindable(f.Type) {
				return false
			}
		}
		return true
	case *Variant:
		for _, f := range typ.Cases {
			if !t.Unwindable(f.Type) {
				return false
			}
		}
		return true
	case *Return:
		return false
	}
	return t.Capability(typ) != StrictLinear
}
