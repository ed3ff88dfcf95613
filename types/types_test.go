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
	"testing"
)

func TestPolarity(t *testing.T) {
	intT := &Const{Name: "Int"}
	positives := []Type{
		intT,
		&Struct{Fields: []Field{{"a", intT}}},
		&Variant{Cases: []Field{{"a", intT}}},
		&Return{Inner: intT},
	}
	for _, typ := range positives {
		if typ.Polarity() != Positive {
			t.Fatalf("expected %s to be positive", typ.TypeName())
		}
	}
	negatives := []Type{
		&Choice{Cases: []Field{{"a", intT}}},
		&Coroutine{Yields: []Field{{"a", intT}}},
		&NegFunc{Param: intT, Result: intT},
		NoReturn{},
	}
	for _, typ := range negatives {
		if typ.Polarity() != Negative {
			t.Fatalf("expected %s to be negative", typ.TypeName())
		}
	}
	if (&Asserted{Inner: intT}).Polarity() != Positive {
		t.Fatalf("expected assertions to preserve polarity")
	}
}

func TestEqualIgnoresAssertions(t *testing.T) {
	intT := &Const{Name: "Int"}
	strT := &Const{Name: "Str"}
	a := &Struct{Fields: []Field{{"x", intT}, {"y", strT}}}
	b := &Struct{Fields: []Field{{"x", &Asserted{Inner: intT}}, {"y", strT}}}
	if !Equal(a, b) {
		t.Fatalf("expected structural equality to ignore semistatic assertions")
	}
	c := &Struct{Fields: []Field{{"y", strT}, {"x", intT}}}
	if Equal(a, c) {
		t.Fatalf("field order is load-bearing; expected inequality")
	}
	if Equal(&NegFunc{Param: intT, Result: strT}, &NegFunc{Param: intT, Result: intT}) {
		t.Fatalf("expected function result types to be compared")
	}
	if !Equal(NoReturn{}, NoReturn{}) {
		t.Fatalf("expected noreturn to equal itself")
	}
}

func TestContainsReturn(t *testing.T) {
	intT := &Const{Name: "Int"}
	k := &Return{Inner: intT}
	if !ContainsReturn(k) {
		t.Fatalf("expected Return to contain a continuation")
	}
	if !ContainsReturn(&Struct{Fields: []Field{{"a", intT}, {"k", k}}}) {
		t.Fatalf("expected struct fields to be searched")
	}
	if !ContainsReturn(&Variant{Cases: []Field{{"a", k}}}) {
		t.Fatalf("expected variant cases to be searched")
	}
	if ContainsReturn(&NegFunc{Param: k, Result: intT}) {
		t.Fatalf("continuations behind function types are not tracked")
	}
	if ContainsReturn(intT) {
		t.Fatalf("base types carry no continuations")
	}
}

func TestTypeString(t *testing.T) {
	intT := &Const{Name: "Int"}
	strT := &Const{Name: "Str"}
	cases := []struct {
		typ  Type
		want string
	}{
		{intT, "Int"},
		{&Struct{Fields: []Field{{"a", intT}, {"b", strT}}}, "struct{a: Int, b: Str}"},
		{&Variant{Cases: []Field{{"x", intT}}}, "variant[x: Int]"},
		{&Choice{Cases: []Field{{"c1", intT}, {"c2", strT}}}, "choice[c1: Int, c2: Str]"},
		{&Coroutine{Yields: []Field{{"send", &Return{Inner: intT}}, {"receive", intT}}}, "coroutine(send: Return<Int>, receive: Int)"},
		{&NegFunc{Param: intT, Result: strT}, "Int -> Str"},
		{NoReturn{}, "noreturn"},
		{&Asserted{Inner: intT}, "Int + 'static"},
	}
	for _, c := range cases {
		if s := TypeString(c.typ); s != c.want {
			t.Fatalf("expected %q, got %q", c.want, s)
		}
	}
}
