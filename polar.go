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

// polar provides checking and evaluation for a substructural (linear/affine)
// type-system with polarized data/codata duality.
//
// Every binding carries a capability (strictly linear, affine, or copyable)
// drawn from a table keyed by base type name, and a lifetime node in a
// directed-acyclic graph whose edges encode required consumption order.
// Positive types (struct, variant, base, Return) are eager data; negative
// types (choice, coroutine, function, noreturn) are lazy codata. Each
// positive connective has a negative dual: choices are the duals of variants,
// coroutines the duals of structs, and both desugar to one-shot continuation
// chains.
//
// Supported features:
//
//   - Exactly-once / at-most-once consumption checking per binding capability
//   - A lifetime DAG generalizing the exchange rule: consumption order on
//     every path must be a linear extension of the declared partial order
//   - Semistatic classification: values built purely from static inputs may
//     escape their constructing scope freely
//   - First-class one-shot continuations (Return<T>, callcc, invoke) with
//     escape checking and an empty-context rule at every control transfer
//   - Multi-branch coroutines with ordered yield points, their continue
//     destructuring, and choice values with mandatory laziness
//   - A small-step trampoline evaluator in which invoke is a non-local jump
//     and coroutines suspend exactly at yield
//
// Checking is algorithmic and syntax-directed over a pre-elaborated IR; a
// failed check reports one structured Diagnostic from a closed taxonomy of
// eight kinds. Surface syntax, diagnostics presentation and module tooling
// are external collaborators.
package polar
