// This file is part of whynot - https://github.com/Martinn1996/whynot
//
// Copyright 2026 The whynot Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vm implements a generic virtual machine for structure matching
// with explanation.
//
// A compiled Program is a flat list of five instructions -- test, jump,
// record, bad and accept -- executed against a finite sequence of input
// items of some element type T. Rather than a single cursor, the VM steps
// an entire generation of cooperating threads through the program between
// each input item, building a directed-acyclic Trace graph that explains
// why a thread is still alive, why it died, or why it reached accept.
//
// Programs are built with the sibling asm package, not by hand: see
// asm.CompileVM for the usual entry point. This package owns execution
// (Execute), the thread/trace machinery that execution is built from, and
// diagnostics (Disassemble, Trace.Dump).
//
// For all intents and purposes the VM behaves as a breadth-first,
// single-threaded scheduler: there are no goroutines, no shared mutable
// state across runs, and no suspension points other than the test
// instruction, which is the only one that consumes an input item.
package vm
