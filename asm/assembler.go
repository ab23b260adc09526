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

package asm

import "github.com/Martinn1996/whynot/vm"

// Assembler builds a vm.Program one instruction at a time.
type Assembler[T any] struct {
	instructions []*vm.Instruction[T]
}

// NewAssembler returns an empty Assembler.
func NewAssembler[T any]() *Assembler[T] {
	return &Assembler[T]{}
}

// Len reports how many instructions have been emitted so far -- the PC the
// next Test/Jump/Record/Bad/Accept call will receive.
func (a *Assembler[T]) Len() int {
	return len(a.instructions)
}

func (a *Assembler[T]) emit(ins *vm.Instruction[T]) *vm.Instruction[T] {
	a.instructions = append(a.instructions, ins)
	return ins
}

// Test emits a test instruction: the thread survives only if fn returns
// true for the current input item.
func (a *Assembler[T]) Test(fn vm.TestFunc[T]) *vm.Instruction[T] {
	return a.emit(&vm.Instruction[T]{Op: vm.OpTest, TestFn: fn})
}

// Jump emits a jump instruction with the given targets. Call Jump() with no
// targets to get the "patch this in once I know where" idiom; mutate the
// returned Instruction's Targets field, or call AddTarget, once the
// branches it should fan out to exist.
func (a *Assembler[T]) Jump(targets ...int) *vm.Instruction[T] {
	ts := append([]int(nil), targets...)
	return a.emit(&vm.Instruction[T]{Op: vm.OpJump, Targets: ts})
}

// Record emits a record instruction. fn may be nil, in which case data is
// recorded verbatim; otherwise fn computes the recorded value (or nil, to
// suppress the record for this thread) from data.
func (a *Assembler[T]) Record(data any, fn vm.RecordFunc[T]) *vm.Instruction[T] {
	return a.emit(&vm.Instruction[T]{Op: vm.OpRecord, Data: data, RecordFn: fn})
}

// Bad emits a bad instruction with the given cost (cost <= 0 defaults to
// 1). fail, if non-nil, gates whether the cost is actually added at run
// time -- a false return means "not this time."
func (a *Assembler[T]) Bad(cost int, fail vm.FailFunc) *vm.Instruction[T] {
	if cost <= 0 {
		cost = 1
	}
	return a.emit(&vm.Instruction[T]{Op: vm.OpBad, Cost: cost, FailFn: fail})
}

// Accept emits an accept instruction.
func (a *Assembler[T]) Accept() *vm.Instruction[T] {
	return a.emit(&vm.Instruction[T]{Op: vm.OpAccept})
}

// Finish freezes the emitted instructions into a Program. The assembler
// performs no validation: an unpatched empty jump, an orphaned target, or
// an unreachable accept all assemble cleanly and simply do nothing useful
// at run time.
func (a *Assembler[T]) Finish() *vm.Program[T] {
	return &vm.Program[T]{Instructions: a.instructions}
}

// CompileVM builds a Program by invoking build with a fresh Assembler, then
// wraps the result in a VM ready for Execute. Building and compiling live
// here rather than in package vm because an Assembler needs vm's
// Instruction/Program/Opcode types, and vm must not import asm back.
func CompileVM[T any](build func(*Assembler[T]), opts ...vm.Option) *vm.VM[T] {
	a := NewAssembler[T]()
	build(a)
	return vm.New(a.Finish(), opts...)
}
