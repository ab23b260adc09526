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

package vm

// Opcode identifies which of the five instructions an Instruction encodes.
type Opcode uint8

const (
	OpTest Opcode = iota
	OpJump
	OpRecord
	OpBad
	OpAccept
)

func (op Opcode) String() string {
	switch op {
	case OpTest:
		return "test"
	case OpJump:
		return "jump"
	case OpRecord:
		return "record"
	case OpBad:
		return "bad"
	case OpAccept:
		return "accept"
	default:
		return "unknown"
	}
}

// TestFunc decides whether a thread survives consuming item. data is the
// instruction's own payload, options is whatever the caller passed to
// Execute.
type TestFunc[T any] func(item T, data, options any) bool

// RecordFunc computes the value a record instruction emits. Returning nil
// suppresses the record for this thread.
type RecordFunc[T any] func(data any, inputIndex int, options any) any

// FailFunc gates a bad instruction at run time. A false return means "don't
// add this badness this time."
type FailFunc func(options any) bool

// Instruction is one opcode plus whatever side data that opcode needs. The
// Assembler returns the Instruction it just emitted so a caller can patch
// it afterwards -- most commonly a jump's Targets, once the branches it
// should fan out to have been emitted.
type Instruction[T any] struct {
	Op Opcode

	// test
	TestFn TestFunc[T]

	// jump
	Targets []int

	// record
	Data     any
	RecordFn RecordFunc[T]

	// bad
	Cost   int
	FailFn FailFunc
}

// AddTarget appends pc to a jump instruction's target list.
func (ins *Instruction[T]) AddTarget(pc int) {
	ins.Targets = append(ins.Targets, pc)
}

// cost resolves a bad instruction's configured cost, defaulting to 1.
func (ins *Instruction[T]) cost() int {
	if ins.Cost == 0 {
		return 1
	}
	return ins.Cost
}

// evalRecord computes the value a record instruction should emit, and
// whether it should be emitted at all.
func (ins *Instruction[T]) evalRecord(inputIndex int, options any) (value any, emit bool) {
	if ins.RecordFn == nil {
		return ins.Data, true
	}
	v := ins.RecordFn(ins.Data, inputIndex, options)
	if v == nil {
		return nil, false
	}
	return v, true
}

// Program is an ordered, immutable-after-assembly list of instructions.
// Program counters are indices into Instructions.
type Program[T any] struct {
	Instructions []*Instruction[T]
}

// Len reports the number of instructions in the program.
func (p *Program[T]) Len() int {
	return len(p.Instructions)
}
