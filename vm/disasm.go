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

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/Martinn1996/whynot/internal/vmutil"
)

// Disassemble writes a one-line textual form of the instruction at pc to w.
func Disassemble[T any](prog *Program[T], pc int, w io.Writer) error {
	if pc < 0 || pc >= len(prog.Instructions) {
		return &Error{PC: pc, Err: errors.New("pc out of range")}
	}
	ins := prog.Instructions[pc]
	ew := vmutil.NewErrWriter(w)
	switch ins.Op {
	case OpJump:
		fmt.Fprintf(ew, "jump %v", ins.Targets)
	case OpRecord:
		fmt.Fprintf(ew, "record %v", ins.Data)
	case OpBad:
		fmt.Fprintf(ew, "bad %d", ins.cost())
	case OpAccept:
		fmt.Fprint(ew, "accept")
	default:
		fmt.Fprint(ew, ins.Op.String())
	}
	return ew.Err
}

// DisassembleAll writes one line per instruction in prog to w, each
// prefixed with its PC.
func DisassembleAll[T any](prog *Program[T], w io.Writer) error {
	ew := vmutil.NewErrWriter(w)
	for pc := range prog.Instructions {
		fmt.Fprintf(ew, "%d\t", pc)
		if err := Disassemble(prog, pc, ew); err != nil {
			return err
		}
		fmt.Fprint(ew, "\n")
		if ew.Err != nil {
			return ew.Err
		}
	}
	return ew.Err
}

// Dump writes a readable rendering of a trace's head and records to w. Call
// it on a compacted trace (the kind Execute returns) for a meaningful
// result; an in-flight trace's head is just its latest single PC.
func (t *Trace) Dump(w io.Writer) error {
	ew := vmutil.NewErrWriter(w)
	fmt.Fprintf(ew, "head=%v records=%v joins=%d", t.Head, t.Records, len(t.Prefixes))
	return ew.Err
}
