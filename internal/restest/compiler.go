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

// Package restest compiles a tiny regular-expression subset -- literals,
// ".", "(...)", "|" and "*" -- straight to a vm.Program[rune] via
// asm.Assembler. It exists purely so the vm/asm test suite has a compact,
// readable way to build the kind of branchy, ambiguous programs a real
// structure matcher needs to exercise, without the VM itself growing a
// public regex frontend. Nothing outside this module's tests should depend
// on it.
package restest

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Martinn1996/whynot/asm"
	"github.com/Martinn1996/whynot/vm"
)

// node is the tiny AST this package's parser produces.
type node interface{}

type litNode rune

type anyNode struct{}

type groupNode struct {
	idx   int
	inner node
}

type concatNode []node

type altNode []node

type starNode struct{ inner node }

type parser struct {
	src    []rune
	pos    int
	groups int
}

// Parse compiles pattern into an AST. It supports literal runes, ".", "|"
// alternation, "(...)" grouping and postfix "*" (greedy, zero or more).
func Parse(pattern string) (node, error) {
	p := &parser{src: []rune(pattern)}
	n, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, errors.Errorf("restest: unexpected %q at offset %d", p.src[p.pos], p.pos)
	}
	return n, nil
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) parseAlt() (node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	branches := altNode{first}
	for {
		c, ok := p.peek()
		if !ok || c != '|' {
			break
		}
		p.pos++
		n, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, n)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return branches, nil
}

func (p *parser) parseConcat() (node, error) {
	var items concatNode
	for {
		c, ok := p.peek()
		if !ok || c == '|' || c == ')' {
			break
		}
		n, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return items, nil
}

func (p *parser) parsePostfix() (node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		c, ok := p.peek()
		if !ok || c != '*' {
			break
		}
		p.pos++
		n = starNode{inner: n}
	}
	return n, nil
}

func (p *parser) parseAtom() (node, error) {
	c, ok := p.peek()
	if !ok {
		return nil, errors.New("restest: unexpected end of pattern")
	}
	switch c {
	case '(':
		p.pos++
		p.groups++
		idx := p.groups
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		c, ok := p.peek()
		if !ok || c != ')' {
			return nil, errors.New("restest: unterminated group")
		}
		p.pos++
		return groupNode{idx: idx, inner: inner}, nil
	case '.':
		p.pos++
		return anyNode{}, nil
	default:
		p.pos++
		return litNode(c), nil
	}
}

// Compile parses pattern and emits it into a fresh Assembler, terminated
// with an accept instruction. Each group records a [groupIdx, "enter"] and
// [groupIdx, "exit"] pair as it is matched; a generic "." consumption costs
// badness 1, so explicit literal matches are always preferred explanations
// over a catch-all wildcard covering the same input.
func Compile(pattern string) (*asm.Assembler[rune], error) {
	n, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	a := asm.NewAssembler[rune]()
	emit(a, n)
	a.Accept()
	return a, nil
}

// CompileVM is Compile followed by asm.CompileVM, for callers that just
// want a ready-to-run VM.
func CompileVM(pattern string, opts ...vm.Option) (*vm.VM[rune], error) {
	n, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	return asm.CompileVM(func(a *asm.Assembler[rune]) {
		emit(a, n)
		a.Accept()
	}, opts...), nil
}

func emit(a *asm.Assembler[rune], n node) {
	switch v := n.(type) {
	case litNode:
		r := rune(v)
		a.Test(func(item rune, _, _ any) bool { return item == r })

	case anyNode:
		a.Test(func(rune, any, any) bool { return true })
		a.Bad(1, nil)

	case groupNode:
		a.Record(groupEvent{idx: v.idx, enter: true}, nil)
		emit(a, v.inner)
		a.Record(groupEvent{idx: v.idx, enter: false}, nil)

	case concatNode:
		for _, c := range v {
			emit(a, c)
		}

	case altNode:
		split := a.Jump()
		var branchStarts []int
		var branchEnds []*vm.Instruction[rune]
		for i, branch := range v {
			branchStarts = append(branchStarts, a.Len())
			emit(a, branch)
			if i != len(v)-1 {
				branchEnds = append(branchEnds, a.Jump())
			}
		}
		end := a.Len()
		split.Targets = branchStarts
		for _, j := range branchEnds {
			j.Targets = []int{end}
		}

	case starNode:
		loopStart := a.Len()
		split := a.Jump()
		bodyStart := a.Len()
		emit(a, v.inner)
		back := a.Jump(loopStart)
		_ = back
		exit := a.Len()
		split.Targets = []int{bodyStart, exit}

	default:
		panic(fmt.Sprintf("restest: unhandled node %T", n))
	}
}

// groupEvent is the value recorded on entering/exiting a capturing group.
type groupEvent struct {
	idx   int
	enter bool
}

func (g groupEvent) String() string {
	if g.enter {
		return fmt.Sprintf("enter(%d)", g.idx)
	}
	return fmt.Sprintf("exit(%d)", g.idx)
}
