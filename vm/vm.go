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
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// InputAdapter supplies the next input item on each call. A false second
// return means end-of-input. Execute calls it exactly once per generation
// advance -- never more, never speculatively.
type InputAdapter[T any] func() (item T, ok bool)

// Option configures a VM at construction time.
type Option func(*config)

type config struct {
	id          string
	diagnostics io.Writer
}

// WithID overrides a VM's auto-generated diagnostic identifier. Mostly
// useful in tests, where a stable ID is easier to assert on than a fresh
// UUID.
func WithID(id string) Option {
	return func(c *config) { c.id = id }
}

// WithDiagnostics makes Execute write one line per generation -- its
// number, live thread count, and how many threads accepted or failed -- to
// w. It is the uncommented-out version of the habit of leaving a debug
// Printf in the middle of a dispatch loop.
func WithDiagnostics(w io.Writer) Option {
	return func(c *config) { c.diagnostics = w }
}

// VM holds a compiled, immutable Program. A VM is reusable and safe to
// Execute concurrently from multiple goroutines: a run's state lives
// entirely in its own threads and traces, never on the VM itself.
type VM[T any] struct {
	program     *Program[T]
	id          string
	diagnostics io.Writer
}

// New wraps prog into an executable VM. Most callers go through
// asm.CompileVM instead of calling New directly.
func New[T any](prog *Program[T], opts ...Option) *VM[T] {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	id := cfg.id
	if id == "" {
		id = uuid.NewString()
	}
	return &VM[T]{program: prog, id: id, diagnostics: cfg.diagnostics}
}

// ID returns this VM's diagnostic identifier.
func (m *VM[T]) ID() string { return m.id }

// Program exposes the compiled program, chiefly so Disassemble can inspect
// it.
func (m *VM[T]) Program() *Program[T] { return m.program }

// Result is what Execute produces: whether the input matched, plus the
// accepting and failing traces that explain why.
type Result struct {
	Success         bool
	AcceptingTraces []*Trace
	FailingTraces   []*Trace
	RunID           string
}

// Execute runs the VM to completion against input, threading options
// through every test, record and bad callback. It returns a non-nil error
// only for context cancellation or a panic recovered from a user callback;
// an ordinary non-match is Result.Success == false, not an error.
func (m *VM[T]) Execute(ctx context.Context, input InputAdapter[T], options any) (res Result, err error) {
	defer func() {
		if e := recover(); e == nil {
			return
		} else if asErr, ok := e.(error); ok {
			err = errors.Wrapf(asErr, "whynot: recovered panic in callback (vm %s)", m.id)
		} else {
			err = errors.Errorf("whynot: recovered panic in callback (vm %s): %v", m.id, e)
		}
		res = Result{}
	}()

	runID := uuid.NewString()
	programLen := m.program.Len()

	current := newThreadList(0)
	current.add(0, 0, newRootTrace(0, programLen, 0))

	var failing []*Trace
	var accepting []*Trace

	item, ok := input()
	for {
		if ctx != nil {
			if cErr := ctx.Err(); cErr != nil {
				return Result{}, cErr
			}
		}

		failedBefore := len(failing)
		next, accepted := stepGeneration(m.program, current, options, item, ok, &failing)
		accepting = append(accepting, accepted.traces...)
		m.logGeneration(current.Generation, current.Len(), len(accepted.traces), len(failing)-failedBefore)

		if !ok || next.Len() == 0 {
			break
		}
		current = next
		item, ok = input()
	}

	for _, t := range accepting {
		t.Compact()
	}
	for _, t := range failing {
		t.Compact()
	}

	return Result{
		Success:         len(accepting) > 0,
		AcceptingTraces: accepting,
		FailingTraces:   failing,
		RunID:           runID,
	}, nil
}

func (m *VM[T]) logGeneration(generation, live, accepted, failed int) {
	if m.diagnostics == nil {
		return
	}
	fmt.Fprintf(m.diagnostics, "whynot: vm=%s gen=%d live=%d accepted=%d failed=%d\n",
		m.id, generation, live, accepted, failed)
}
