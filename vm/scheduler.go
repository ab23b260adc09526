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

// acceptBucket collects the traces that reached accept during a single
// generation, deduplicated by the accept instruction's PC the same way a
// ThreadList deduplicates live threads. It tracks each entry's badness
// alongside its trace so that a later merge at the same PC can rank the
// lower-badness branch first, exactly like ThreadList.add.
type acceptBucket struct {
	traces  []*Trace
	badness []int
	index   map[int]int
}

func newAcceptBucket() *acceptBucket {
	return &acceptBucket{index: make(map[int]int)}
}

func (b *acceptBucket) add(pc, badness int, trace *Trace) {
	if i, ok := b.index[pc]; ok {
		b.traces[i].Join(trace, badness, b.badness[i])
		if badness < b.badness[i] {
			b.badness[i] = badness
		}
		return
	}
	b.index[pc] = len(b.traces)
	b.traces = append(b.traces, trace)
	b.badness = append(b.badness, badness)
}

// forkSpec describes the new Trace node (if any) a thread should carry
// after advancing to a new PC.
type forkSpec struct {
	pc     int
	value  any
	hasVal bool
}

// advance tries to move a thread to targetPC within list. If source has
// already visited targetPC in generation, the thread is dropped -- this is
// the epsilon-cycle guard that makes jump-to-self and similar loops
// terminate. Otherwise, if fork is non-nil a new Trace node tagged at
// fork.pc becomes the thread's trace (test, and a record that emits a
// value); if fork is nil, source is reused and mutated in place (jump, bad,
// and a record whose value is suppressed, which don't change what a trace
// explains, only where threads are).
func advance(list *ThreadList, targetPC, badness int, source *Trace, generation int, fork *forkSpec) {
	if source.Contains(targetPC, generation) {
		return
	}
	trace := source
	if fork != nil {
		trace = source.fork(fork.pc, generation, fork.value, fork.hasVal)
	}
	trace.visit(targetPC, generation)
	list.add(targetPC, badness, trace)
}

// stepGeneration drains current -- which may grow while draining, since
// jump, record and bad requeue threads within the same generation -- against
// a single input item. It returns the ThreadList seeded for the next
// generation and the traces that reached accept at this position (only when
// ok is false, i.e. the input is exhausted); traces that could not proceed
// (a failed test, a test with no item left to consume, or an accept reached
// while input remains) are appended to *failing.
func stepGeneration[T any](prog *Program[T], current *ThreadList, options any, item T, ok bool, failing *[]*Trace) (*ThreadList, *acceptBucket) {
	gen := current.Generation
	next := newThreadList(gen + 1)
	accepted := newAcceptBucket()

	for i := 0; i < current.Len(); i++ {
		th := current.dispatch(i)
		pc := th.PC
		if pc < 0 || pc >= len(prog.Instructions) {
			// A PC outside program bounds is a programmer error, not a
			// runtime fault: the thread simply dies.
			continue
		}
		ins := prog.Instructions[pc]

		switch ins.Op {
		case OpTest:
			if !ok || !ins.TestFn(item, ins.Data, options) {
				*failing = append(*failing, th.Trace)
				continue
			}
			advance(next, pc+1, th.Badness, th.Trace, next.Generation, &forkSpec{pc: pc + 1})

		case OpJump:
			// The first target reuses th.Trace in place -- it is the sole
			// live reference once th is dispatched. Every further target
			// gets its own clone, taken before any target is advanced:
			// advance mutates its source's visited set in place, so cloning
			// lazily inside this loop would copy a sibling target's stamp
			// onto a branch that never actually visited it. Without a clone
			// at all, a later merge on one target's trace (ThreadList.add's
			// Join) would mutate the very same object another still-queued
			// target's thread is holding.
			srcs := make([]*Trace, len(ins.Targets))
			for ti := range ins.Targets {
				if ti == 0 {
					srcs[ti] = th.Trace
				} else {
					srcs[ti] = th.Trace.clone()
				}
			}
			for ti, target := range ins.Targets {
				advance(current, target, th.Badness, srcs[ti], gen, nil)
			}

		case OpRecord:
			value, emit := ins.evalRecord(gen, options)
			var fork *forkSpec
			if emit {
				fork = &forkSpec{pc: pc, value: value, hasVal: true}
			}
			advance(current, pc+1, th.Badness, th.Trace, gen, fork)

		case OpBad:
			badness := th.Badness
			if ins.FailFn == nil || ins.FailFn(options) {
				badness += ins.cost()
			}
			advance(current, pc+1, badness, th.Trace, gen, nil)

		case OpAccept:
			if ok {
				// Input remains: accept only counts once every item is consumed.
				*failing = append(*failing, th.Trace)
				continue
			}
			trace := th.Trace
			if len(trace.Head) != 1 || trace.Head[0] != pc {
				trace = trace.fork(pc, gen, nil, false)
			}
			accepted.add(pc, th.Badness, trace)
		}
	}

	return next, accepted
}
