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

// ThreadList is an ordered, per-generation collection of live threads. At
// most one thread may occupy a given PC at a time; add merges a second
// arrival into the one already there instead of creating a duplicate.
type ThreadList struct {
	Generation int

	threads []*Thread
	index   map[int]int
}

func newThreadList(generation int) *ThreadList {
	return &ThreadList{Generation: generation, index: make(map[int]int)}
}

// Len reports how many threads are currently queued. It is read fresh on
// every call, so a caller iterating by index sees threads appended mid-loop
// -- which is exactly how jump, record and bad requeue work within a single
// generation.
func (l *ThreadList) Len() int { return len(l.threads) }

// At returns the thread at index i without removing it.
func (l *ThreadList) At(i int) *Thread { return l.threads[i] }

// add inserts a thread at pc, merging it into any existing thread already
// occupying pc this generation: their traces join and the lower badness
// wins. It reports whether a new thread was actually added.
func (l *ThreadList) add(pc, badness int, trace *Trace) bool {
	if i, ok := l.index[pc]; ok {
		existing := l.threads[i]
		existing.Trace.Join(trace, badness, existing.Badness)
		if badness < existing.Badness {
			existing.Badness = badness
		}
		return false
	}
	l.index[pc] = len(l.threads)
	l.threads = append(l.threads, &Thread{PC: pc, Badness: badness, Trace: trace})
	return true
}

// dispatch returns the thread at index i and frees its PC slot, so that a
// later add for the same PC starts a fresh thread rather than merging into
// one that has already moved on.
func (l *ThreadList) dispatch(i int) *Thread {
	th := l.threads[i]
	if cur, ok := l.index[th.PC]; ok && cur == i {
		delete(l.index, th.PC)
	}
	return th
}
