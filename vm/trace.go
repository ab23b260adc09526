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

// Trace is a node in the provenance DAG built up while a thread executes.
// Head lists the program counters that contributed to this node (a single
// PC until Compact folds ancestors in), Records holds whatever values those
// PCs emitted, and Prefixes points at the predecessor traces this node was
// joined from.
//
// Traces are owned by the Result they end up in once a run finishes and
// must not be mutated by callers. During a run, the unexported visited set
// is the only thing that still changes underneath a Trace a caller might
// already be holding a pointer to (via an earlier merge) -- it is pure
// bookkeeping to catch epsilon cycles and never affects Head or Records.
type Trace struct {
	Head     []int
	Records  []any
	Prefixes []*Trace

	visited []int32
}

const notVisited int32 = -1

// newRootTrace allocates the very first Trace of a run, at pc with a freshly
// sized visited set.
func newRootTrace(pc, programLen, generation int) *Trace {
	visited := make([]int32, programLen)
	for i := range visited {
		visited[i] = notVisited
	}
	t := &Trace{Head: []int{pc}, visited: visited}
	t.visited[pc] = int32(generation)
	return t
}

// fork creates a new Trace whose sole prefix is t, tagged at pc. If hasRec
// is true, rec is appended to the new node's Records.
func (t *Trace) fork(pc, generation int, rec any, hasRec bool) *Trace {
	visited := make([]int32, len(t.visited))
	copy(visited, t.visited)
	nt := &Trace{
		Head:     []int{pc},
		Prefixes: []*Trace{t},
		visited:  visited,
	}
	if hasRec {
		nt.Records = []any{rec}
	}
	nt.visited[pc] = int32(generation)
	return nt
}

// Join merges prefix into t's provenance: prefix becomes an additional
// predecessor of t, and t's visited set absorbs prefix's per-PC generation
// stamps by taking the per-PC maximum. Used whenever two threads converge on
// the same PC within a generation.
//
// prefixBadness and existingBadness are the badness of the thread prefix
// came from and of the thread t already represents, respectively. The lower
// of the two is kept first in Prefixes, so Prefixes[0] is always the
// lowest-badness predecessor -- the branch a caller should read first when
// picking "the" explanation for a merged trace.
func (t *Trace) Join(prefix *Trace, prefixBadness, existingBadness int) {
	if prefixBadness < existingBadness {
		t.Prefixes = append([]*Trace{prefix}, t.Prefixes...)
	} else {
		t.Prefixes = append(t.Prefixes, prefix)
	}
	for i, g := range prefix.visited {
		if g > t.visited[i] {
			t.visited[i] = g
		}
	}
}

// clone returns a copy of t with its own independent visited set. Head,
// Records and Prefixes are never mutated in place once set (fork and Compact
// always allocate new slices rather than writing into existing ones), so
// sharing those three fields between t and the clone is safe; only visited
// is ever mutated directly (by visit and Join), which is exactly why a clone
// needs its own copy of it.
//
// Used when a single trace must be handed to more than one live thread at
// once (a jump fanning out to several targets): without independent visited
// sets, a later Join on one target's trace would silently mutate the state
// another still-queued target's thread is relying on.
func (t *Trace) clone() *Trace {
	visited := make([]int32, len(t.visited))
	copy(visited, t.visited)
	return &Trace{Head: t.Head, Records: t.Records, Prefixes: t.Prefixes, visited: visited}
}

// Contains reports whether pc was ever visited on this trace's lineage (no
// generation given), or whether it was visited in exactly the given
// generation.
func (t *Trace) Contains(pc int, generation ...int) bool {
	if pc < 0 || pc >= len(t.visited) {
		return false
	}
	if len(generation) == 0 {
		return t.visited[pc] != notVisited
	}
	return t.visited[pc] == int32(generation[0])
}

// visit stamps pc as visited in generation without creating a new node.
// advance calls it for every move, on the forked trace or, for jump, bad and
// a suppressed record, on the thread's existing trace.
func (t *Trace) visit(pc, generation int) {
	t.visited[pc] = int32(generation)
}

// Compact collapses chains of single-prefix nodes into their successor, so
// that every remaining node is either a root (no prefixes) or a genuine join
// (two or more). It mutates t and any single-prefix ancestors reachable
// through it in place, and is idempotent: compacting an already-compacted
// trace is a no-op.
func (t *Trace) Compact() *Trace {
	for len(t.Prefixes) == 1 {
		p := t.Prefixes[0]
		t.Head = append(append([]int{}, p.Head...), t.Head...)
		if len(p.Records) > 0 || len(t.Records) > 0 {
			t.Records = append(append([]any{}, p.Records...), t.Records...)
		}
		t.Prefixes = p.Prefixes
	}
	for i, p := range t.Prefixes {
		t.Prefixes[i] = p.Compact()
	}
	return t
}
