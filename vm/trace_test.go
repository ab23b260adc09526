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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceContains(t *testing.T) {
	root := newRootTrace(0, 8, 0)
	assert.True(t, root.Contains(0))
	assert.True(t, root.Contains(0, 0))
	assert.False(t, root.Contains(0, 1))
	assert.False(t, root.Contains(3))
}

func TestTraceForkCopiesAncestorVisitedSet(t *testing.T) {
	root := newRootTrace(0, 8, 0)
	child := root.fork(1, 0, "v", true)

	assert.True(t, child.Contains(0), "fork must inherit the parent's visited PCs")
	assert.True(t, child.Contains(1, 0))
	assert.Equal(t, []int{1}, child.Head)
	assert.Equal(t, []any{"v"}, child.Records)
	require.Len(t, child.Prefixes, 1)
	assert.Same(t, root, child.Prefixes[0])

	// Mutating the child's visited set must never leak back to root.
	child.visit(2, 0)
	assert.False(t, root.Contains(2))
}

func TestTraceJoinMergesVisitedByMax(t *testing.T) {
	a := newRootTrace(0, 4, 0)
	a.visit(2, 5)
	b := newRootTrace(0, 4, 0)
	b.visit(1, 9)
	b.visit(2, 1)

	a.Join(b, 0, 0)

	assert.True(t, a.Contains(1, 9))
	assert.True(t, a.Contains(2, 5), "join must keep the higher generation stamp per PC")
	require.Len(t, a.Prefixes, 1)
	assert.Same(t, b, a.Prefixes[0])
}

func TestTraceJoinRanksLowerBadnessPrefixFirst(t *testing.T) {
	root := newRootTrace(0, 4, 0)
	firstArrival := root.fork(1, 0, "first", true)
	t1 := firstArrival.fork(2, 0, nil, false) // t1.Prefixes == [firstArrival]

	cheaper := root.fork(1, 0, "cheaper", true)
	t1.Join(cheaper, 1, 5) // cheaper's badness (1) beats the running badness (5)

	require.Len(t, t1.Prefixes, 2)
	assert.Same(t, cheaper, t1.Prefixes[0], "lower-badness arrival must rank first")
	assert.Same(t, firstArrival, t1.Prefixes[1])

	evenCheaper := root.fork(1, 0, "even cheaper", true)
	t1.Join(evenCheaper, 0, 1) // beats the new running badness (1) too

	require.Len(t, t1.Prefixes, 3)
	assert.Same(t, evenCheaper, t1.Prefixes[0], "each new lowest-badness arrival displaces the previous one")

	pricier := root.fork(1, 0, "pricier", true)
	t1.Join(pricier, 9, 0) // worse than the running badness (0): stays at the back

	require.Len(t, t1.Prefixes, 4)
	assert.Same(t, evenCheaper, t1.Prefixes[0], "a higher-badness arrival must not displace the ranked leader")
	assert.Same(t, pricier, t1.Prefixes[3])
}

func TestTraceCompactFlattensSinglePrefixChain(t *testing.T) {
	root := newRootTrace(0, 8, 0)
	n1 := root.fork(1, 0, "a", true)
	n2 := n1.fork(2, 0, "b", true)
	n3 := n2.fork(3, 0, nil, false)

	n3.Compact()

	assert.Equal(t, []int{0, 1, 2, 3}, n3.Head)
	assert.Equal(t, []any{"a", "b"}, n3.Records)
	assert.Empty(t, n3.Prefixes)
}

func TestTraceCompactIsIdempotent(t *testing.T) {
	root := newRootTrace(0, 8, 0)
	n1 := root.fork(1, 0, "a", true)
	n2 := n1.fork(2, 0, "b", true)

	n2.Compact()
	head := append([]int{}, n2.Head...)
	records := append([]any{}, n2.Records...)

	n2.Compact()
	assert.Equal(t, head, n2.Head)
	assert.Equal(t, records, n2.Records)
	assert.Empty(t, n2.Prefixes)
}

func TestTraceCompactPreservesGenuineJoins(t *testing.T) {
	root := newRootTrace(0, 8, 0)
	left := root.fork(1, 0, "left", true)
	right := root.fork(2, 0, "right", true)
	left.Join(right, 0, 0)
	tip := left.fork(3, 0, nil, false)

	tip.Compact()

	// tip had a single prefix (left), so left's single-prefix chain folds
	// into tip itself; the join left picked up along the way (root, right)
	// survives as tip's two remaining, independently-compacted prefixes.
	assert.Equal(t, []int{0, 1, 3}, tip.Head)
	require.Len(t, tip.Prefixes, 2)
	assert.Equal(t, []int{0}, tip.Prefixes[0].Head)
	assert.Equal(t, []int{0, 2}, tip.Prefixes[1].Head)
}
