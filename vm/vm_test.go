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

package vm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Martinn1996/whynot/asm"
	"github.com/Martinn1996/whynot/vm"
)

// runeFeed turns a string into an InputAdapter[rune], the idiomatic Go
// stand-in for "a nullary callable returning an item or a null sentinel".
func runeFeed(s string) vm.InputAdapter[rune] {
	runes := []rune(s)
	i := 0
	return func() (rune, bool) {
		if i >= len(runes) {
			return 0, false
		}
		r := runes[i]
		i++
		return r, true
	}
}

func literalVM(lit string) *vm.VM[rune] {
	return asm.CompileVM(func(a *asm.Assembler[rune]) {
		for _, r := range lit {
			r := r
			a.Test(func(item rune, _, _ any) bool { return item == r })
		}
		a.Accept()
	})
}

func TestExecuteLiteralMatch(t *testing.T) {
	m := literalVM("abc")
	res, err := m.Execute(context.Background(), runeFeed("abc"), nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.AcceptingTraces, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, res.AcceptingTraces[0].Head)
}

func TestExecuteLiteralMismatchFails(t *testing.T) {
	m := literalVM("abc")
	res, err := m.Execute(context.Background(), runeFeed("abd"), nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.AcceptingTraces)
	require.NotEmpty(t, res.FailingTraces)
}

func TestExecuteSuccessIffAcceptingTracesNonEmpty(t *testing.T) {
	m := literalVM("a")
	for _, in := range []string{"a", "b", ""} {
		res, err := m.Execute(context.Background(), runeFeed(in), nil)
		require.NoError(t, err)
		assert.Equal(t, len(res.AcceptingTraces) > 0, res.Success, "input %q", in)
	}
}

func TestExecuteIsDeterministic(t *testing.T) {
	m := asm.CompileVM(func(a *asm.Assembler[rune]) {
		split := a.Jump()
		b1 := a.Len()
		a.Test(func(item rune, _, _ any) bool { return item == 'a' })
		j1 := a.Jump()
		b2 := a.Len()
		a.Test(func(item rune, _, _ any) bool { return item == 'a' })
		end := a.Len()
		split.Targets = []int{b1, b2}
		j1.Targets = []int{end}
		a.Accept()
	})

	var first vm.Result
	for i := 0; i < 5; i++ {
		res, err := m.Execute(context.Background(), runeFeed("a"), nil)
		require.NoError(t, err)
		if i == 0 {
			first = res
		} else {
			require.Equal(t, first.Success, res.Success)
			require.Equal(t, len(first.AcceptingTraces), len(res.AcceptingTraces))
		}
	}
}

func TestExecuteJumpToSelfTerminates(t *testing.T) {
	m := asm.CompileVM(func(a *asm.Assembler[rune]) {
		loop := a.Len()
		j := a.Jump()
		j.Targets = []int{loop}
		a.Accept()
	})

	res, err := m.Execute(context.Background(), runeFeed(""), nil)
	require.NoError(t, err)
	assert.False(t, res.Success, "a jump-to-self with no reachable accept must terminate, not match")
}

func TestExecuteBadnessOrdersAlternatives(t *testing.T) {
	// Two parallel paths both match "a": one plain, one penalized by bad(3).
	// The dedup merge at the shared accept PC must keep the lower badness,
	// and must rank the cheap branch first among the merged explanations,
	// not merely keep one survivor.
	m := asm.CompileVM(func(a *asm.Assembler[rune]) {
		split := a.Jump()
		cheap := a.Len()
		a.Record("cheap", nil)
		a.Test(func(item rune, _, _ any) bool { return item == 'a' })
		jCheap := a.Jump()

		expensive := a.Len()
		a.Record("expensive", nil)
		a.Test(func(item rune, _, _ any) bool { return item == 'a' })
		a.Bad(3, nil)
		jExpensive := a.Jump()

		accept := a.Len()
		a.Accept()

		split.Targets = []int{cheap, expensive}
		jCheap.Targets = []int{accept}
		jExpensive.Targets = []int{accept}
	})

	res, err := m.Execute(context.Background(), runeFeed("a"), nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.AcceptingTraces, 1, "both paths converge on the same accept PC and must merge into one trace")

	merged := res.AcceptingTraces[0]
	require.Len(t, merged.Prefixes, 2, "the merge must preserve both alternatives as distinct explanations")
	assert.Equal(t, []any{"cheap"}, merged.Prefixes[0].Records, "the lower-badness branch must rank first")
	assert.Equal(t, []any{"expensive"}, merged.Prefixes[1].Records)
}

func TestExecutePanicInCallbackIsRecoveredAsError(t *testing.T) {
	m := asm.CompileVM(func(a *asm.Assembler[rune]) {
		a.Test(func(rune, any, any) bool { panic("boom") })
		a.Accept()
	})
	res, err := m.Execute(context.Background(), runeFeed("a"), nil)
	require.Error(t, err)
	assert.Equal(t, vm.Result{}, res)
}

func TestExecuteRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := literalVM("a")
	_, err := m.Execute(ctx, runeFeed("a"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteRecordEmitsValuesInOrder(t *testing.T) {
	m := asm.CompileVM(func(a *asm.Assembler[rune]) {
		a.Record("start", nil)
		a.Test(func(item rune, _, _ any) bool { return item == 'x' })
		a.Record("end", nil)
		a.Accept()
	})
	res, err := m.Execute(context.Background(), runeFeed("x"), nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.AcceptingTraces, 1)
	assert.Equal(t, []any{"start", "end"}, res.AcceptingTraces[0].Records)
}

func TestExecuteNilRecordFuncSuppressesEmission(t *testing.T) {
	m := asm.CompileVM(func(a *asm.Assembler[rune]) {
		a.Record("x", func(any, int, any) any { return nil })
		a.Accept()
	})
	res, err := m.Execute(context.Background(), runeFeed(""), nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Empty(t, res.AcceptingTraces[0].Records)
}
