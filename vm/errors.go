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

import "github.com/pkg/errors"

// Error describes a diagnostic-time fault, such as disassembling a PC
// outside a program's bounds. Execute itself never returns one of these: a
// malformed program just fails to produce any accepting trace, rather than
// raising an exception mid-run.
type Error struct {
	PC  int
	Err error
}

func (e *Error) Error() string {
	return errors.Wrapf(e.Err, "whynot: program error at pc %d", e.PC).Error()
}

func (e *Error) Unwrap() error { return e.Err }
