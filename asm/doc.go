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

// Package asm builds vm.Programs programmatically.
//
// There is no textual assembly syntax here -- Program construction is a
// Go API, not a little language with its own parser. An Assembler is a
// thin, append-only builder: each Test, Jump, Record, Bad or Accept call
// emits one instruction at the next PC and hands back a pointer to it, so a
// caller can patch a jump's targets once it knows where the branches it
// should fan out to actually landed. This is the same back-patching idiom a
// hand-written assembler uses for forward labels, just without the label
// table -- callers track PCs themselves, usually via Assembler.Len.
//
// CompileVM wraps the common "build a program, then turn it into a VM"
// pipeline into one call.
package asm
