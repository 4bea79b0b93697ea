package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		name     string
		program  Program
		expected string
	}{
		{
			name:    "empty program",
			program: Program{},
			expected: `section .data
section .text
global _start
_start:
    mov rax, 60
    xor rdi, rdi
    syscall
`,
		},
		{
			name: "variables and instructions",
			program: Program{
				Variables: []string{"x", "y"},
				Lines: []Line{
					Op2("mov", RAX, Imm(5)),
					Op2("mov", Mem("x"), RAX),
					Op1("push", RAX),
					Op2("mov", RAX, Mem("y")),
					Op2("cmp", RAX, Imm(0)),
					Op1("je", Ref(".L0")),
					Label(".L0"),
				},
			},
			expected: `section .data
x dq 0
y dq 0
section .text
global _start
_start:
    mov rax, 5
    mov [rel x], rax
    push rax
    mov rax, [rel y]
    cmp rax, 0
    je .L0
.L0:
    mov rax, 60
    xor rdi, rdi
    syscall
`,
		},
		{
			name: "comments",
			program: Program{
				Lines: []Line{
					Comment("(= x -1)"),
					{Op: "mov", Arity: 2, Arg1: RAX, Arg2: Imm(-1), Comment: "literal"},
				},
			},
			expected: `section .data
section .text
global _start
_start:
    ; (= x -1)
    mov rax, -1  ; literal
    mov rax, 60
    xor rdi, rdi
    syscall
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var sb strings.Builder
			err := Format(&sb, tc.program)
			be.Err(t, err, nil)
			be.Equal(t, sb.String(), tc.expected)
		})
	}
}

var errDiskFull = errors.New("disk full")

type failingWriter struct {
	remaining int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.remaining <= 0 {
		return 0, errDiskFull
	}
	w.remaining--
	return len(p), nil
}

func TestFormatStopsOnWriteError(t *testing.T) {
	w := &failingWriter{remaining: 2}
	err := Format(w, Program{Variables: []string{"x"}})
	be.True(t, errors.Is(err, errDiskFull))
	be.Equal(t, w.remaining, 0)
}

func TestFormatPanicsOnInvalidArg(t *testing.T) {
	defer func() {
		be.True(t, recover() != nil)
	}()
	var sb strings.Builder
	_ = Format(&sb, Program{Lines: []Line{Op1("push", Arg{})}})
}
