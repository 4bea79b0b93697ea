package codegen

import (
	"fmt"
	"strings"
)

// NASM reads these as registers, directives, operand keywords or instructions rather than
// labels, and matches them without regard to case.
var reservedNames = map[string]struct{}{}

func init() {
	for _, group := range [][]string{
		// 64-bit registers and their narrower views
		{"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp", "rip"},
		{"eax", "ebx", "ecx", "edx", "esi", "edi", "ebp", "esp", "eip"},
		{"ax", "bx", "cx", "dx", "si", "di", "bp", "sp", "ip"},
		{"al", "bl", "cl", "dl", "sil", "dil", "bpl", "spl", "ah", "bh", "ch", "dh"},
		{"cs", "ds", "es", "fs", "gs", "ss"},
		// directives and operand keywords
		{"section", "segment", "global", "extern", "default", "bits", "org", "align", "times", "equ"},
		{"db", "dw", "dd", "dq", "dt", "do", "dy", "dz", "resb", "resw", "resd", "resq"},
		{"byte", "word", "dword", "qword", "tword", "oword", "rel", "abs", "strict", "near", "far", "short"},
		// mnemonics emitted by the generator
		{"mov", "movzx", "push", "pop", "add", "sub", "cmp", "je", "jmp", "setl", "setg", "xor", "syscall"},
	} {
		for _, name := range group {
			reservedNames[name] = struct{}{}
		}
	}
	for i := 8; i <= 15; i++ {
		for _, suffix := range []string{"", "d", "w", "b"} {
			reservedNames[fmt.Sprintf("r%d%s", i, suffix)] = struct{}{}
		}
	}
}

func isReservedName(name string) bool {
	_, ok := reservedNames[strings.ToLower(name)]
	return ok
}
