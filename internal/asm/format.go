package asm

import (
	"fmt"
	"io"
)

// errWriter remembers the first write error so formatting code can stay linear.
type errWriter struct {
	out io.Writer
	err error
}

func (w *errWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}

// Format writes p as NASM source. The first write error aborts formatting and is returned.
func Format(out io.Writer, p Program) error {
	w := &errWriter{out: out}

	w.printf("section .data\n")
	for _, name := range p.Variables {
		w.printf("%s dq 0\n", name)
	}

	w.printf("section .text\n")
	w.printf("global _start\n")
	w.printf("_start:\n")

	for _, line := range p.Lines {
		formatLine(w, line)
	}
	for _, line := range ExitSequence() {
		formatLine(w, line)
	}

	return w.err
}

func formatLine(w *errWriter, line Line) {
	if line.Label != "" {
		w.printf("%s:", line.Label)
	} else if line.Op != "" {
		w.printf("    %s", line.Op)

		if line.Arity >= 1 {
			w.printf(" %s", argToString(line.Arg1))
		}
		if line.Arity >= 2 {
			w.printf(", %s", argToString(line.Arg2))
		}
	}

	if line.Comment != "" {
		if line.Label == "" && line.Op == "" {
			w.printf("    ; %s", line.Comment)
		} else {
			w.printf("  ; %s", line.Comment)
		}
	}

	w.printf("\n")
}

func argToString(arg Arg) string {
	if arg.Deref {
		if arg.Label == "" {
			panic(fmt.Errorf("invalid arg %#v. dereferencing only supported for labels", arg))
		}
		return fmt.Sprintf("[rel %s]", arg.Label)
	}

	if arg.Reg != "" {
		return arg.Reg
	} else if arg.Label != "" {
		return arg.Label
	} else if arg.Imm != nil {
		return fmt.Sprintf("%d", *arg.Imm)
	}
	panic(fmt.Errorf("invalid arg %#v", arg))
}
