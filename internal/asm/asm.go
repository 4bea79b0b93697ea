package asm

var (
	RAX = Arg{Reg: "rax"}
	RBX = Arg{Reg: "rbx"}
	RDI = Arg{Reg: "rdi"}
	AL  = Arg{Reg: "al"}
)

// Program is a complete x86-64 Linux program: zero-initialised qword variables
// in the data section and a single _start routine.
type Program struct {
	Variables []string
	Lines     []Line
}

type Line struct {
	Comment string
	Label   string
	Op      string
	Arity   int
	Arg1    Arg
	Arg2    Arg
}

type Arg struct {
	Reg   string
	Imm   *int64
	Label string
	Deref bool
}

func (a Arg) AsDeref() Arg {
	result := a
	result.Deref = true
	return result
}

func Imm(value int64) Arg {
	return Arg{Imm: &value}
}

func Reg(reg string) Arg {
	return Arg{Reg: reg}
}

func Ref(label string) Arg {
	return Arg{Label: label}
}

// Mem addresses the qword stored at a data label.
func Mem(label string) Arg {
	return Ref(label).AsDeref()
}

func Op0(op string) Line {
	return Line{Op: op}
}

func Op1(op string, arg Arg) Line {
	return Line{Op: op, Arity: 1, Arg1: arg}
}

func Op2(op string, arg1, arg2 Arg) Line {
	return Line{Op: op, Arity: 2, Arg1: arg1, Arg2: arg2}
}

func Comment(text string) Line {
	return Line{Comment: text}
}

func Label(text string) Line {
	return Line{Label: text}
}

// ExitSequence terminates the process with status 0 via the exit syscall.
func ExitSequence() []Line {
	return []Line{
		Op2("mov", RAX, Imm(60)),
		Op2("xor", RDI, RDI),
		Op0("syscall"),
	}
}
