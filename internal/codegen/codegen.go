package codegen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/iley/minic/internal/asm"
	"github.com/iley/minic/internal/ast"
)

const DefaultMaxVariables = 100

type Config struct {
	// MaxVariables caps the number of registered variables. Zero means DefaultMaxVariables.
	MaxVariables int
	// Annotate emits a comment with the source form of every statement.
	Annotate bool
}

// Generator lowers one AST into x86-64 NASM text. Its state (registered variables
// and the label counter) belongs to a single run; use a separate Generator for
// each concurrent run.
type Generator struct {
	cfg        Config
	variables  []string
	registered map[string]struct{}
	labelCount int
}

func New(cfg Config) *Generator {
	if cfg.MaxVariables <= 0 {
		cfg.MaxVariables = DefaultMaxVariables
	}
	return &Generator{
		cfg:        cfg,
		registered: make(map[string]struct{}),
	}
}

// RegisterVariable declares a qword in the data section. Variables are emitted in registration order.
func (g *Generator) RegisterVariable(name string) error {
	if isReservedName(name) {
		return &ReservedNameError{Name: name}
	}
	if _, ok := g.registered[name]; ok {
		return &DuplicateVariableError{Name: name}
	}
	if len(g.variables) >= g.cfg.MaxVariables {
		return &CapacityExceededError{Name: name, Max: g.cfg.MaxVariables}
	}
	g.variables = append(g.variables, name)
	g.registered[name] = struct{}{}
	return nil
}

func (g *Generator) Variables() []string {
	return slices.Clone(g.variables)
}

// LabelCount is the number of labels allocated so far, which is also the next label number.
func (g *Generator) LabelCount() int {
	return g.labelCount
}

// Reset forgets all registered variables and restarts label numbering at zero.
func (g *Generator) Reset() {
	g.variables = nil
	g.registered = make(map[string]struct{})
	g.labelCount = 0
}

// Generate lowers root and writes the complete program to sink.
// The tree is lowered before the sink is opened, so a lowering error never leaves
// a partial artifact behind. Once opened, the sink is closed on every path.
func (g *Generator) Generate(root ast.Node, sink Sink) (err error) {
	if root == nil {
		return errors.New("cannot generate code for a nil tree")
	}

	lines, err := g.generateNode(root)
	if err != nil {
		return err
	}

	out, err := sink.Open()
	if err != nil {
		return &OutputUnavailableError{Sink: sink.String(), Err: err}
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = &OutputUnavailableError{Sink: sink.String(), Err: closeErr}
		}
	}()

	program := asm.Program{
		Variables: g.Variables(),
		Lines:     lines,
	}
	if err := asm.Format(out, program); err != nil {
		return &OutputUnavailableError{Sink: sink.String(), Err: err}
	}
	return nil
}

func (g *Generator) newLabel() string {
	label := fmt.Sprintf(".L%d", g.labelCount)
	g.labelCount++
	return label
}

func (g *Generator) checkVariable(name string, loc ast.Location) error {
	if _, ok := g.registered[name]; !ok {
		return &UndefinedVariableError{Name: name, Loc: loc}
	}
	return nil
}

// generateNode leaves the value of expression nodes in rax.
func (g *Generator) generateNode(node ast.Node) ([]asm.Line, error) {
	switch node := node.(type) {
	case *ast.IntLiteral:
		return []asm.Line{asm.Op2("mov", asm.RAX, asm.Imm(node.Value))}, nil
	case *ast.VariableReference:
		if err := g.checkVariable(node.Name, node.Loc); err != nil {
			return nil, err
		}
		return []asm.Line{asm.Op2("mov", asm.RAX, asm.Mem(node.Name))}, nil
	case *ast.Assignment:
		return g.generateAssignment(node)
	case *ast.BinaryOperation:
		return g.generateBinaryOperation(node)
	case *ast.IfStatement:
		return g.generateIf(node)
	case *ast.WhileStatement:
		return g.generateWhile(node)
	case *ast.Block:
		var lines []asm.Line
		for _, stmt := range node.Statements {
			stmtLines, err := g.generateNode(stmt)
			if err != nil {
				return nil, err
			}
			lines = append(lines, stmtLines...)
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("unsupported node type: %T", node)
	}
}

func (g *Generator) generateAssignment(assign *ast.Assignment) ([]asm.Line, error) {
	if err := g.checkVariable(assign.Target, assign.Loc); err != nil {
		return nil, err
	}

	var lines []asm.Line
	if g.cfg.Annotate {
		lines = append(lines, asm.Comment(assign.String()))
	}

	valueLines, err := g.generateNode(assign.Value)
	if err != nil {
		return nil, err
	}
	lines = append(lines, valueLines...)
	lines = append(lines, asm.Op2("mov", asm.Mem(assign.Target), asm.RAX))
	return lines, nil
}

// The left operand waits on the stack while the right one is evaluated, then lands in rbx.
func (g *Generator) generateBinaryOperation(binop *ast.BinaryOperation) ([]asm.Line, error) {
	var opLines []asm.Line
	switch binop.Operator {
	case "+":
		opLines = []asm.Line{asm.Op2("add", asm.RAX, asm.RBX)}
	case "-":
		opLines = []asm.Line{
			asm.Op2("sub", asm.RBX, asm.RAX),
			asm.Op2("mov", asm.RAX, asm.RBX),
		}
	case "<":
		opLines = compareLines("setl")
	case ">":
		opLines = compareLines("setg")
	default:
		return nil, &UnsupportedOperatorError{Operator: binop.Operator, Loc: binop.Loc}
	}

	var lines []asm.Line
	left, err := g.generateNode(binop.Left)
	if err != nil {
		return nil, err
	}
	lines = append(lines, left...)
	lines = append(lines, asm.Op1("push", asm.RAX))

	right, err := g.generateNode(binop.Right)
	if err != nil {
		return nil, err
	}
	lines = append(lines, right...)
	lines = append(lines, asm.Op1("pop", asm.RBX))
	lines = append(lines, opLines...)
	return lines, nil
}

// compareLines turns the signed comparison rbx <op> rax into 0 or 1 in rax.
func compareLines(setcc string) []asm.Line {
	return []asm.Line{
		asm.Op2("cmp", asm.RBX, asm.RAX),
		asm.Op1(setcc, asm.AL),
		asm.Op2("movzx", asm.RAX, asm.AL),
	}
}

func (g *Generator) generateIf(stmt *ast.IfStatement) ([]asm.Line, error) {
	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	var lines []asm.Line
	if g.cfg.Annotate {
		lines = append(lines, asm.Comment("if "+stmt.Condition.String()))
	}

	cond, err := g.generateNode(stmt.Condition)
	if err != nil {
		return nil, err
	}
	lines = append(lines, cond...)
	lines = append(lines,
		asm.Op2("cmp", asm.RAX, asm.Imm(0)),
		asm.Op1("je", asm.Ref(elseLabel)))

	then, err := g.generateNode(stmt.Then)
	if err != nil {
		return nil, err
	}
	lines = append(lines, then...)
	lines = append(lines,
		asm.Op1("jmp", asm.Ref(endLabel)),
		asm.Label(elseLabel))

	if stmt.Else != nil {
		elseLines, err := g.generateNode(stmt.Else)
		if err != nil {
			return nil, err
		}
		lines = append(lines, elseLines...)
	}
	lines = append(lines, asm.Label(endLabel))
	return lines, nil
}

func (g *Generator) generateWhile(stmt *ast.WhileStatement) ([]asm.Line, error) {
	startLabel := g.newLabel()
	endLabel := g.newLabel()

	var lines []asm.Line
	if g.cfg.Annotate {
		lines = append(lines, asm.Comment("while "+stmt.Condition.String()))
	}
	lines = append(lines, asm.Label(startLabel))

	cond, err := g.generateNode(stmt.Condition)
	if err != nil {
		return nil, err
	}
	lines = append(lines, cond...)
	lines = append(lines,
		asm.Op2("cmp", asm.RAX, asm.Imm(0)),
		asm.Op1("je", asm.Ref(endLabel)))

	body, err := g.generateNode(stmt.Body)
	if err != nil {
		return nil, err
	}
	lines = append(lines, body...)
	lines = append(lines,
		asm.Op1("jmp", asm.Ref(startLabel)),
		asm.Label(endLabel))
	return lines, nil
}
