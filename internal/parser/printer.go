package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/iley/minic/internal/ast"
)

// Printer writes a tree back out as source text. Parsing the output yields
// the same tree.
type Printer struct {
	output      io.Writer
	indentLevel int
}

func NewPrinter(output io.Writer) *Printer {
	return &Printer{output: output}
}

// Print formats a parsed program as source text.
func Print(program *Program) string {
	var sb strings.Builder
	NewPrinter(&sb).PrintProgram(program)
	return sb.String()
}

func (p *Printer) write(text string) {
	fmt.Fprint(p.output, text)
}

func (p *Printer) writeln(line string) {
	p.write(line)
	p.write("\n")
}

func (p *Printer) indent() {
	p.indentLevel++
}

func (p *Printer) dedent() {
	p.indentLevel--
}

func (p *Printer) writeIndent() {
	p.write(strings.Repeat("  ", p.indentLevel))
}

func (p *Printer) PrintProgram(program *Program) {
	for _, stmt := range program.Body.Statements {
		p.PrintStatement(stmt)
	}
}

func (p *Printer) PrintStatement(node ast.Node) {
	// there is no bare block statement, so nested blocks are flattened
	if block, ok := node.(*ast.Block); ok {
		for _, stmt := range block.Statements {
			p.PrintStatement(stmt)
		}
		return
	}

	p.writeIndent()
	switch n := node.(type) {
	case *ast.Assignment:
		if n.Declare {
			p.write("let ")
		}
		p.write(n.Target + " = ")
		p.PrintExpression(n.Value)
		p.writeln(";")
	case *ast.IfStatement:
		p.printIf(n)
		p.writeln("")
	case *ast.WhileStatement:
		p.write("while (")
		p.PrintExpression(n.Condition)
		p.write(") ")
		p.printBody(n.Body)
		p.writeln("")
	default:
		// a bare expression is not a statement, but printing it keeps dumps useful
		p.PrintExpression(node)
		p.writeln(";")
	}
}

func (p *Printer) printIf(n *ast.IfStatement) {
	p.write("if (")
	p.PrintExpression(n.Condition)
	p.write(") ")
	p.printBody(n.Then)
	if n.Else == nil {
		return
	}
	p.write(" else ")
	if elseIf, ok := n.Else.(*ast.IfStatement); ok {
		p.printIf(elseIf)
	} else {
		p.printBody(n.Else)
	}
}

// printBody writes a braced block starting at the current column and leaves
// the cursor after the closing brace.
func (p *Printer) printBody(node ast.Node) {
	p.writeln("{")
	p.indent()
	p.PrintStatement(node)
	p.dedent()
	p.writeIndent()
	p.write("}")
}

func (p *Printer) PrintExpression(node ast.Node) {
	switch n := node.(type) {
	case *ast.IntLiteral:
		p.write(fmt.Sprintf("%d", n.Value))
	case *ast.VariableReference:
		p.write(n.Name)
	case *ast.BinaryOperation:
		prec := precedence(n.Operator)
		p.printOperand(n.Left, prec, false)
		p.write(" " + n.Operator + " ")
		p.printOperand(n.Right, prec, true)
	default:
		panic(fmt.Sprintf("parser: cannot print %T as an expression", node))
	}
}

func (p *Printer) printOperand(node ast.Node, parentPrec int, right bool) {
	if !needsParens(node, parentPrec, right) {
		p.PrintExpression(node)
		return
	}
	p.write("(")
	p.PrintExpression(node)
	p.write(")")
}

func needsParens(node ast.Node, parentPrec int, right bool) bool {
	binop, ok := node.(*ast.BinaryOperation)
	if !ok {
		return false
	}
	prec := precedence(binop.Operator)
	if prec < parentPrec {
		return true
	}
	// Arithmetic is left-associative and comparisons do not chain.
	return prec == parentPrec && (right || prec == comparisonPrec)
}

const comparisonPrec = 1

func precedence(op string) int {
	switch op {
	case "<", ">":
		return comparisonPrec
	case "+", "-":
		return 2
	case "*", "/":
		return 3
	}
	return 0
}
