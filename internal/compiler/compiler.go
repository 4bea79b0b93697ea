// Package compiler wires the lexer, parser and code generator into a single pass
// from source text to assembly.
package compiler

import (
	"fmt"

	"github.com/iley/minic/internal/ast"
	"github.com/iley/minic/internal/codegen"
	"github.com/iley/minic/internal/lexer"
	"github.com/iley/minic/internal/parser"
)

// Compile translates src into NASM text written to sink. Every `let` in the
// source registers its variable, in source order, on a fresh generator.
func Compile(src string, sink codegen.Sink, cfg codegen.Config) error {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return fmt.Errorf("lexical error: %w", err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return Generate(program.Body, program.Declarations, sink, cfg)
}

// Generate runs the code generator over a tree built elsewhere.
func Generate(root ast.Node, variables []string, sink codegen.Sink, cfg codegen.Config) error {
	g := codegen.New(cfg)
	for _, name := range variables {
		if err := g.RegisterVariable(name); err != nil {
			return err
		}
	}
	return g.Generate(root, sink)
}

// Demo returns the tree for
//
//	let x = 5; let y = 10; if (x < y) { x = x + 1; } else { y = y + 1; }
//
// built by hand, together with the variables it uses.
func Demo() (ast.Node, []string) {
	x := func() ast.Node { return ast.NewVariableReference("x") }
	y := func() ast.Node { return ast.NewVariableReference("y") }

	root := ast.NewBlock(
		ast.NewAssignment("x", ast.NewIntLiteral(5)),
		ast.NewAssignment("y", ast.NewIntLiteral(10)),
		ast.NewIf(
			ast.NewBinaryOperation("<", x(), y()),
			ast.NewAssignment("x", ast.NewBinaryOperation("+", x(), ast.NewIntLiteral(1))),
			ast.NewAssignment("y", ast.NewBinaryOperation("+", y(), ast.NewIntLiteral(1)))),
	)
	return root, []string{"x", "y"}
}
