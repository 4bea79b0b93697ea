package ast

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestString(t *testing.T) {
	testCases := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			name:     "literal",
			node:     NewIntLiteral(-7),
			expected: "-7",
		},
		{
			name:     "variable",
			node:     NewVariableReference("x"),
			expected: "x",
		},
		{
			name:     "assignment",
			node:     NewAssignment("x", NewIntLiteral(5)),
			expected: "(= x 5)",
		},
		{
			name: "conditional with else",
			node: NewIf(
				NewBinaryOperation("<", NewVariableReference("x"), NewVariableReference("y")),
				NewAssignment("x", NewBinaryOperation("+", NewVariableReference("x"), NewIntLiteral(1))),
				NewAssignment("y", NewBinaryOperation("+", NewVariableReference("y"), NewIntLiteral(1)))),
			expected: "(if (< x y) (= x (+ x 1)) (= y (+ y 1)))",
		},
		{
			name:     "conditional without else",
			node:     NewIf(NewVariableReference("c"), NewAssignment("c", NewIntLiteral(0)), nil),
			expected: "(if c (= c 0))",
		},
		{
			name:     "while loop",
			node:     NewWhile(NewVariableReference("n"), NewAssignment("n", NewBinaryOperation("-", NewVariableReference("n"), NewIntLiteral(1)))),
			expected: "(while n (= n (- n 1)))",
		},
		{
			name:     "block",
			node:     NewBlock(NewAssignment("a", NewIntLiteral(1)), NewAssignment("b", NewIntLiteral(2))),
			expected: "(block (= a 1) (= b 2))",
		},
		{
			name:     "empty block",
			node:     NewBlock(),
			expected: "(block)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			be.Equal(t, tc.node.String(), tc.expected)
		})
	}
}

func TestConstructorsRejectMissingChildren(t *testing.T) {
	var nilRef *VariableReference

	testCases := []struct {
		name  string
		build func()
	}{
		{"binary without left", func() { NewBinaryOperation("+", nil, NewIntLiteral(1)) }},
		{"binary without right", func() { NewBinaryOperation("+", NewIntLiteral(1), nil) }},
		{"binary with typed nil", func() { NewBinaryOperation("+", nilRef, NewIntLiteral(1)) }},
		{"binary without operator", func() { NewBinaryOperation("", NewIntLiteral(1), NewIntLiteral(2)) }},
		{"assignment without value", func() { NewAssignment("x", nil) }},
		{"assignment without target", func() { NewAssignment("", NewIntLiteral(1)) }},
		{"if without condition", func() { NewIf(nil, NewIntLiteral(1), nil) }},
		{"if without then", func() { NewIf(NewIntLiteral(1), nil, nil) }},
		{"while without body", func() { NewWhile(NewIntLiteral(1), nil) }},
		{"block with nil statement", func() { NewBlock(NewIntLiteral(1), nil) }},
		{"reference without name", func() { NewVariableReference("") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				be.True(t, recover() != nil)
			}()
			tc.build()
		})
	}
}

func TestIfElseIsOptional(t *testing.T) {
	node := NewIf(NewIntLiteral(1), NewIntLiteral(2), nil)
	be.True(t, node.Else == nil)
}

func TestIfTypedNilElseIsOmitted(t *testing.T) {
	var elseBranch *Block
	node := NewIf(NewVariableReference("c"), NewAssignment("c", NewIntLiteral(0)), elseBranch)
	be.True(t, node.Else == nil)
	be.Equal(t, node.String(), "(if c (= c 0))")
}
