package ast

import (
	"fmt"
	"strings"

	"github.com/iley/minic/internal/lexer"
)

type Location = lexer.Location

// Node is implemented by exactly the node types in this package.
type Node interface {
	fmt.Stringer
	GetLocation() Location
	isNode()
}

type IntLiteral struct {
	Loc   Location
	Value int64
}

func (l *IntLiteral) GetLocation() Location {
	return l.Loc
}

func (l *IntLiteral) isNode() {}

func (l *IntLiteral) String() string {
	return fmt.Sprintf("%d", l.Value)
}

type VariableReference struct {
	Loc  Location
	Name string
}

func (v *VariableReference) GetLocation() Location {
	return v.Loc
}

func (v *VariableReference) isNode() {}

func (v *VariableReference) String() string {
	return v.Name
}

type BinaryOperation struct {
	Loc      Location
	Left     Node
	Operator string
	Right    Node
}

func (b *BinaryOperation) GetLocation() Location {
	return b.Loc
}

func (b *BinaryOperation) isNode() {}

func (b *BinaryOperation) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Operator, b.Left.String(), b.Right.String())
}

type Assignment struct {
	Loc    Location
	Target string
	Value  Node
	// Declare marks an assignment written with 'let'. Lowering ignores it.
	Declare bool
}

func (a *Assignment) GetLocation() Location {
	return a.Loc
}

func (a *Assignment) isNode() {}

func (a *Assignment) String() string {
	return fmt.Sprintf("(= %s %s)", a.Target, a.Value.String())
}

type IfStatement struct {
	Loc       Location
	Condition Node
	Then      Node
	Else      Node // optional
}

func (i *IfStatement) GetLocation() Location {
	return i.Loc
}

func (i *IfStatement) isNode() {}

func (i *IfStatement) String() string {
	if i.Else == nil {
		return fmt.Sprintf("(if %s %s)", i.Condition.String(), i.Then.String())
	} else {
		return fmt.Sprintf("(if %s %s %s)", i.Condition.String(), i.Then.String(), i.Else.String())
	}
}

type WhileStatement struct {
	Loc       Location
	Condition Node
	Body      Node
}

func (w *WhileStatement) GetLocation() Location {
	return w.Loc
}

func (w *WhileStatement) isNode() {}

func (w *WhileStatement) String() string {
	return fmt.Sprintf("(while %s %s)", w.Condition.String(), w.Body.String())
}

type Block struct {
	Loc        Location
	Statements []Node
}

func (b *Block) GetLocation() Location {
	return b.Loc
}

func (b *Block) isNode() {}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, stmt := range b.Statements {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Constructors below enforce that required children are present.
// A nil child is a bug in the caller, so they panic rather than return an error.

func NewIntLiteral(value int64) *IntLiteral {
	return &IntLiteral{Value: value}
}

func NewVariableReference(name string) *VariableReference {
	mustName("variable reference", name)
	return &VariableReference{Name: name}
}

func NewBinaryOperation(op string, left, right Node) *BinaryOperation {
	if op == "" {
		panic("ast: binary operation without an operator")
	}
	mustNode("binary operation left operand", left)
	mustNode("binary operation right operand", right)
	return &BinaryOperation{Left: left, Operator: op, Right: right}
}

func NewAssignment(target string, value Node) *Assignment {
	mustName("assignment target", target)
	mustNode("assignment value", value)
	return &Assignment{Target: target, Value: value}
}

// NewIf builds a conditional. elseBranch may be nil, including a typed nil pointer.
func NewIf(condition, then, elseBranch Node) *IfStatement {
	mustNode("if condition", condition)
	mustNode("if then branch", then)
	if isNil(elseBranch) {
		elseBranch = nil
	}
	return &IfStatement{Condition: condition, Then: then, Else: elseBranch}
}

func NewWhile(condition, body Node) *WhileStatement {
	mustNode("while condition", condition)
	mustNode("while body", body)
	return &WhileStatement{Condition: condition, Body: body}
}

func NewBlock(statements ...Node) *Block {
	for i, stmt := range statements {
		mustNode(fmt.Sprintf("block statement %d", i), stmt)
	}
	if statements == nil {
		statements = []Node{}
	}
	return &Block{Statements: statements}
}

func mustNode(what string, n Node) {
	if isNil(n) {
		panic(fmt.Sprintf("ast: %s is nil", what))
	}
}

func mustName(what, name string) {
	if name == "" {
		panic(fmt.Sprintf("ast: %s has an empty name", what))
	}
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *IntLiteral:
		return n == nil
	case *VariableReference:
		return n == nil
	case *BinaryOperation:
		return n == nil
	case *Assignment:
		return n == nil
	case *IfStatement:
		return n == nil
	case *WhileStatement:
		return n == nil
	case *Block:
		return n == nil
	}
	return false
}
