package compiler

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iley/minic/internal/codegen"
	"github.com/iley/minic/internal/golden"
	"github.com/iley/minic/internal/lexer"
	"github.com/iley/minic/internal/parser"
	"github.com/nalgeon/be"
)

func TestGoldenCases(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		fileName := filepath.Base(testFile)
		t.Run(strings.TrimSuffix(fileName, ".md"), func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := golden.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					for _, exp := range tc.Expectations {
						checkExpectation(t, tc, exp)
					}
				})
			}
		})
	}
}

func checkExpectation(t *testing.T, tc golden.TestCase, exp golden.Expectation) {
	t.Helper()

	switch exp.Type {
	case golden.ExpectAST:
		program, err := parser.ParseSource(tc.Input)
		be.Err(t, err, nil)
		be.Equal(t, program.Body.String(), strings.TrimSpace(exp.Content))

	case golden.ExpectASM:
		var buf bytes.Buffer
		err := Compile(tc.Input, codegen.WriterSink("buffer", &buf), codegen.Config{})
		be.Err(t, err, nil)
		be.Equal(t, buf.String(), exp.Content)

	case golden.ExpectError:
		var buf bytes.Buffer
		err := Compile(tc.Input, codegen.WriterSink("buffer", &buf), codegen.Config{})
		if err == nil {
			t.Fatalf("line %d: expected error containing %q, got none", exp.Line, strings.TrimSpace(exp.Content))
		}
		be.True(t, strings.Contains(err.Error(), strings.TrimSpace(exp.Content)))
		be.Equal(t, buf.Len(), 0)

	default:
		t.Fatalf("line %d: unknown expectation type %s", exp.Line, exp.Type)
	}
}

func TestDemoMatchesSource(t *testing.T) {
	root, vars := Demo()

	var fromTree bytes.Buffer
	be.Err(t, Generate(root, vars, codegen.WriterSink("tree", &fromTree), codegen.Config{}), nil)

	src := "let x = 5; let y = 10; if (x < y) { x = x + 1; } else { y = y + 1; }"
	program, err := parser.ParseSource(src)
	be.Err(t, err, nil)
	be.Equal(t, program.Declarations, vars)

	var fromSource bytes.Buffer
	be.Err(t, Compile(src, codegen.WriterSink("source", &fromSource), codegen.Config{}), nil)

	// The parser wraps branches in blocks, which lower to the same instructions.
	be.Equal(t, fromSource.String(), fromTree.String())
}

func TestCompileVariableLimit(t *testing.T) {
	var sb strings.Builder
	for i := range 3 {
		sb.WriteString("let v")
		sb.WriteString(string(rune('a' + i)))
		sb.WriteString(" = 0;\n")
	}

	var buf bytes.Buffer
	err := Compile(sb.String(), codegen.WriterSink("buffer", &buf), codegen.Config{MaxVariables: 2})

	var capErr *codegen.CapacityExceededError
	be.True(t, errors.As(err, &capErr))
	be.Equal(t, capErr.Name, "vc")
	be.Equal(t, buf.Len(), 0)
}

func TestCompileToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.asm")
	be.Err(t, Compile("let x = 5;", codegen.FileSink(path), codegen.Config{}), nil)

	data, err := os.ReadFile(path)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(string(data), "section .data\nx dq 0\n"))
}

func TestCompileErrorStages(t *testing.T) {
	var buf bytes.Buffer

	err := Compile("let x = 1 % 2;", codegen.WriterSink("buffer", &buf), codegen.Config{})
	var symErr *lexer.UnrecognizedSymbolError
	be.True(t, errors.As(err, &symErr))
	be.True(t, strings.HasPrefix(err.Error(), "lexical error: "))

	err = Compile("let x = ;", codegen.WriterSink("buffer", &buf), codegen.Config{})
	var syntaxErr *parser.SyntaxError
	be.True(t, errors.As(err, &syntaxErr))
	be.True(t, strings.HasPrefix(err.Error(), "parse error: "))

	be.Equal(t, buf.Len(), 0)
}
