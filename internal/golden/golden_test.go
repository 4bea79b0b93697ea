package golden

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases(t *testing.T) {
	doc := strings.Join([]string{
		"# Assignments",
		"",
		"Some prose with an untagged block:",
		"",
		"```",
		"not a test",
		"```",
		"",
		"## Test: literal",
		"",
		"```minic",
		"let x = 5;",
		"```",
		"",
		"```ast",
		"(block (= x 5))",
		"```",
		"",
		"```asm",
		"section .data",
		"x dq 0",
		"```",
		"",
		"## Test: bad operator",
		"",
		"```minic",
		"let x = 2 * 3;",
		"```",
		"",
		"```error",
		"unsupported operator",
		"```",
		"",
	}, "\n")

	testCases, err := ExtractTestCases(doc)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	first := testCases[0]
	be.Equal(t, first.Name, "literal")
	be.Equal(t, first.Input, "let x = 5;\n")
	be.Equal(t, first.Line, 12)
	be.Equal(t, len(first.Expectations), 2)
	be.Equal(t, first.Expectations[0].Type, ExpectAST)
	be.Equal(t, first.Expectations[0].Content, "(block (= x 5))\n")
	be.Equal(t, first.Expectations[1].Type, ExpectASM)
	be.Equal(t, first.Expectations[1].Content, "section .data\nx dq 0\n")

	second := testCases[1]
	be.Equal(t, second.Name, "bad operator")
	be.Equal(t, len(second.Expectations), 1)
	be.Equal(t, second.Expectations[0].Type, ExpectError)
	be.Equal(t, second.Expectations[0].Content, "unsupported operator\n")
}

func TestExtractTestCasesErrors(t *testing.T) {
	testCases := []struct {
		name    string
		doc     string
		message string
	}{
		{
			name:    "fence outside test",
			doc:     "# Intro\n\n```minic\nx = 1;\n```\n",
			message: "line 4: minic fence found outside of test case",
		},
		{
			name:    "unknown fence language",
			doc:     "## Test: one\n\n```minic\nx = 1;\n```\n\n```llvm\nret\n```\n",
			message: "line 8: unknown fence language 'llvm' in test 'one'",
		},
		{
			name:    "two inputs",
			doc:     "## Test: one\n\n```minic\nx = 1;\n```\n\n```minic\nx = 2;\n```\n",
			message: "line 8: multiple input fences found in test 'one'",
		},
		{
			name:    "no input",
			doc:     "## Test: one\n\n```asm\nsection .data\n```\n",
			message: "test 'one' has no input fence",
		},
		{
			name:    "no expectations",
			doc:     "## Test: one\n\n```minic\nx = 1;\n```\n\n## Test: two\n",
			message: "test 'one' has no expectation fences",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractTestCases(tc.doc)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), tc.message))
		})
	}
}
