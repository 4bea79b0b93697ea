package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iley/minic/internal/codegen"
	"github.com/iley/minic/internal/compiler"
	"github.com/iley/minic/internal/lexer"
	"github.com/iley/minic/internal/parser"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
)

var (
	outputFile   string
	maxVariables int
	annotate     bool
	link         bool
)

var rootCmd = &cobra.Command{
	Use:   "minic",
	Short: "A minimal compiler that emits x86-64 NASM assembly",
	Long:  "minic compiles a tiny language of integer variables, arithmetic, if/else and while loops into NASM source for Linux x86-64.",
}

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile a source file to assembly",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		src, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("error reading input file: %w", err)
		}

		asmFile := outputFile
		if asmFile == "" {
			asmFile = strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + ".asm"
		}
		if link && asmFile == "-" {
			return fmt.Errorf("--link needs an output file, not stdout")
		}
		if asmFile != "-" && samePath(asmFile, inputFile) {
			return fmt.Errorf("output file %s would overwrite the input", asmFile)
		}
		binFile := strings.TrimSuffix(asmFile, filepath.Ext(asmFile))
		if binFile == asmFile {
			binFile += ".out"
		}
		if link && samePath(binFile, inputFile) {
			return fmt.Errorf("linked binary %s would overwrite the input", binFile)
		}
		cfg, err := generatorConfig()
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		if err := compiler.Compile(string(src), sinkFor(cmd, asmFile), cfg); err != nil {
			return fmt.Errorf("%s: %w", inputFile, err)
		}

		if link {
			if err := assembleAndLink(cmd, asmFile, binFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %s\n", binFile)
		}
		return nil
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the tokens of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading input file: %w", err)
		}

		cmd.SilenceUsage = true
		tokens, err := lexer.Tokenize(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		for _, tok := range tokens {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tok.Loc, tok)
		}
		return nil
	},
}

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Dump the parsed program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading input file: %w", err)
		}

		cmd.SilenceUsage = true
		program, err := parser.ParseSource(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		opts := litter.Options{HideZeroValues: true, StripPackageNames: true}
		fmt.Fprintln(cmd.OutOrStdout(), opts.Sdump(program))
		return nil
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Print a source file in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading input file: %w", err)
		}

		cmd.SilenceUsage = true
		program, err := parser.ParseSource(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprint(cmd.OutOrStdout(), parser.Print(program))
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Compile the built-in example program",
	Long:  "Compile the hand-built tree for: let x = 5; let y = 10; if (x < y) { x = x + 1; } else { y = y + 1; }",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asmFile := outputFile
		if asmFile == "" {
			asmFile = "program.asm"
		}

		cfg, err := generatorConfig()
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		root, variables := compiler.Demo()
		return compiler.Generate(root, variables, sinkFor(cmd, asmFile), cfg)
	},
}

func sinkFor(cmd *cobra.Command, path string) codegen.Sink {
	if path == "-" {
		return codegen.WriterSink("stdout", cmd.OutOrStdout())
	}
	return codegen.FileSink(path)
}

func generatorConfig() (codegen.Config, error) {
	if maxVariables <= 0 {
		return codegen.Config{}, fmt.Errorf("--max-vars must be positive, got %d", maxVariables)
	}
	return codegen.Config{MaxVariables: maxVariables, Annotate: annotate}, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func init() {
	for _, c := range []*cobra.Command{buildCmd, demoCmd} {
		c.Flags().StringVarP(&outputFile, "output", "o", "", "output file name (- for stdout)")
		c.Flags().IntVar(&maxVariables, "max-vars", codegen.DefaultMaxVariables, "maximum number of variables")
		c.Flags().BoolVar(&annotate, "annotate", false, "emit source comments in the assembly")
	}
	buildCmd.Flags().BoolVar(&link, "link", false, "assemble with nasm and link with ld")

	rootCmd.AddCommand(buildCmd, tokensCmd, astCmd, fmtCmd, demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
