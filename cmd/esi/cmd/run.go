package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/ast"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/builtins"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/jserr"
	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
	noRun    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an ES5 program to completion",
	Long: `Execute an ECMAScript 5 program from a file or inline expression.

Examples:
  # Run a script file
  esi run script.js

  # Evaluate inline code
  esi run -e "print('hello')"

  # Run with an AST dump first (for debugging)
  esi run --dump-ast script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before running")
	runCmd.Flags().BoolVar(&trace, "trace", false, "log each step the interpreter takes")
	runCmd.Flags().BoolVar(&noRun, "no-run", false, "parse (and optionally dump) without executing")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	dumpAST = dumpAST || cfg.DumpAST
	trace = trace || cfg.Trace
	noRun = noRun || cfg.NoRun

	prog, err := parser.New(input, parser.Options{SourceFile: filename}).ParseProgram()
	if err != nil {
		printParseError(err, input, filename)
		return fmt.Errorf("parsing failed")
	}

	if dumpAST {
		printAST(prog)
	}
	if noRun {
		return nil
	}

	ip := builtins.Bootstrap(prog)
	for !ip.Done() && !ip.Paused() {
		if trace {
			fmt.Fprintf(os.Stderr, "[step]\n")
		}
		ip.Step()
	}
	if ip.Paused() {
		return fmt.Errorf("program suspended on an outstanding async call")
	}
	if v, ok := ip.Uncaught(); ok {
		s, _ := ip.ToStringValue(v)
		return fmt.Errorf("uncaught exception: %s", s)
	}
	if verbose {
		s, _ := ip.ToStringValue(ip.Value())
		fmt.Fprintf(os.Stderr, "completion value: %s\n", s)
	}
	return nil
}

// readSource resolves the -e/file precedence shared by run/parse/lex: -e
// wins, otherwise one file path is required (stdin is not read).
func readSource(eval string, args []string) (input, filename string, err error) {
	switch {
	case eval != "":
		return eval, "<eval>", nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	default:
		return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
	}
}

func printParseError(err error, source, filename string) {
	if synErr, ok := err.(*parser.SyntaxError); ok {
		se := jserr.New(synErr.Pos.Offset, synErr.Message, source, filename)
		fmt.Fprintln(os.Stderr, se.Format(true))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func printAST(prog *ast.Program) {
	fmt.Println("AST:")
	data, err := json.MarshalIndent(ast.ToJSONValue(prog), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render AST: %v\n", err)
		return
	}
	fmt.Println(string(data))
	fmt.Println()
}
