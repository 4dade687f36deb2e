package cmd

import (
	"fmt"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an ES5 program and print its AST",
	Long: `Parse ECMAScript 5 source and display the Abstract Syntax Tree as JSON.

If no file is provided, use -e to parse a single expression.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "expression", "e", "", "parse inline code instead of reading from file")
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	prog, err := parser.New(input, parser.Options{SourceFile: filename}).ParseProgram()
	if err != nil {
		printParseError(err, input, filename)
		return fmt.Errorf("parsing failed")
	}
	printAST(prog)
	return nil
}
