package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an ES5 program and print the resulting tokens",
	Long: `Tokenize (lex) an ECMAScript 5 program and print the raw token stream.

Examples:
  # Tokenize a file
  esi lex script.js

  # Tokenize inline code, showing token types and positions
  esi lex -e "var x = 42;" --show-type --show-pos`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	l := lexer.New(input)
	tokenCount, errorCount := 0, 0

	for {
		tok, err := l.Next(false)
		if err != nil {
			errorCount++
			fmt.Fprintf(os.Stderr, "lex error: %v\n", err)
			break
		}

		if onlyErrors {
			if tok.Type == lexer.EOF {
				break
			}
			continue
		}

		tokenCount++
		printToken(tok)

		if tok.Type == lexer.EOF {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func tokenTypeName(t lexer.TokenType) string {
	switch t {
	case lexer.ILLEGAL:
		return "ILLEGAL"
	case lexer.EOF:
		return "EOF"
	case lexer.IDENT:
		return "IDENT"
	case lexer.NUMBER:
		return "NUMBER"
	case lexer.STRING:
		return "STRING"
	case lexer.REGEXP:
		return "REGEXP"
	case lexer.PUNCT:
		return "PUNCT"
	default:
		return "UNKNOWN"
	}
}

// tokenLiteral reconstructs the display text for a token from whichever
// field its type actually populates.
func tokenLiteral(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return ""
	case lexer.STRING:
		return tok.Str
	case lexer.NUMBER:
		return strconv.FormatFloat(tok.Num, 'g', -1, 64)
	case lexer.REGEXP:
		return "/" + tok.Regexp.Pattern + "/" + tok.Regexp.Flags
	default:
		return tok.Value
	}
}

// printToken formats a token as "[TYPE] "literal" @line:col".
func printToken(tok lexer.Token) {
	var output string

	if showType {
		output = fmt.Sprintf("[%-8s]", tokenTypeName(tok.Type))
	}

	if tok.Type == lexer.EOF {
		output += " EOF"
	} else {
		output += fmt.Sprintf(" %q", tokenLiteral(tok))
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Start.Line, tok.Start.Column)
	}

	fmt.Println(output)
}
