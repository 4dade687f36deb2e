// Command esi is the command-line front end for the interpreter: run a
// program to completion, inspect its parsed AST, or watch the raw token
// stream the lexer produces.
package main

import (
	"fmt"
	"os"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/cmd/esi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
