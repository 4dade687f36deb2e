package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// config is the shape of the optional --config YAML file: settings an
// embedder wants applied on every invocation without repeating flags.
type config struct {
	Verbose   bool     `yaml:"verbose"`
	Trace     bool     `yaml:"trace"`
	DumpAST   bool     `yaml:"dumpAst"`
	NoRun     bool     `yaml:"noRun"`
	Polyfills []string `yaml:"polyfills"`
}

var (
	configPath string
	cfg        config
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "esi",
	Short: "A sandboxed, step-driven ES5 interpreter",
	Long: `esi runs ECMAScript 5 programs against a from-scratch interpreter:
a recursive-descent lexer and parser feed an explicit-stack evaluator
that can be stepped one evaluation step at a time, paused inside an async
native call, and resumed later without unwinding the Go call stack.`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
}

// loadConfig reads --config, if given, and layers its settings under
// whatever the user passed on the command line: an explicit flag always
// wins over the file.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if configPath == "" {
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", configPath, err)
	}
	if !cmd.Flags().Changed("verbose") && cfg.Verbose {
		verbose = true
	}
	return nil
}
