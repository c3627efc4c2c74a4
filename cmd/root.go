package cmd

import (
	"fmt"
	"os"

	"github.com/orbitalquark/textadept-lua-repl/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "luarepl",
	Short: "Interactive Lua REPL with inline results, history and completion",
	Long: `luarepl is the evaluation engine behind an editor-embedded Lua REPL:
expressions are evaluated against a persistent sandboxed environment, results
are appended inline with a "--> " marker, and a multi-line aware history and
symbol completion are available.

The engine is interpreter-agnostic; JavaScript (goja) and Tengo backends can
be selected in place of the default Lua backend.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("luarepl %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
