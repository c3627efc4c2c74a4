package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/orbitalquark/textadept-lua-repl/internal/console"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval [code]",
	Short: "Evaluate a snippet and print its transcript",
	Long: `Evaluate a snippet non-interactively with the same semantics as an
explicit multi-line selection in a session: compile errors and runtime
errors are printed inline with the "--> " marker. With no argument the
snippet is read from standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var src string
		if len(args) > 0 {
			src = strings.Join(args, " ")
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read snippet: %w", err)
			}
			src = string(data)
		}
		src = strings.TrimRight(src, "\n")
		if src == "" {
			return fmt.Errorf("no snippet to evaluate")
		}

		host := console.New(cmd.OutOrStdout())
		session, err := newSession(host)
		if err != nil {
			return err
		}
		defer session.Interpreter().Close()

		host.SetSelection(src)
		session.Commit()
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&backend, "backend", defaultBackend(), "Interpreter backend (lua, js, tengo)")
	evalCmd.Flags().IntVar(&maxWidth, "width", 80, "Single-line width before table results wrap (0 = never)")
	evalCmd.Flags().IntVar(&indent, "indent", 2, "Indent for wrapped table entries")

	rootCmd.AddCommand(evalCmd)
}
