package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/orbitalquark/textadept-lua-repl/internal/console"
	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
	"github.com/orbitalquark/textadept-lua-repl/internal/interp/js"
	"github.com/orbitalquark/textadept-lua-repl/internal/interp/lua"
	"github.com/orbitalquark/textadept-lua-repl/internal/interp/tengovm"
	"github.com/orbitalquark/textadept-lua-repl/internal/repl"
	"github.com/spf13/cobra"
)

var backend string
var maxWidth int
var indent int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive REPL session",
	Long: `Run an interactive REPL session on the terminal. Lines are evaluated as
they are entered; a line that does not compile on its own starts a
multi-line block, committed with a blank line. Type .help for the
history and completion meta-commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host := console.New(cmd.OutOrStdout())
		session, err := newSession(host)
		if err != nil {
			return err
		}
		defer session.Interpreter().Close()
		return host.Loop(session, cmd.InOrStdin())
	},
}

// defaultBackend is the backend flag default, with env var fallback.
func defaultBackend() string {
	if envBackend := os.Getenv("LUAREPL_BACKEND"); envBackend != "" {
		return envBackend
	}
	return "lua"
}

func init() {
	runCmd.Flags().StringVar(&backend, "backend", defaultBackend(), "Interpreter backend (lua, js, tengo)")
	runCmd.Flags().IntVar(&maxWidth, "width", 80, "Single-line width before table results wrap (0 = never)")
	runCmd.Flags().IntVar(&indent, "indent", 2, "Indent for wrapped table entries")

	rootCmd.AddCommand(runCmd)
}

// newSession builds an interpreter for the selected backend, binds the
// host's editing-surface object, and wires a session over host.
func newSession(host repl.Host) (*repl.Session, error) {
	in, err := newInterpreter(backend, repl.TranscriptWriter{Host: host})
	if err != nil {
		return nil, err
	}

	bufferVal, err := in.Bind("buffer", map[string]any{})
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to bind buffer object: %w", err)
	}
	hostObj := &repl.HostObject{
		Value:      bufferVal,
		Methods:    console.BufferMethods,
		Properties: console.BufferProperties,
	}

	cfg := repl.Config{MaxWidth: maxWidth, Indent: indent}
	return repl.NewSession(host, in, hostObj, cfg), nil
}

func newInterpreter(name string, print io.Writer) (interp.Interpreter, error) {
	opts := interp.Options{Print: print}
	switch name {
	case "lua":
		return lua.New(opts), nil
	case "js":
		return js.New(opts)
	case "tengo":
		return tengovm.New(opts), nil
	}
	return nil, fmt.Errorf("unknown backend %q (want lua, js or tengo)", name)
}
