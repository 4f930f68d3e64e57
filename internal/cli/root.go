// Package cli implements the promptkeeper command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/promptkeeper/internal/logging"
	"github.com/mesh-intelligence/promptkeeper/internal/paths"
	"github.com/mesh-intelligence/promptkeeper/pkg/sqlite"
	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir    string
	databasePath string
	jsonMode     bool
}

// app carries the state shared by one invocation of the root command.
type app struct {
	flags    rootFlags
	settings settings
	log      zerolog.Logger
}

// exitError pairs an error with the process exit code it maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input.
func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// storeError picks the exit code for an error returned by the store.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if types.KindOf(err) == types.KindStorage {
		return &exitError{code: exitSysError, err: err}
	}
	return userError(err)
}

// exitCode maps an error returned by Execute to a process exit code.
// Errors from cobra itself (unknown flags, bad args) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "promptkeeper" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "promptkeeper",
		Short: "Manage reusable prompts, tags, and cluster assignments",
		Long: "Promptkeeper stores prompts made of ordered text and code blocks,\n" +
			"organizes them with tags and cluster groups, and serves them over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.load(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "",
		"configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.databasePath, "database", "",
		"database file (default: ./data/prompt-manager.sqlite)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newServeCmd(a),
		newPromptsCmd(a),
		newTagsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newBackupCmd(a),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// load reads the configuration and builds the logger.
func (a *app) load(logOut io.Writer) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return &exitError{code: exitSysError, err: fmt.Errorf("resolve config dir: %w", err)}
	}
	s, err := loadSettings(configDir)
	if err != nil {
		return &exitError{code: exitSysError, err: err}
	}
	s.DatabasePath, err = paths.ResolveDatabasePath(a.flags.databasePath, s.DatabasePath)
	if err != nil {
		return &exitError{code: exitSysError, err: fmt.Errorf("resolve database path: %w", err)}
	}

	log, err := logging.New(s.LogLevel, s.LogFormat, logOut)
	if err != nil {
		return userError(fmt.Errorf("config %s: %w", configFilePath(configDir), err))
	}
	a.settings = s
	a.log = log.With().Str("database", s.DatabasePath).Logger()
	return nil
}

// withStore attaches a store for the duration of fn.
func (a *app) withStore(ctx context.Context, fn func(context.Context, types.Store) error) error {
	store := sqlite.NewBackend()
	if err := store.Attach(types.Config{DatabasePath: a.settings.DatabasePath}); err != nil {
		return storeError(fmt.Errorf("attach %s: %w", a.settings.DatabasePath, err))
	}
	defer func() {
		if err := store.Detach(); err != nil {
			a.log.Warn().Err(err).Msg("detach failed")
		}
	}()
	return fn(ctx, store)
}
