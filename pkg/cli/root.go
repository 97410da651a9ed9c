package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"viewgen/internal/config"
	"viewgen/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		reportError(os.Stdout, os.Stderr, output, err)
		return 1
	}
	return 0
}

// reportError writes err in the requested output format unless the command
// has already reported it.
func reportError(stdout, stderr io.Writer, output string, err error) {
	var reported reportedError
	switch {
	case errors.As(err, &reported):
		// already written
	case output == "json":
		_ = printJSON(stdout, errorObject(err))
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
}

// reportedError marks an error the command has already written to its
// output, so Execute only sets the exit code.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// errorObject describes err for JSON output, naming its kind when it is one
// of the typed domain errors.
func errorObject(err error) map[string]interface{} {
	obj := map[string]interface{}{"error": err.Error()}
	var (
		valErr      *domain.ValidationError
		conflictErr *domain.ConflictError
		notFoundErr *domain.NotFoundError
	)
	switch {
	case errors.As(err, &valErr):
		obj["kind"] = "validation"
	case errors.As(err, &conflictErr):
		obj["kind"] = "conflict"
	case errors.As(err, &notFoundErr):
		obj["kind"] = "not_found"
	}
	return obj
}

// app holds the resolved configuration shared by all subcommands.
type app struct {
	configPath string
	driver     string
	dsn        string
	output     string
	logLevel   string
	verbose    int

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "viewgen",
		Short: "Generate pivot and window views over SQL tables",
		Long: "viewgen creates pivot, moving-window pivot and consecutive-difference views " +
			"in SQLite or DuckDB databases, and queries the rows holding a column's extreme value.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file (env VIEWGEN_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&a.driver, "driver", "", "Database driver: sqlite3, sqlite or duckdb")
	rootCmd.PersistentFlags().StringVar(&a.dsn, "dsn", "", "Data source name, usually a database file path")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPivotCmd(a))
	rootCmd.AddCommand(newMovingPivotCmd(a))
	rootCmd.AddCommand(newDiffCmd(a))
	rootCmd.AddCommand(newExtremeCmd(a))
	rootCmd.AddCommand(newApplyCmd(a))

	return rootCmd
}

// resolve applies precedence: flag > env > config file > .env > default.
func (a *app) resolve(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	path := a.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = a.driver
	}
	if flags.Changed("dsn") {
		cfg.DSN = a.dsn
	}
	if flags.Changed("output") {
		cfg.Output = a.output
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	switch {
	case a.verbose >= 2:
		cfg.LogLevel = "debug"
	case a.verbose == 1:
		cfg.LogLevel = "info"
	}
	// Keep the flag in sync so Execute reports errors in the resolved format.
	a.output = cfg.Output

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return nil
}
