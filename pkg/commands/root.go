// Package commands wires the CLI: the root command runs one collection,
// history browses the audit log, version prints build info.
package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tb0hdan/fmg-script-history/pkg/collector"
	"github.com/tb0hdan/fmg-script-history/pkg/config"
	"github.com/tb0hdan/fmg-script-history/pkg/fmg"
	"github.com/tb0hdan/fmg-script-history/pkg/models"
	"github.com/tb0hdan/fmg-script-history/pkg/report"
	"github.com/tb0hdan/fmg-script-history/pkg/storage"
)

var (
	configFile string
	verbose    bool
)

var RootCmd = &cobra.Command{
	Use:   "fmg-script-history",
	Short: "Collect FortiGate script execution history from FortiManager",
	Long: `fmg-script-history logs in to a FortiManager appliance, walks the managed
devices of one platform and pulls each device's script execution history,
then writes the extracted clock fields into a spreadsheet.

Connection and query parameters come from flags, FMG_* environment
variables, an optional config file or interactive prompts, in that order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCollect,
}

func init() {
	flags := RootCmd.Flags()
	flags.String(config.KeyHost, "", "FortiManager IP/FQDN")
	flags.String(config.KeyUser, "", "FortiManager username")
	flags.String(config.KeyPassword, "", "FortiManager password")
	flags.String(config.KeyADOM, "", "ADOM holding the devices")
	flags.String(config.KeyPlatform, "", "Device platform (ex. FortiGate-VM64, FortiGate-60F, FortiGate-100F)")
	flags.String(config.KeyScript, "", "Script name to look up")
	flags.String(config.KeyOutput, "", "Output spreadsheet path, .xlsx or .csv (default: timestamped .xlsx)")
	flags.String(config.KeyHistoryDB, "", "SQLite file for the run audit log (disabled when empty)")
	flags.Bool(config.KeyInsecure, config.DefaultInsecure, "Skip TLS certificate verification")
	flags.Duration(config.KeyTimeout, config.DefaultTimeout, "HTTP request timeout")

	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	historyCmd.PersistentFlags().String(config.KeyHistoryDB, "", "SQLite file holding the run audit log")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)
	RootCmd.AddCommand(historyCmd, versionCmd)
}

// Execute runs the command tree. The process exit code encodes the failure
// kind so wrapper scripts can tell auth problems from empty results.
func Execute(version string) {
	Version = version

	ctx, stop := signalContext()
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		os.Exit(exitCode(err))
	}
}

func runCollect(cmd *cobra.Command, _ []string) error {
	logger := newLogger(verbose)

	params, err := config.Resolve(cmd.Flags(), configFile)
	if err != nil {
		return err
	}

	logger.Info().
		Str("host", params.Host).
		Str("adom", params.ADOM).
		Str("platform", params.Platform).
		Str("script", params.Script).
		Msg("starting collection")

	client := fmg.New(params.Host,
		fmg.WithTimeout(params.Timeout),
		fmg.WithInsecureTLS(params.Insecure),
		fmg.WithLogger(logger),
	)

	start := time.Now()
	result, runErr := collector.New(client, logger).Run(cmd.Context(), params)

	outputPath := params.Output
	if runErr == nil {
		if outputPath == "" {
			outputPath = report.DefaultFilename(time.Now())
		}
		runErr = report.ForPath(outputPath).Write(outputPath, result.Rows)
	}
	duration := time.Since(start)

	if params.HistoryDB != "" {
		if err := recordRun(cmd.Context(), params, result, outputPath, duration, runErr); err != nil {
			logger.Warn().Err(err).Msg("failed to record run in audit log")
		}
	}

	if runErr != nil {
		return runErr
	}

	pterm.Success.Printfln("Data has been saved to %s (%d rows)", outputPath, len(result.Rows))
	return nil
}

// recordRun appends the audit entry for this invocation. Failed runs are
// recorded too; the caller treats recording failures as non-fatal so they
// cannot mask the pipeline error.
func recordRun(ctx context.Context, params *config.Params, result *collector.Result, outputPath string, duration time.Duration, runErr error) error {
	store, err := storage.NewSQLiteStorage(storage.Config{DatabasePath: params.HistoryDB, Debug: verbose})
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	run := &models.CollectionRun{
		RunID:      uuid.NewString(),
		Host:       params.Host,
		ADOM:       params.ADOM,
		Platform:   params.Platform,
		Script:     params.Script,
		DurationMs: duration.Milliseconds(),
		Success:    runErr == nil,
	}
	if result != nil {
		run.DeviceCount = result.DeviceCount
		run.RowCount = len(result.Rows)
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	} else {
		run.OutputPath = outputPath
	}

	return store.CreateCollectionRun(ctx, run)
}

// signalContext cancels in-flight API calls on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// clean for prompts and result messages; the console writer only engages on
// a terminal.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
