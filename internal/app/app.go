// Package app wires configuration, the counter source, the sampling loop,
// console output and the optional metrics server into the cpuutil program.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/cpuutil/internal/cli"
	"github.com/agbru/cpuutil/internal/config"
	apperrors "github.com/agbru/cpuutil/internal/errors"
	"github.com/agbru/cpuutil/internal/logging"
	"github.com/agbru/cpuutil/internal/orchestration"
	"github.com/agbru/cpuutil/internal/sampler"
	"github.com/agbru/cpuutil/internal/server"
	"github.com/agbru/cpuutil/internal/sysmon"
	"github.com/agbru/cpuutil/internal/ui"
)

// SourceFactory builds a counter source by name.
type SourceFactory func(name string, opts sysmon.Options) (sysmon.CounterSource, error)

// Application represents the cpuutil application instance.
type Application struct {
	Config    config.AppConfig
	Sources   []string
	NewSource SourceFactory
	Logger    logging.Logger
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSourceFactory replaces sysmon.NewSource.
func WithSourceFactory(f SourceFactory) AppOption {
	return func(a *Application) { a.NewSource = f }
}

// WithSources replaces the list of source names accepted by --source.
func WithSources(names []string) AppOption {
	return func(a *Application) { a.Sources = names }
}

// WithLogger replaces the console logger built from --log-level.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
//
// Parameters:
//   - args: The full argument vector, program name first.
//   - errWriter: Destination for usage, diagnostics and logs.
//   - opts: Optional overrides.
//
// Returns:
//   - *Application: The configured application.
//   - error: flag.ErrHelp when help was requested, or a ConfigError.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.NewSource == nil {
		app.NewSource = sysmon.NewSource
	}
	if app.Sources == nil {
		app.Sources = sysmon.Available()
	}

	programName := "cpuutil"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Sources)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.Theme, a.Config.NoColor)
	if a.Logger == nil {
		a.Logger = a.newLogger()
	}

	return a.runSampler(ctx, out)
}

// newLogger builds the logger selected by --log-format. Without one, JSON
// output gets JSON log lines and text output gets console lines.
func (a *Application) newLogger() logging.Logger {
	format := a.Config.LogFormat
	if format == "" {
		format = config.LogFormatConsole
		if a.Config.Format == config.FormatJSON {
			format = config.LogFormatJSON
		}
	}

	switch format {
	case config.LogFormatJSON:
		return logging.NewLogger(a.ErrWriter, "cpuutil").WithLevel(a.Config.LogLevel)
	case config.LogFormatPlain:
		return logging.NewPlainLogger(a.ErrWriter, "cpuutil", a.Config.LogLevel)
	default:
		return logging.NewConsoleLogger(a.ErrWriter, "cpuutil", a.Config.LogLevel)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Sources); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runSampler runs the sampling loop until the count, duration or a signal
// ends it.
func (a *Application) runSampler(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	source, err := a.NewSource(cfg.Source, sysmon.Options{ProcRoot: cfg.ProcRoot})
	if err != nil {
		return a.fail(err)
	}
	a.Logger.Debug("sampling started",
		logging.String("source", source.Name()),
		logging.Duration("interval", cfg.Interval),
		logging.Int("count", cfg.Count),
		logging.Duration("duration", cfg.Duration),
	)

	if cfg.Duration > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.Duration)
		defer cancelTimeout()
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	opts := orchestration.OptionsFromConfig(cfg, out, a.Logger)
	if !cfg.Quiet && cfg.Format == config.FormatText {
		opts.Baseline = cli.NewBaselineSpinner(a.ErrWriter)
	}
	presenter := cli.NewCLIPresenter(cli.OutputConfig{
		JSON:       cfg.Format == config.FormatJSON,
		Precision:  cfg.Precision,
		Timestamps: cfg.Timestamps,
		Quiet:      cfg.Quiet,
	}, a.Logger)

	var runErr error
	if cfg.MetricsAddr != "" {
		metrics := server.NewMetrics()
		srv := server.New(cfg.MetricsAddr, metrics, a.Logger)
		_, runErr = orchestration.RunWithServer(ctx, opts, source, sampler.New(), presenter, metrics, srv)
	} else {
		_, runErr = orchestration.Run(ctx, opts, source, sampler.New(), presenter, orchestration.NullRecorder{})
	}
	return a.exitCode(runErr)
}

// exitCode maps the loop result to a process status. Reaching --duration is
// a normal end of run.
func (a *Application) exitCode(err error) int {
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case errors.Is(err, context.DeadlineExceeded) && a.Config.Duration > 0:
		a.Logger.Debug("duration reached", logging.Duration("duration", a.Config.Duration))
		return apperrors.ExitSuccess
	case errors.Is(err, context.Canceled):
		a.Logger.Info("sampling interrupted")
		return apperrors.ExitErrorCanceled
	default:
		return a.fail(err)
	}
}

// fail logs err and returns its exit code.
func (a *Application) fail(err error) int {
	a.Logger.Error("cpuutil failed", err)
	return apperrors.ExitCode(err)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
