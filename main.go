package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/technicallyty/poolstat/mempool"
	"github.com/technicallyty/poolstat/metrics"
	"github.com/technicallyty/poolstat/poller"
	"github.com/technicallyty/poolstat/present"
	"github.com/technicallyty/poolstat/stats"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flagCfg := defaultConfig
	var configFile string

	cmd := &cobra.Command{
		Use:          "poolstat",
		Short:        "Live JSON-RPC txpool_content statistics",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile, flagCfg, cmd.Flags().Changed)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cmd.Context(), cfg, nil, os.Stdout, os.Stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to a TOML config file")
	flags.StringVar(&flagCfg.URL, "url", "", "JSON-RPC server URL")
	flags.IntVar(&flagCfg.Requests, "requests", defaultConfig.Requests, "number of requests to send")
	flags.BoolVar(&flagCfg.Unbounded, "unbounded", false, "keep polling until interrupted or a stop condition fires")
	flags.StringVar((*string)(&flagCfg.Presenter), "presenter", string(defaultConfig.Presenter), "dashboard style: live or plain")
	flags.DurationVar(&flagCfg.Timeout, "timeout", defaultConfig.Timeout, "timeout of a single request")
	flags.DurationVar(&flagCfg.Interval, "interval", defaultConfig.Interval, "pause between requests")
	flags.IntVar(&flagCfg.MaxFailures, "max-failures", 0, "stop after this many consecutive failed requests (0 disables)")
	flags.StringVar(&flagCfg.MetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	flags.StringVar(&flagCfg.LogLevel, "log-level", defaultConfig.LogLevel, "log level")

	return cmd
}

func newLogger(out io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to parse log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().
		Logger(), nil
}

// run polls until the configured stop and prints the final dashboard. A nil
// stdin lets the live dashboard read keys from the terminal.
func run(ctx context.Context, cfg Config, stdin io.Reader, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	client, err := mempool.NewClient(cfg.URL, &http.Client{})
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}

	var collector metrics.Collector = metrics.NewNoopCollector()
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector = metrics.NewCollector(logger, reg)
		srv := metrics.NewServer(logger, cfg.MetricsAddr, reg)
		if _, err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()
	}

	agg := stats.NewAggregator()

	switch cfg.Presenter {
	case PresenterPlain:
		return runPlain(ctx, cfg, client, agg, collector, logger, stdout)
	default:
		return runLive(ctx, cfg, client, agg, collector, logger, stdin, stdout)
	}
}

func runPlain(
	ctx context.Context,
	cfg Config,
	client poller.Fetcher,
	agg *stats.Aggregator,
	collector metrics.Collector,
	logger zerolog.Logger,
	stdout io.Writer,
) error {
	err := poller.New(client, agg, present.NewPlain(stdout), collector, logger, cfg.pollerConfig()).Run(ctx)
	present.Completed(stdout)
	return runResult(err)
}

func runLive(
	ctx context.Context,
	cfg Config,
	client poller.Fetcher,
	agg *stats.Aggregator,
	collector metrics.Collector,
	logger zerolog.Logger,
	stdin io.Reader,
	stdout io.Writer,
) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithContext(runCtx), tea.WithOutput(stdout)}
	if stdin != nil {
		opts = append(opts, tea.WithInput(stdin))
	}
	program := tea.NewProgram(NewModel(cfg.URL, cancel), opts...)
	view := newLiveView(program)
	logger = logger.Output(zerolog.ConsoleWriter{Out: programWriter{program}, TimeFormat: time.Kitchen})

	uiDone := make(chan error, 1)
	go func() {
		_, err := program.Run()
		cancel()
		uiDone <- err
	}()

	err := poller.New(client, agg, view, collector, logger, cfg.pollerConfig()).Run(runCtx)
	program.Send(doneMsg{})
	// an interrupted dashboard is a normal way to end the run
	if uiErr := <-uiDone; uiErr != nil && ctx.Err() == nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run dashboard: %w", uiErr)
	}

	snap, elapsed := view.Last()
	present.NewText(stdout).Render(snap, elapsed)
	present.Completed(stdout)
	return runResult(err)
}

// runResult drops the error of a run that was stopped by the user.
func runResult(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
