// Package cmd implements the CLI application to run a simulated trading session.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/stocksim"
	"github.com/etnz/stocksim/config"
	"github.com/etnz/stocksim/eodhd"
	"github.com/etnz/stocksim/logger"
	"github.com/etnz/stocksim/metrics"
	"github.com/etnz/stocksim/tracing"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "session")
	c.Register(&checkCmd{}, "session")

	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&txCmd{}, "reports")

	c.Register(&quoteCmd{}, "market")
	c.Register(&historyCmd{}, "market")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file")
var ledgerFile = flag.String("ledger-file", "", "Path to the session file (JSONL format), overrides the configuration")
var raw = flag.Bool("raw", false, "Print markdown without terminal rendering")

// output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// app holds what a single command execution needs.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	recorder *metrics.Recorder
	shutdown func(context.Context) error
}

// setup loads the configuration and starts the ambient services.
func setup() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}
	log, err := logger.New(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: log, recorder: metrics.NewRecorder()}
	if cfg.Trace {
		a.shutdown, err = tracing.Setup(stderr)
		if err != nil {
			return nil, fmt.Errorf("start tracing: %w", err)
		}
	}
	return a, nil
}

// close flushes metrics, spans and logs.
func (a *app) close(ctx context.Context) {
	if a.cfg.MetricsFile != "" {
		if err := a.recorder.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.logger.Warn("cannot write metrics", zap.String("file", a.cfg.MetricsFile), zap.Error(err))
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.logger.Warn("cannot flush spans", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// oracle returns the price oracle selected by the configuration.
func (a *app) oracle() (stocksim.PriceOracle, error) {
	switch a.cfg.Oracle.Provider {
	case config.ProviderStatic:
		return a.cfg.StaticPrices()
	case config.ProviderEODHD:
		opts := []eodhd.Option{eodhd.WithLogger(a.logger)}
		if a.cfg.Oracle.EODHD.Cache {
			opts = append(opts, eodhd.WithDailyCache(""))
		}
		c := eodhd.NewClient(a.cfg.Oracle.EODHD.APIKey, a.cfg.Currency, opts...)
		c.BaseURL = a.cfg.Oracle.EODHD.BaseURL
		return c, nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", a.cfg.Oracle.Provider)
	}
}

// openLedger replays the session file.
func (a *app) openLedger() (*stocksim.Ledger, error) {
	f, err := os.Open(a.cfg.LedgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("session file %q does not exist, run 'stocksim init' first", a.cfg.LedgerFile)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := stocksim.DecodeLedger(f, stocksim.WithLogger(a.logger), stocksim.WithObserver(a.recorder))
	if err != nil {
		return nil, fmt.Errorf("decode session file %q: %w", a.cfg.LedgerFile, err)
	}
	a.recorder.SetCash(l.Cash())
	return l, nil
}

// session opens the ledger and binds it to the configured oracle.
func (a *app) session() (*stocksim.Session, error) {
	l, err := a.openLedger()
	if err != nil {
		return nil, err
	}
	o, err := a.oracle()
	if err != nil {
		return nil, err
	}
	s := stocksim.NewSession(l, o)
	s.QuoteTimeout = a.cfg.Oracle.Timeout
	s.Logger = a.logger
	return s, nil
}

// appendTransaction appends a single transaction to the session file.
func (a *app) appendTransaction(tx stocksim.Transaction) error {
	filename := a.cfg.LedgerFile
	// Open the file in append mode, the session file always exists at this point.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening session file %q: %w", filename, err)
	}
	defer f.Close()

	if err := stocksim.EncodeTransaction(f, tx); err != nil {
		return fmt.Errorf("writing to session file %q: %w", filename, err)
	}
	return nil
}

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// fail prints a command error and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error "+format+"\n", args...)
	return subcommands.ExitFailure
}
