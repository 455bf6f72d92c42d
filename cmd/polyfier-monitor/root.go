// cmd/polyfier-monitor/root.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/polypheny/polyfier-monitor/internal/config"
	"github.com/polypheny/polyfier-monitor/internal/monitor"
	"github.com/polypheny/polyfier-monitor/internal/view"
)

type flags struct {
	origin  string
	view    string
	target  string
	verbose bool
}

var opts flags

var rootCmd = &cobra.Command{
	Use:   "polyfier-monitor [config.yaml]",
	Short: "Watch a Polyfier server's log, status and countdown",
	Long: `Polls a Polyfier server for its log and status, renders the countdown
to the configured target, and keeps a heartbeat socket open.

Without a config file, --origin is required.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return run(cmd.Context(), path, opts)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&opts.origin, "origin", "", "server origin, e.g. http://localhost:8080 (overrides monitor.origin)")
	f.StringVar(&opts.view, "view", "", "view mode: tui, console or none (overrides monitor.view.mode)")
	f.StringVar(&opts.target, "target", "", "countdown target, RFC 3339 or \"January 2, 2006 15:04:05\"")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "add microsecond timestamps and file:line to log lines")
}

// loadConfig reads path (if any), applies flag overrides, validates and normalizes.
func loadConfig(path string, o flags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	switch {
	case path != "":
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	case o.origin != "":
		cfg = config.Default(o.origin)
	default:
		return nil, errors.New("config file or --origin required")
	}

	if o.origin != "" {
		cfg.Monitor.Origin = o.origin
	}
	if o.view != "" {
		cfg.Monitor.View.Mode = o.view
	}
	if o.target != "" {
		cfg.Monitor.Countdown.Target = o.target
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func run(parent context.Context, path string, o flags) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := loadConfig(path, o)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logFlags := log.LstdFlags
	if o.verbose {
		logFlags |= log.Lmicroseconds | log.Lshortfile
	}

	// --------------------
	// Build view + logger
	// --------------------

	var (
		v      view.View
		logOut io.Writer = os.Stderr
	)

	switch cfg.Monitor.View.Mode {
	case config.ViewTUI:
		dash := view.NewDashboard("polyfier " + cfg.Monitor.Origin)
		logOut = dash.SystemWriter()
		dash.Start()

		// Quitting the UI ends the run.
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-dash.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
		v = dash

	case config.ViewConsole:
		v = view.NewConsole(os.Stdout, false)

	default:
		v = view.NewMemory()
	}
	defer v.Close()

	logger := log.New(logOut, "", logFlags)

	// --------------------
	// Build monitor
	// --------------------

	mon, err := monitor.New(cfg, v, logger)
	if err != nil {
		return err
	}

	logger.Printf("monitor starting (origin=%s view=%s)", cfg.Monitor.Origin, cfg.Monitor.View.Mode)

	if err := mon.Run(ctx); err != nil {
		return err
	}

	st := mon.LogStats()
	summary := fmt.Sprintf(
		"monitor stopped (log requests=%s failures=%s received=%s)",
		humanize.Comma(int64(st.Requests)),
		humanize.Comma(int64(st.Failures)),
		humanize.Bytes(st.AppendedBytes),
	)
	if cfg.Monitor.View.Mode == config.ViewTUI {
		// The system pane is gone once the dashboard closes.
		_ = v.Close()
		logger.SetOutput(os.Stderr)
	}
	logger.Print(summary)
	return nil
}
