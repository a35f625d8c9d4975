// Command courtwatch polls court availability and emails newly opened slots.
//
// Usage:
//
//	courtwatch watch              # poll on an interval, optional status API
//	courtwatch scan               # one cycle, for external cron
//	courtwatch scan --no-email    # one cycle, print instead of sending
//	courtwatch stats              # show ledger stats
//
// @title courtwatch status API
// @version 1.0.0
// @description Observability surface for the court availability watcher.
// @host localhost:8000
// @BasePath /
// @schemes http
// @contact.name courtwatch
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/courtwatch/courtwatch/internal/api"
	"github.com/courtwatch/courtwatch/internal/availability"
	"github.com/courtwatch/courtwatch/internal/config"
	"github.com/courtwatch/courtwatch/internal/db"
	"github.com/courtwatch/courtwatch/internal/ledger"
	"github.com/courtwatch/courtwatch/internal/notify"
	"github.com/courtwatch/courtwatch/internal/watch"
	"github.com/courtwatch/courtwatch/internal/window"

	_ "github.com/courtwatch/courtwatch/docs" // swagger docs
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "courtwatch",
		Short: "Court availability watcher with email notifications",
	}

	root.AddCommand(watchCmd())
	root.AddCommand(scanCmd())
	root.AddCommand(statsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// watch command
// --------------------------------------------------------------------------

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll availability on an interval and email new slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, d *deps) error {
				status := &watch.Status{}
				runner := buildRunner(d, status, false)

				if d.cfg.StatusEnabled {
					startStatusServer(ctx, d, status)
				}

				logger.Info("courtwatch started",
					"clubs", len(d.cfg.EnabledClubs()),
					"window", d.window.String(),
					"interval", d.cfg.CheckInterval,
					"ledger", d.ledgerBackend())

				runner.Run(ctx)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// scan command
// --------------------------------------------------------------------------

func scanCmd() *cobra.Command {
	var noEmail bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single scan cycle (for external cron)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, d *deps) error {
				status := &watch.Status{}
				runner := buildRunner(d, status, noEmail)

				start := time.Now()
				runner.Cycle(ctx)
				snap := status.Snapshot()
				logger.Info("scan finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"new_slots", snap.LastNewSlots,
					"cells", snap.LastCells,
					"failed", snap.LastFailed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noEmail, "no-email", false, "Print the message instead of sending email")
	return cmd
}

// --------------------------------------------------------------------------
// stats command
// --------------------------------------------------------------------------

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show notification ledger stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, d *deps) error {
				stats := d.ledger.Stats()
				if stats.OldestAgeHours != nil {
					fmt.Printf("entries: %d\noldest:  %dh\n", stats.Total, *stats.OldestAgeHours)
				} else {
					fmt.Printf("entries: %d\noldest:  none\n", stats.Total)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// deps bundles everything a subcommand needs after config is loaded.
type deps struct {
	cfg    *config.Config
	window window.Window
	ledger ledger.Ledger
	pool   *db.Pool // nil when the ledger is file-backed
	source *availability.Client
}

func (d *deps) ledgerBackend() string {
	if d.pool != nil {
		return "postgres"
	}
	return "file"
}

// run handles config loading, window validation, ledger setup, and context
// cancellation, then hands off to the subcommand body.
func run(fn func(ctx context.Context, d *deps) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	w, err := cfg.Window()
	if err != nil {
		return fmt.Errorf("build eligibility window: %w", err)
	}

	d := &deps{
		cfg:    cfg,
		window: w,
		source: availability.NewClient(cfg.BaseURL, cfg.RequestsPerMinute, logger),
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		d.pool = pool

		led, err := ledger.OpenPostgres(ctx, pool, logger, nil)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		d.ledger = led
	} else {
		d.ledger = ledger.OpenFile(cfg.StorageFile, logger, nil)
	}

	return fn(ctx, d)
}

// buildRunner assembles the scan cycle around the shared deps.
func buildRunner(d *deps, status *watch.Status, noEmail bool) *watch.Runner {
	var mailer *notify.Mailer
	if !noEmail && d.cfg.EmailConfigured() {
		mailer = notify.NewMailer(
			d.cfg.SMTPHost, d.cfg.SMTPPort,
			d.cfg.EmailSender, d.cfg.EmailPassword,
			d.cfg.EmailRecipients, logger)
	}
	if mailer == nil {
		logger.Info("email delivery disabled, new slots will be logged only")
	}

	return &watch.Runner{
		Scanner: &watch.Scanner{
			Source:        d.source,
			Ledger:        d.ledger,
			Window:        d.window,
			Clubs:         d.cfg.Clubs,
			SportID:       d.cfg.SportID,
			LookaheadDays: d.cfg.LookaheadDays,
			TTL:           d.cfg.TTL,
			Logger:        logger,
		},
		Notifier: &notify.EmailNotifier{
			Mailer:   mailer,
			Location: d.window.Location,
			Logger:   logger,
		},
		Status:       status,
		Interval:     d.cfg.CheckInterval,
		RunStartHour: d.cfg.RunStartHour,
		RunEndHour:   d.cfg.RunEndHour,
		Logger:       logger,
	}
}

// startStatusServer runs the status API in the background and shuts it down
// when ctx is cancelled.
func startStatusServer(ctx context.Context, d *deps, status *watch.Status) {
	router := api.NewRouter(d.cfg, status, d.pool)
	addr := fmt.Sprintf("%s:%d", d.cfg.APIHost, d.cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("status API listening", "addr", addr,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", d.cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("status API failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("status API shutdown error", "error", err)
		}
	}()
}
