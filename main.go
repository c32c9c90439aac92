package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"StaffBot/config"
	"StaffBot/handler"
	"StaffBot/logging"
	"StaffBot/metrics"
	"StaffBot/model"
	"StaffBot/repo"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "staffbot",
		Short:        "Telegram bot that registers workers and fills daily staffing requests",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env", "", "Path to a .env file (default: ./.env when present)")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newRosterCmd(flags))

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd
}

func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot and poll Telegram for updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath, flags.envFile)
			if err != nil {
				return err
			}
			logger, err := logging.Setup(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := runBot(ctx, cfg, logger); err != nil {
				logger.Error().Err(err).Msg("bot stopped with error")
				return err
			}
			logger.Info().Msg("Bot stopped")
			return nil
		},
	}
}

func runBot(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	backend, err := repo.OpenBackend(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing storage")
		}
	}()

	roster, err := repo.LoadRoster(ctx, backend, logger)
	if err != nil {
		return err
	}
	request := model.NewStaffingRequest()

	if cfg.MetricsAddr != "" {
		srv, err := startMetrics(ctx, cfg.MetricsAddr, roster, request, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	labels := handlerLabels(cfg.Labels)

	// The handler needs the bot to send messages and the bot needs a handler
	// at construction, so the default handler resolves h lazily.
	var h *handler.Handler
	b, err := bot.New(cfg.Token, bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		h.TelegramHandler(ctx, b, update)
	}))
	if err != nil {
		return fmt.Errorf("error creating bot: %w", err)
	}

	h = handler.New(handler.Options{
		AdminID:   cfg.AdminID,
		Labels:    labels,
		Roster:    roster,
		Request:   request,
		Messenger: handler.NewTelegramMessenger(b, labels),
		Logger:    logger,
	})

	logger.Info().
		Int64("admin_id", cfg.AdminID).
		Str("storage", cfg.Storage.Driver).
		Int("workers", roster.Len()).
		Msg("Bot started")
	b.Start(ctx)
	return nil
}

func startMetrics(ctx context.Context, addr string, roster *repo.Roster, request *model.StaffingRequest, logger zerolog.Logger) (*http.Server, error) {
	metricsHandler, err := metrics.InitMeterProvider(ctx, "staffbot")
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	err = metrics.InitMetrics(ctx, metrics.Gauges{
		Attending:  func() int64 { return int64(len(request.Snapshot().Attending)) },
		RosterSize: func() int64 { return int64(roster.Len()) },
	})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	logger.Info().Str("addr", addr).Msg("serving metrics")
	return srv, nil
}

func handlerLabels(l config.Labels) handler.Labels {
	return handler.Labels{
		RequestWorkers: l.RequestWorkers,
		WorkerList:     l.WorkerList,
		Attend:         l.Attend,
		ShareContact:   l.ShareContact,
	}
}

func newRosterCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Print the registered workers from the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStorage(flags.configPath, flags.envFile)
			if err != nil {
				return err
			}
			logger, err := logging.Setup(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
			if err != nil {
				return err
			}

			backend, err := repo.OpenBackend(cmd.Context(), cfg.Storage)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer backend.Close()

			roster, err := repo.LoadRoster(cmd.Context(), backend, logger)
			if err != nil {
				return err
			}
			workers := roster.List()
			if len(workers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No registered workers")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "USER ID\tNAME\tPHONE")
			for _, wk := range workers {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", wk.UserID, wk.FullName(), wk.PhoneNumber)
			}
			return w.Flush()
		},
	}
}
