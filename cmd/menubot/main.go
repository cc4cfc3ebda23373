package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"menubot/internal/command"
	"menubot/internal/config"
	"menubot/internal/domain"
	"menubot/internal/feedback"
	"menubot/internal/menu"
	"menubot/internal/notify"
	"menubot/internal/scheduler"
	"menubot/internal/server"
	"menubot/internal/store"
)

var (
	version    = "1.0.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

const defaultConfigPath = "menubot.yaml"

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	_ = godotenv.Load() // GOOGLE_SHEET_ID, MATTERMOST_WEBHOOK_URL etc.

	root := &cobra.Command{
		Use:     "menubot",
		Short:   "Cafeteria menu notification bot for Mattermost",
		Long:    "menubot posts the daily cafeteria menu from a Google Sheet to a Mattermost channel, answers slash-command queries, and records feedback votes.",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to menubot.yaml (default: env-only configuration)")

	root.AddCommand(serveCmd())
	root.AddCommand(postCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(initCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration: explicit --config file, then a local
// menubot.yaml, then environment variables only.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.Load(defaultConfigPath)
	}
	return config.FromEnv()
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// buildComposer wires the store adapter, resolver, webhook client, and
// composer from config.
func buildComposer(ctx context.Context, cfg *config.Config) (*notify.Composer, *menu.Resolver, domain.MenuStore, error) {
	sheet, err := store.New(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("sheet store: %w", err)
	}

	resolver := menu.NewResolver(sheet, cfg.Location(), logger)
	client := notify.NewWebhookClient(cfg.Webhook.URL, time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second, logger)
	composer := notify.NewComposer(resolver, client, notify.ComposerConfig{
		Username: cfg.Webhook.Username,
		IconURL:  cfg.Webhook.IconURL,
		BaseURL:  cfg.Server.BaseURL,
		Token:    cfg.Server.CommandToken,
		Logger:   logger,
	})
	return composer, resolver, sheet, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduler and HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger = setupLogger(cfg.General.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	composer, resolver, sheet, err := buildComposer(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Schedule.Enabled {
		if cfg.Webhook.URL == "" {
			logger.Warn("webhook url not configured, scheduled announcements will fail")
		}
		sched, err := scheduler.Start(cfg.Schedule, cfg.Location(), composer, logger)
		if err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		defer func() { _ = sched.Shutdown() }()
	} else {
		logger.Info("schedule disabled")
	}

	if cfg.Server.BaseURL == "" {
		logger.Warn("server baseUrl not configured, announcements carry no vote buttons")
	}

	dispatcher := command.NewDispatcher(resolver, cfg.Server.CommandToken, logger)
	recorder := feedback.NewRecorder(sheet, cfg.Server.CommandToken, cfg.Server.BaseURL, logger)

	srv := server.New(cfg.Server, dispatcher, recorder, logger)
	return srv.Start(ctx)
}

func postCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "post [lunch|dinner]",
		Short:     "Post one announcement now (manual trigger)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.MealLunch), string(domain.MealDinner)},
		RunE: func(cmd *cobra.Command, args []string) error {
			meal := domain.Meal(args[0])
			if !meal.Valid() {
				return fmt.Errorf("unknown meal %q (use lunch or dinner)", args[0])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger = setupLogger(cfg.General.LogLevel)

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			composer, _, _, err := buildComposer(ctx, cfg)
			if err != nil {
				return err
			}
			return composer.Post(ctx, meal)
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and store connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger.Info("config ok", "spreadsheet", cfg.Store.SpreadsheetID, "worksheet", cfg.Store.Worksheet, "tz", cfg.General.Timezone)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			sheet, err := store.New(ctx, cfg.Store, logger)
			if err != nil {
				return fmt.Errorf("sheet store: %w", err)
			}
			rows, err := sheet.ListRows(ctx)
			if err != nil {
				return fmt.Errorf("sheet read: %w", err)
			}
			logger.Info("sheet reachable", "rows", len(rows))

			logger.Info("webhook", "configured", cfg.Webhook.URL != "")
			logger.Info("vote buttons", "enabled", cfg.Server.BaseURL != "")
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = defaultConfigPath
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.Defaults()); err != nil {
				return err
			}
			logger.Info("config written", "path", path)
			return nil
		},
	}
}
