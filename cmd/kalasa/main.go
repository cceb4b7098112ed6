package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"kalasa.app/kalasa/internal/config"
	"kalasa.app/kalasa/internal/core"
	"kalasa.app/kalasa/internal/logging"
	"kalasa.app/kalasa/internal/media"
	"kalasa.app/kalasa/internal/store"
)

var newLLMService = core.NewLLMService

// app holds everything a command needs. It is filled in by the root
// command's PersistentPreRunE and released by close.
type app struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	logger  *zap.Logger
	db      *store.DocumentStore
	kitchen *core.KitchenService
	llm     *core.LLMService
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "kalasa",
		Short: "KALASA - share dishes and menu ideas with your food community",
		Long: `KALASA keeps users, food posts, menu ideas and comments in a local
document store and can draft posts, menus and photos with Gemini.

Set GEMINI_API_KEY to enable the draft commands.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file (default: kalasa.yaml when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newSeedCmd(a),
		newProfileCmd(a),
		newFollowCmd(a),
		newPostCmd(a),
		newMenuCmd(a),
		newCommentCmd(a),
		newDraftCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger

	kv, err := openSubstrate(ctx, cfg)
	if err != nil {
		return err
	}
	a.db = store.NewDocumentStore(kv, logger)
	if cfg.SeedDemoData {
		if err := a.db.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	var gen core.ContentGenerator
	if cfg.GeminiAPIKey != "" {
		llm, err := newLLMService(ctx, cfg, logger)
		if err != nil {
			logger.Warn("Gemini client unavailable, draft commands are disabled", zap.Error(err))
		} else {
			a.llm = llm
			gen = core.NewRateLimitedGenerator(llm, cfg.RequestsPerMinute)
		}
	} else {
		logger.Debug("GEMINI_API_KEY not set, draft commands are disabled")
	}
	a.kitchen = core.NewKitchenService(a.db, gen, logger)
	return nil
}

func openSubstrate(ctx context.Context, cfg *config.Config) (store.Substrate, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return store.NewRedisKV(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.RedisKeyPrefix)
	default:
		return store.NewSQLiteKV(cfg.DatabaseURL)
	}
}

func (a *app) close() {
	if a.llm != nil {
		a.llm.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && a.logger != nil {
			a.logger.Warn("error closing store", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) mediaOptions() media.Options {
	return media.Options{MaxBytes: a.cfg.MaxUploadBytes, MaxDimension: a.cfg.MaxImageDimension}
}

// execute runs the CLI with args, writing command output to out.
func execute(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}
