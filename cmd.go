package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sivi/internal/api"
	"sivi/internal/auth"
	"sivi/internal/config"
	"sivi/internal/logger"
	"sivi/internal/models"
	"sivi/internal/redis"
	"sivi/internal/service/assistant"
	"sivi/internal/storage"
)

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "sivi",
		Short:         "Sivi language-learning backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("SIVI_CONFIG"), "path to config.json")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), cfgPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database tables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				env, err := setup(cmd.Context(), cfgPath, false)
				if err != nil {
					return err
				}
				defer env.close()
				env.log.Info().Str("driver", string(env.db.Dialect())).Msg("database migrated")
				return nil
			},
		},
		newPromptsCmd(&cfgPath),
	)
	return root
}

func newPromptsCmd(cfgPath *string) *cobra.Command {
	prompts := &cobra.Command{
		Use:   "prompts",
		Short: "Manage stored media prompts",
	}
	prompts.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Import media prompts from a YAML list of {kind, url, prompt}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readPromptFile(args[0])
			if err != nil {
				return err
			}
			env, err := setup(cmd.Context(), *cfgPath, true)
			if err != nil {
				return err
			}
			defer env.close()
			n, err := env.assistant.ImportPrompts(cmd.Context(), items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d prompts\n", n)
			return nil
		},
	})
	return prompts
}

func readPromptFile(path string) ([]models.MediaPrompt, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	var items []models.MediaPrompt
	if err := yaml.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode prompts file: %w", err)
	}
	return items, nil
}

type environment struct {
	cfg       *config.Config
	log       zerolog.Logger
	db        *storage.DB
	cache     *redis.Client
	assistant *assistant.Service
}

func (e *environment) close() {
	if e.cache != nil {
		_ = e.cache.Close()
	}
	if e.db != nil {
		_ = e.db.Close()
	}
}

// setup loads config, opens and migrates the store and, when wanted, the prompt cache.
func setup(ctx context.Context, cfgPath string, withCache bool) (*environment, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	env := &environment{cfg: cfg, log: logger.New(cfg.Log)}

	env.db, err = storage.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := storage.Migrate(env.db); err != nil {
		env.close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	opts := []assistant.Option{assistant.WithLogger(env.log)}
	if withCache && cfg.Redis.Enabled {
		env.cache, err = redis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			env.close()
			return nil, fmt.Errorf("create redis client: %w", err)
		}
		ttl := time.Duration(cfg.Redis.PromptCacheTTLSeconds) * time.Second
		opts = append(opts, assistant.WithPromptCache(env.cache, ttl))
	}
	env.assistant = assistant.NewService(env.db, opts...)
	return env, nil
}

func runServe(ctx context.Context, cfgPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, cfgPath, true)
	if err != nil {
		return err
	}
	defer env.close()
	if env.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	env.log.Info().
		Str("driver", string(env.db.Dialect())).
		Bool("prompt_cache", env.cache != nil).
		Msg("storage ready")

	handler := api.NewHandler(env.assistant, auth.NewService(env.cfg.Auth.APIKey, env.cfg.Auth.HeaderName), env.log)
	server := api.NewServer(
		env.cfg.BasicConfig.ServerAddress,
		api.NewRouter(handler),
		env.cfg.CORS.AllowedOrigins,
		time.Duration(env.cfg.BasicConfig.ShutdownTimeoutSeconds)*time.Second,
		env.log,
	)
	return server.Run(ctx)
}
