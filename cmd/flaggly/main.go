package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/flaggly/flaggly/engine"
	"github.com/flaggly/flaggly/httpapi"
	"github.com/flaggly/flaggly/pkg/config"
	"github.com/flaggly/flaggly/pkg/httpserver"
	"github.com/flaggly/flaggly/pkg/jwt"
	"github.com/flaggly/flaggly/pkg/kv"
	"github.com/flaggly/flaggly/pkg/logger"
	"github.com/flaggly/flaggly/store"
)

type appConfig struct {
	Logger logger.Config
	Server httpserver.Config

	KVDriver  string `env:"FLAGGLY_KV_DRIVER" envDefault:"memory"`
	APIKey    string `env:"FLAGGLY_API_KEY,required"`
	JWTSecret string `env:"FLAGGLY_JWT_SECRET,required"`

	AnonymousDefault bool `env:"FLAGGLY_ANONYMOUS_DEFAULT" envDefault:"false"`

	SeedFile string `env:"FLAGGLY_SEED_FILE"`
	SeedApp  string `env:"FLAGGLY_SEED_APP" envDefault:"default"`
	SeedEnv  string `env:"FLAGGLY_SEED_ENV" envDefault:"production"`

	Redis    kv.RedisConfig
	Postgres kv.PostgresConfig
	Mongo    kv.MongoConfig
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger, logger.WithAttrs(slog.String("service", "flaggly")))

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("service stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	kvStore, err := openKV(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open kv store: %w", err)
	}
	defer kvStore.Close()
	log.Info("kv store ready", slog.String("driver", cfg.KVDriver))

	if cfg.SeedFile != "" {
		if err := seed(ctx, cfg, kvStore, log); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	jwtService, err := jwt.NewFromString(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("jwt service: %w", err)
	}

	evalOpts := []engine.Option{engine.WithLogger(log)}
	if cfg.AnonymousDefault {
		evalOpts = append(evalOpts, engine.WithAnonymousPolicy(engine.AnonymousDefault))
	}

	handler := httpapi.New(httpapi.Deps{
		KV:        kvStore,
		Evaluator: engine.New(evalOpts...),
		JWT:       jwtService,
		APIKey:    cfg.APIKey,
		Log:       log,
	})

	return httpserver.New(cfg.Server, log).Run(ctx, handler)
}

func openKV(ctx context.Context, cfg appConfig) (kv.Store, error) {
	switch cfg.KVDriver {
	case kv.DriverMemory:
		return kv.NewMemory(), nil
	case kv.DriverRedis:
		return kv.ConnectRedis(ctx, cfg.Redis)
	case kv.DriverPostgres:
		return kv.ConnectPostgres(ctx, cfg.Postgres)
	case kv.DriverMongo:
		return kv.ConnectMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("%w: unknown kv driver %q", kv.ErrInvalidConfig, cfg.KVDriver)
	}
}

// seed loads the document file into the configured tenant. An already
// populated tenant is left untouched.
func seed(ctx context.Context, cfg appConfig, kvStore kv.Store, log *slog.Logger) error {
	doc, err := store.LoadSeed(cfg.SeedFile)
	if err != nil {
		return err
	}
	if err := store.New(kvStore, cfg.SeedApp, cfg.SeedEnv).Seed(ctx, doc); err != nil {
		return err
	}
	log.Info("seed applied",
		slog.String("file", cfg.SeedFile),
		slog.String("app", cfg.SeedApp),
		slog.String("env", cfg.SeedEnv),
		slog.Int("flags", len(doc.Flags)),
		slog.Int("segments", len(doc.Segments)),
	)
	return nil
}
