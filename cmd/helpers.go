package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"nebify-credit/config"
	"nebify-credit/domain"
	"nebify-credit/repository"
	"nebify-credit/service"
)

const simulationHistoryLimit = 500

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// newCache connects to Redis when configured and falls back to memory.
func newCache(ctx context.Context, cfg config.RedisConfig, logger *logrus.Logger) (repository.CacheRepository, func()) {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory cache")
		return repository.NewMemoryCache(), func() {}
	}

	cache := repository.NewRedisCache(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cache.Ping(ctx); err != nil {
		logger.WithError(err).Warnf("redis at %s unreachable, using in-memory cache", cfg.Addr)
		_ = cache.Close()
		return repository.NewMemoryCache(), func() {}
	}

	logger.WithField("addr", cfg.Addr).Info("using redis cache")
	return cache, func() {
		if err := cache.Close(); err != nil {
			logger.WithError(err).Warn("failed to close redis client")
		}
	}
}

type services struct {
	chat      *service.ChatService
	simulator *service.LoanSimulatorService
	close     func()
}

func buildServices(ctx context.Context, cfg config.Config, logger *logrus.Logger) services {
	cache, closeCache := newCache(ctx, cfg.Redis, logger)

	var advisor *service.AdvisorService
	if cfg.Advisor.Enabled() {
		advisor = service.NewAdvisorService(cfg.Advisor.APIKey, cfg.Advisor.Model, cfg.Advisor.Timeout, logger)
		logger.WithField("model", cfg.Advisor.Model).Info("advisor enabled")
	}

	profile := domain.BorrowerProfile{
		CreditScore:  cfg.Profile.CreditScore,
		DebtToIncome: cfg.Profile.DebtToIncome,
	}

	chat := service.NewChatService(service.NewIntentMatcher(), cache, cfg.Chat.SessionTTL, logger)

	return services{
		chat: chat,
		simulator: service.NewLoanSimulatorService(
			repository.NewSimulationRepositoryMemory(simulationHistoryLimit),
			cache,
			advisor,
			profile,
			logger,
		),
		close: func() {
			chat.Stop()
			closeCache()
		},
	}
}

func loadConfig() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, newLogger(cfg.Log), nil
}
