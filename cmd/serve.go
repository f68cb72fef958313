package cmd

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpLayer "nebify-credit/http"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chatbot and loan simulator API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := buildServices(ctx, cfg, logger)
		defer svc.close()

		rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
		defer rateLimiter.Stop()

		router := httpLayer.NewRouter(
			httpLayer.NewChatHandler(svc.chat, logger),
			httpLayer.NewLoanHandler(svc.simulator, logger),
			httpLayer.RouterOptions{
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Limiter:        rateLimiter,
				Logger:         logger,
			},
		)

		server := &nethttp.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		serverErr := make(chan error, 1)
		go func() {
			logger.WithField("addr", cfg.Server.Addr).Info("API listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				serverErr <- err
			}
		}()

		select {
		case err := <-serverErr:
			logger.WithError(err).Error("server failed")
			return err
		case <-ctx.Done():
			logger.Info("shutting down server")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("error during server shutdown")
			return err
		}

		logger.Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
