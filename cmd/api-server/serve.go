package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobboard/internal/apiserver/auth"
	"jobboard/internal/apiserver/metrics"
	"jobboard/internal/apiserver/server"
	"jobboard/internal/core/offer"
	"jobboard/internal/shared/infra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting API Server", zap.String("env", string(cfg.Env)))
	log.Info("Config: " + cfg.String())

	if cfg.Auth.JWTSecret == "" {
		// 生产环境在 config.Load 中已拒绝
		cfg.Auth.JWTSecret = ephemeralSecret()
		log.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	inf, err := infra.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inf.Close()

	authCfg := auth.ConfigFrom(cfg)
	if err := auth.EnsureAdminUser(ctx, inf.Storage, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, log); err != nil {
		return err
	}

	var archive offer.Archiver
	if inf.Archive != nil {
		archive = inf.Archive
	}

	h, err := server.NewHandler(server.Options{
		Store:   inf.Storage,
		Config:  cfg,
		Auth:    authCfg,
		Limiter: inf.Limiter(),
		Archive: archive,
		Metrics: metrics.New("jobboard"),
		Logger:  log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.APIServer.Port,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	errCh := make(chan error, 1)
	go func() {
		log.Info("API Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
		return err
	}
	log.Info("Server stopped")
	return nil
}

func ephemeralSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
