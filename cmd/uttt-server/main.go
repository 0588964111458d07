// Command uttt-server hosts live Ultimate Tic-Tac-Toe matches over HTTP
// and WebSocket.
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

	"github.com/sirupsen/logrus"

	"github.com/2lu3/games/internal/cache"
	"github.com/2lu3/games/internal/database"
	"github.com/2lu3/games/internal/server"
)

func main() {
	log := logrus.New()

	cfg, err := server.LoadConfig()
	if err != nil {
		log.WithField("error", err).Fatal("load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, keeping info")
	}
	if cfg.TokenSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.WithField("error", err).Fatal("generate token secret")
		}
		cfg.TokenSecret = hex.EncodeToString(secret)
		log.Warn("UTTT_TOKEN_SECRET is unset; seat tokens will not survive a restart")
	}

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
			log.WithField("error", err).Warn("database unavailable, match history disabled")
		} else if err := database.EnsureSchema(ctx); err != nil {
			log.WithField("error", err).Warn("schema setup failed, match history disabled")
			database.Close()
		}
		cancel()
		defer database.Close()
	}
	if cfg.RedisAddr != "" {
		if err := cache.InitRedis(cfg.RedisAddr); err != nil {
			log.WithField("error", err).Warn("redis unavailable, action queue disabled")
		} else {
			defer cache.Close()
		}
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(log, cfg).Router(),
	}
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("addr", cfg.Addr).Info("server listening")
	select {
	case <-sigCtx.Done():
		log.Info("shutdown signal received")
	case err, ok := <-serverErr:
		if ok {
			log.WithField("error", err).Error("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithField("error", err).Warn("graceful shutdown failed")
		_ = srv.Close()
	}
}
