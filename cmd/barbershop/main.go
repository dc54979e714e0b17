// Package main запускает HTTP-сервер барбершоп-консоли.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/barbershop-system/internal/config"
	"github.com/mmeshcher/barbershop-system/internal/handler"
	"github.com/mmeshcher/barbershop-system/internal/insight"
	"github.com/mmeshcher/barbershop-system/internal/repository"
	"github.com/mmeshcher/barbershop-system/internal/session"
	"github.com/mmeshcher/barbershop-system/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	st, err := store.Open(store.Options{
		DatabaseURI: cfg.DatabaseURI,
		StorageFile: cfg.StorageFile,
	})
	if err != nil {
		sugar.Fatalw("record store initialization error", "error", err.Error())
	}

	repo := repository.New(st)
	defer repo.Close()

	var insightClient *insight.Client
	if cfg.InsightAPIKey != "" {
		insightClient = insight.NewClient(cfg.InsightAddress, cfg.InsightAPIKey, cfg.InsightModel)
	}

	var insightSource session.InsightSource
	if insightClient != nil {
		insightSource = insightClient
	}

	sess := session.New(repo, insightSource, logger)

	var reminder handler.ReminderSource
	if insightClient != nil {
		reminder = insightClient
	}

	h := handler.NewHandler(sess, reminder, logger)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Первичная загрузка списков до приёма запросов
	sess.Load(ctx)

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting barbershop console", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
