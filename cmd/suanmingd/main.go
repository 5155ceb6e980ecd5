package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadapter "github.com/rty-renty/SuanMing/internal/adapters/http"
	"github.com/rty-renty/SuanMing/internal/adapters/llm/gemini"
	"github.com/rty-renty/SuanMing/internal/adapters/llm/openrouter"
	"github.com/rty-renty/SuanMing/internal/app"
	"github.com/rty-renty/SuanMing/internal/config"
	"github.com/rty-renty/SuanMing/internal/credential"
	"github.com/rty-renty/SuanMing/internal/ports"
)

func main() {
	// A .env file is optional; real environment variables win.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to read .env", "error", envErr)
	}

	creds := credential.NewChain(
		credential.Static(cfg.APIKey),
		credential.Static(credential.Embedded),
	)

	oracle := newOracle(cfg, logger)
	if oracle == nil {
		logger.Info("remote oracle disabled, all divinations use the local generator")
	}
	svc := app.NewDivinationService(oracle, creds, cfg.MinDelay, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpadapter.ErrorHandler(logger)

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))
	e.Use(middleware.Recover())

	handler := httpadapter.NewHandler(svc)
	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "provider", cfg.LLMProvider, "model", cfg.LLMModel)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func newOracle(cfg config.Config, logger *slog.Logger) ports.Oracle {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return gemini.NewClient(cfg.LLMModel, cfg.LLMFallbackModels, cfg.LLMTemperature, cfg.LLMTimeout, logger)
	case config.ProviderOpenRouter:
		return openrouter.NewClient(
			&http.Client{Timeout: cfg.LLMTimeout},
			cfg.OpenRouterBaseURL,
			cfg.LLMModel,
			cfg.LLMFallbackModels,
			cfg.LLMTemperature,
			logger,
		)
	default:
		return nil
	}
}
