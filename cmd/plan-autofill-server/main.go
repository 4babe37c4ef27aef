package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/plan-autofill/internal/logging"
	"github.com/iwvelando/plan-autofill/internal/narrative"
	"github.com/iwvelando/plan-autofill/internal/projection"
	"github.com/iwvelando/plan-autofill/internal/report"
	"github.com/iwvelando/plan-autofill/internal/server"
	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	maxUpload := flag.String("max-upload-size", "", "maximum upload size override (e.g. 256K, 1M)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *maxUpload != "" {
		size, err := server.ParseSize(*maxUpload)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid max upload size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := projection.NewEngine(logger, cfg.Policy)
	generator := narrative.NewGenerator(ctx, logger, cfg.Narrative)
	service := report.NewService(logger, engine, generator)

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.UploadSizeBytes(), version, service),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Info("server stopped", zap.String("op", "main"))
}
