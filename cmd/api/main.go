// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package main is the entry point for the QR studio API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/blob"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/config"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/logger"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/objectstore"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/preview"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/qr"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/store"
	transport "github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/transport/http"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log := logger.InitLogger()
	defer logger.Sync()

	log.Info("Starting QR studio",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	} else {
		log.Info(".env file loaded successfully")
	}

	cfg, err := config.LoadConfig(log)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	log.Debug("Configuration loaded",
		zap.String("port", cfg.Port),
		zap.Duration("read_timeout", cfg.ReadTimeout),
		zap.Duration("write_timeout", cfg.WriteTimeout),
		zap.Int64("max_body_size", cfg.MaxBodySize),
		zap.String("database", cfg.Database.Type),
	)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	records, err := openRecordStore(startupCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}
	defer records.Close()

	objects, err := openObjectStore(startupCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open object store", zap.Error(err))
	}

	encoding := payload.Options{ContactFormat: cfg.ContactFormat}
	renderer := render.NewRenderer(log, cfg.MinSize, cfg.MaxSize)
	svc := qr.NewService(log, renderer, qr.Settings{
		DefaultSize:  cfg.DownloadSize,
		BulkWorkers:  cfg.BulkWorkers,
		BulkMaxItems: cfg.BulkMaxItems,
		Encoding:     encoding,
		Presets:      cfg.Presets,
	})
	log.Debug("QR service initialized", zap.Strings("presets", cfg.Presets.Names()))

	handles := blob.NewStore()
	previews := preview.NewManager(log, renderer, handles, preview.Config{
		Debounce:    cfg.PreviewDebounce,
		Size:        cfg.PreviewSize,
		Format:      render.FormatPNG,
		Encoding:    encoding,
		IdleTimeout: cfg.PreviewIdleTimeout,
	}, cfg.MaxPreviewSessions)

	h := transport.NewHandler(log, svc, previews, handles, records, objects, transport.Settings{
		MaxBodySize:   cfg.MaxBodySize,
		DownloadSize:  cfg.DownloadSize,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	// Configure HTTP server with timeouts and security settings
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           transport.NewRouter(h),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	log.Debug("Initiating graceful shutdown", zap.Duration("timeout", cfg.ShutdownTimeout))
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	shutdownErr := srv.Shutdown(ctx)
	previews.CloseAll()
	if shutdownErr != nil {
		log.Error("Server forced to shutdown", zap.Error(shutdownErr), zap.Duration("timeout", cfg.ShutdownTimeout))
		if errors.Is(shutdownErr, context.DeadlineExceeded) {
			log.Warn("Shutdown timeout exceeded, closing connections")
			srv.Close()
		}
		records.Close()
		logger.Sync()
		os.Exit(1)
	}

	log.Info("Server exited gracefully")
}

func openRecordStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.Database.Type == config.DBTypeMemory {
		log.Info("Using in-memory record store")
		return store.NewMemoryStore(), nil
	}
	s, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to record store",
		zap.String("type", cfg.Database.Type),
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)
	return s, nil
}

func openObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (objectstore.Store, error) {
	if cfg.ObjectStore.Endpoint == "" {
		log.Info("Using in-memory object store")
		return objectstore.NewMemoryStore(cfg.PublicBaseURL), nil
	}
	s, err := objectstore.NewS3Store(cfg.ObjectStore, log)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Connected to object store",
		zap.String("endpoint", cfg.ObjectStore.Endpoint),
		zap.String("bucket", cfg.ObjectStore.Bucket),
	)
	return s, nil
}
