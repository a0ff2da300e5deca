package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/auth"
	"github.com/nvollmar/sharefs/backends"
	"github.com/nvollmar/sharefs/backends/localfs"
	"github.com/nvollmar/sharefs/backends/s3"
	"github.com/nvollmar/sharefs/config"
	"github.com/nvollmar/sharefs/core"
	"github.com/nvollmar/sharefs/locks"
	"github.com/nvollmar/sharefs/server"
)

var rootCmd = &cobra.Command{
	Use:   "sharefs",
	Short: "ShareFS - Uniform file storage over pluggable backends",
	Long: `ShareFS exposes a uniform file storage API over pluggable backends,
serving local filesystem or S3-compatible object storage behind one
consistent set of semantics.`,
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ShareFS server",
	Long:  "Start the ShareFS server with the configured backend and API endpoints",
	RunE:  runServer,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the ShareFS configuration and display the loaded settings",
	RunE:  validateConfig,
}

var configFilePath string

func main() {
	serverCmd.Flags().StringVarP(&configFilePath, "config", "c", "", "Path to configuration file")

	configCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serverCmd, configCmd)

	// If no command specified, default to server
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "server")
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// runServer starts the ShareFS server
func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initializeLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
		}
	}()

	logger.Info("Starting ShareFS server",
		zap.String("listen_addr", cfg.Server.ListenAddr))

	// Initialize the lock manager: Redis when an address is configured,
	// otherwise the in-process manager.
	var lockManager locks.Manager
	if cfg.DLM.RedisAddr != "" {
		logger.Info("Initializing Redis lock manager", zap.String("addr", cfg.DLM.RedisAddr))
		rm, err := locks.NewRedisManager(cfg.DLM.RedisAddr, cfg.DLM.RedisPassword, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize lock manager: %w", err)
		}
		lockManager = rm
	} else {
		logger.Info("Using in-process lock manager (no Redis configured)")
		lockManager = locks.NewLocalManager()
	}
	defer func() {
		if err := lockManager.Close(); err != nil {
			logger.Warn("Failed to close lock manager", zap.Error(err))
		}
	}()

	// Select the backend. S3 wins when a bucket is configured; config
	// validation guarantees at least one of the two is present.
	var backend backends.Storage
	if cfg.Backend.S3BucketName != "" {
		logger.Info("Initializing S3 backend", zap.String("bucket", cfg.Backend.S3BucketName))
		backend, err = s3.NewS3Adapter(cfg.Backend, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 backend: %w", err)
		}
	} else {
		logger.Info("Initializing LocalFS backend", zap.String("root_path", cfg.Backend.LocalFSRootPath))
		backend, err = localfs.NewLocalFSAdapter(cfg.Backend.LocalFSRootPath)
		if err != nil {
			return fmt.Errorf("failed to initialize LocalFS backend: %w", err)
		}
	}

	logger.Info("Initializing file store")
	store := core.NewStore(backend, lockManager, core.Options{
		OverwriteTargets: cfg.Store.OverwriteTargets,
		EphemeralRoot:    cfg.Store.EphemeralRoot,
		CacheTTL:         cfg.Store.CacheTTL,
		CacheSize:        cfg.Store.CacheSize,
	}, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}()

	authenticator := auth.NewAPIKeyAuthenticator(cfg.Auth.APIKeys)

	logger.Info("Initializing HTTP router")
	router := server.NewRouter(store, authenticator, &cfg.Server, logger)

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if cfg.Server.CertFile != "" && cfg.Server.KeyFile != "" {
			logger.Info("Starting HTTPS server", zap.String("addr", cfg.Server.ListenAddr))
			if err := srv.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Failed to start server", zap.Error(err))
			}
		} else {
			logger.Info("Starting HTTP server", zap.String("addr", cfg.Server.ListenAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Failed to start server", zap.Error(err))
			}
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited gracefully")
	return nil
}

// validateConfig validates the ShareFS configuration and displays settings
func validateConfig(cmd *cobra.Command, args []string) error {
	fmt.Println("Validating configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	fmt.Println("Configuration is valid")
	fmt.Printf("Listen Address: %s\n", cfg.Server.ListenAddr)
	fmt.Printf("Redis Address: %s\n", cfg.DLM.RedisAddr)
	fmt.Printf("Local FS Root: %s\n", cfg.Backend.LocalFSRootPath)
	if cfg.Backend.S3BucketName != "" {
		fmt.Printf("S3 Bucket: %s\n", cfg.Backend.S3BucketName)
		fmt.Printf("S3 Region: %s\n", cfg.Backend.S3Region)
	}
	fmt.Printf("Overwrite Targets: %t\n", cfg.Store.OverwriteTargets)
	fmt.Printf("Ephemeral Root: %t\n", cfg.Store.EphemeralRoot)

	return nil
}

// initializeLogger creates a zap logger based on configuration
func initializeLogger(logCfg config.LogConfig) (*zap.Logger, error) {
	var cfg zap.Config

	if logCfg.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch logCfg.Level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return cfg.Build()
}
