package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/mandalnilabja/promptgate/internal/app"
	"github.com/mandalnilabja/promptgate/internal/config"
	"github.com/mandalnilabja/promptgate/internal/rewrite"
	"github.com/mandalnilabja/promptgate/internal/storage"
	"github.com/mandalnilabja/promptgate/internal/telemetry"
	"github.com/mandalnilabja/promptgate/internal/tokenizer"
	"github.com/mandalnilabja/promptgate/internal/transport/http/handler"
	"github.com/mandalnilabja/promptgate/internal/transport/http/middleware/auth"
	"github.com/mandalnilabja/promptgate/internal/upstream/azure"
	"github.com/mandalnilabja/promptgate/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		createKeyName = flag.String("create-key", "", "create a gateway API key with the given name and exit")
		listKeysFlag  = flag.Bool("list-keys", false, "list gateway API keys and exit")
		revokeKeyID   = flag.String("revoke-key", "", "revoke the gateway API key with the given ID and exit")
		showVersion   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("promptgate %s\n", version.Version)
		return
	}

	if err := run(*createKeyName, *listKeysFlag, *revokeKeyID); err != nil {
		fmt.Fprintf(os.Stderr, "promptgate: %v\n", err)
		os.Exit(1)
	}
}

func run(createKeyName string, listKeysFlag bool, revokeKeyID string) error {
	if err := config.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	// Key management commands run without upstream configuration
	switch {
	case createKeyName != "":
		return createKey(store, createKeyName)
	case listKeysFlag:
		return listKeys(store)
	case revokeKeyID != "":
		return revokeKey(store, revokeKeyID)
	}

	if err := config.EnsureConfigFile(); err != nil {
		return fmt.Errorf("failed to write default config file: %w", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger()
	printStartupBanner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTraces, err := telemetry.Init(ctx, cfg.OTLPEndpoint, "promptgate", version.Version, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTraces(flushCtx)
	}()

	upstream, err := azure.New(cfg.Endpoint, cfg.APIKey, cfg.APIVersion)
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	rewriteCache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1e6,
		MaxCost:     64 << 20, // 64MB of cached prompts
		BufferItems: 64,
	})
	if err != nil {
		return fmt.Errorf("failed to create rewrite cache: %w", err)
	}
	defer rewriteCache.Close()

	apiKeyCache, err := ristretto.NewCache(&ristretto.Config[string, *auth.CachedAPIKey]{
		NumCounters: 1e4,
		MaxCost:     1e3,
		BufferItems: 64,
	})
	if err != nil {
		return fmt.Errorf("failed to create key cache: %w", err)
	}
	defer apiKeyCache.Close()

	rewriter := rewrite.New(upstream, rewrite.Options{
		Deployment: cfg.MiniDeployment,
		MaxTokens:  cfg.RewriteMaxTokens,
		Cache:      rewriteCache,
		CacheTTL:   cfg.RewriteCacheTTL,
		Logger:     logger,
	})

	tok := tokenizer.New()

	repo := handler.NewRepo(upstream, rewriter, store, tok, logger, cfg.FullDeployment, cfg.MiniDeployment)
	router := app.NewRouter(repo, &app.RouterOptions{
		Logger:      logger,
		Storage:     store,
		APIKeyCache: apiKeyCache,
	})

	if cfg.LogRetentionDays > 0 {
		go pruneLogsLoop(ctx, store, cfg.LogRetentionDays, logger)
	}

	srv := app.NewServer(cfg, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

// pruneLogsLoop deletes request logs past the retention window once a day.
func pruneLogsLoop(ctx context.Context, store storage.Storage, retentionDays int, logger *slog.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	prune := func() {
		cutoff := time.Now().AddDate(0, 0, -retentionDays).Format("2006-01-02")
		deleted, err := store.DeleteRequestLogs(cutoff)
		if err != nil {
			logger.Warn("log pruning failed", "error", err)
			return
		}
		if deleted > 0 {
			logger.Info("pruned old request logs", "deleted", deleted, "before", cutoff)
		}
	}

	prune()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}
