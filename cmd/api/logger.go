package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mandalnilabja/promptgate/internal/config"
	"github.com/mandalnilabja/promptgate/internal/version"
)

func setupLogger() *slog.Logger {
	// Use sensible defaults: info level, text format
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Promptgate %s - Prompt-Rewriting Azure OpenAI Proxy\n", version.Version)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Proxy API:  http://localhost%s/v1/chat/completions\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Usage API:  http://localhost%s/api/usage\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Full:       %s\n", cfg.FullDeployment)
	fmt.Fprintf(os.Stderr, "Mini:       %s\n", cfg.MiniDeployment)
	fmt.Fprintf(os.Stderr, "Data:       %s\n", config.DataDir())
	if cfg.TracingEnabled() {
		fmt.Fprintf(os.Stderr, "Traces:     %s\n", cfg.OTLPEndpoint)
	}
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}
