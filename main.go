// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

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

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-core-stack/mcp-edge-gateway/pkg/config"
	"github.com/go-core-stack/mcp-edge-gateway/pkg/proxy"
	"github.com/go-core-stack/mcp-edge-gateway/pkg/tools"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var envFiles []string

var rootCmd = &cobra.Command{
	Use:           "mcp-edge-gateway",
	Short:         "Edge gateway serving calculator MCP tools and an authenticated SSE proxy",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the SSE proxy and the MCP tools over HTTP",
	RunE:  runServe,
}

var toolsStdioCmd = &cobra.Command{
	Use:   "tools-stdio",
	Short: "Serve the MCP calculator tools over stdio",
	RunE:  runToolsStdio,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv file(s) to load before reading the environment")
	toolsStdioCmd.Flags().String("log-level", "info", "log level written to stderr")
	rootCmd.AddCommand(serveCmd, toolsStdioCmd)
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("gateway exited with error")
	}
}

func setLogLevel(raw string) error {
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	log.Logger = log.Level(level)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := setLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	proxyHandler, err := proxy.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to construct proxy: %w", err)
	}

	// No write timeout: relayed event streams stay open indefinitely.
	servers := []*http.Server{{
		Addr:        cfg.ListenAddr,
		Handler:     proxyHandler,
		ReadTimeout: cfg.ServerReadTimeout,
		IdleTimeout: cfg.ServerIdleTimeout,
	}}

	if cfg.ToolsListenAddr != "" {
		toolServer, err := tools.NewServer(version)
		if err != nil {
			return fmt.Errorf("failed to construct tool server: %w", err)
		}
		servers = append(servers, &http.Server{
			Addr:        cfg.ToolsListenAddr,
			Handler:     tools.NewHTTPHandler(toolServer),
			ReadTimeout: cfg.ServerReadTimeout,
			IdleTimeout: cfg.ServerIdleTimeout,
		})
	}

	log.Info().
		Str("listen_addr", cfg.ListenAddr).
		Str("tools_listen_addr", cfg.ToolsListenAddr).
		Str("upstream", cfg.Upstream.String()).
		Str("tenant_header", cfg.TenantHeader).
		Str("version", version).
		Msg("starting MCP edge gateway")

	for _, srv := range servers {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Str("addr", srv.Addr).Msg("server exited unexpectedly")
			}
		}(srv)
	}

	waitForShutdown(cmd.Context(), cfg.GracefulShutdownTimeout, servers...)
	return nil
}

func runToolsStdio(cmd *cobra.Command, _ []string) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	if err := setLogLevel(level); err != nil {
		return err
	}

	server, err := tools.NewServer(version)
	if err != nil {
		return fmt.Errorf("failed to construct tool server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", version).Msg("serving MCP tools over stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func waitForShutdown(ctx context.Context, timeout time.Duration, servers ...*http.Server) {
	if ctx == nil {
		ctx = context.Background()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	log.Info().Msg("shutting down MCP edge gateway")

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Str("addr", srv.Addr).Msg("graceful shutdown failed; forcing close")
			if closeErr := srv.Close(); closeErr != nil {
				log.Error().Err(closeErr).Str("addr", srv.Addr).Msg("forced close failed")
			}
		}
	}

	log.Info().Msg("gateway stopped")
}
