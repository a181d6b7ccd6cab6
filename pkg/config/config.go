// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envUpstreamURL           = "MERGE_MCP_SERVER_URL"
	envTenant                = "MERGE_TENANT"
	envTenantHeader          = "GATEWAY_TENANT_HEADER"
	envListenAddr            = "GATEWAY_LISTEN_ADDR"
	envToolsListenAddr       = "GATEWAY_TOOLS_LISTEN_ADDR"
	envInsecureSkipVerify    = "GATEWAY_UPSTREAM_INSECURE"
	envLogLevel              = "GATEWAY_LOG_LEVEL"
	envServerReadTimeout     = "GATEWAY_SERVER_READ_TIMEOUT"
	envServerIdleTimeout     = "GATEWAY_SERVER_IDLE_TIMEOUT"
	envGracefulShutdown      = "GATEWAY_GRACEFUL_SHUTDOWN"
	defaultListenAddr        = "127.0.0.1:8787"
	defaultToolsListenAddr   = "127.0.0.1:8788"
	defaultTenantHeader      = "X-Merge-Tenant"
	defaultLogLevel          = "info"
	defaultServerReadTimeout = 30 * time.Second
	defaultServerIdleTimeout = 120 * time.Second
	defaultGracefulShutdown  = 10 * time.Second
)

// Config captures runtime settings for the gateway. It is built once at
// startup and handed to constructors by value.
type Config struct {
	ListenAddr string
	// ToolsListenAddr is where the MCP calculator tools are served over
	// streamable HTTP. Empty disables the listener.
	ToolsListenAddr         string
	Upstream                *url.URL
	TenantHeader            string
	Tenant                  string
	InsecureSkipVerify      bool
	LogLevel                string
	ServerReadTimeout       time.Duration
	ServerIdleTimeout       time.Duration
	GracefulShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and validates required
// values. Any envFiles are loaded first; variables already present in the
// environment take precedence over the file contents.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
	}

	upstreamRaw := strings.TrimSpace(os.Getenv(envUpstreamURL))
	if upstreamRaw == "" {
		return Config{}, errors.New("MERGE_MCP_SERVER_URL is required")
	}

	upstream, err := url.Parse(upstreamRaw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MERGE_MCP_SERVER_URL: %w", err)
	}
	if !upstream.IsAbs() || upstream.Host == "" {
		return Config{}, errors.New("MERGE_MCP_SERVER_URL must be absolute (scheme://host)")
	}

	tenant := strings.TrimSpace(os.Getenv(envTenant))
	if tenant == "" {
		return Config{}, errors.New("MERGE_TENANT is required")
	}

	cfg := Config{
		ListenAddr:              getString(envListenAddr, defaultListenAddr),
		ToolsListenAddr:         getOptionalString(envToolsListenAddr, defaultToolsListenAddr),
		Upstream:                upstream,
		TenantHeader:            getString(envTenantHeader, defaultTenantHeader),
		Tenant:                  tenant,
		InsecureSkipVerify:      getBool(envInsecureSkipVerify, false),
		LogLevel:                strings.ToLower(getString(envLogLevel, defaultLogLevel)),
		ServerReadTimeout:       getDuration(envServerReadTimeout, defaultServerReadTimeout),
		ServerIdleTimeout:       getDuration(envServerIdleTimeout, defaultServerIdleTimeout),
		GracefulShutdownTimeout: getDuration(envGracefulShutdown, defaultGracefulShutdown),
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// getOptionalString distinguishes an unset variable (fallback) from one
// explicitly set to the empty string (disabled).
func getOptionalString(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(val)
}

func getBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
