// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-core-stack/mcp-edge-gateway/pkg/auth"
	"github.com/go-core-stack/mcp-edge-gateway/pkg/config"
)

const (
	// StreamPath is the only route proxied upstream.
	StreamPath = "/sse"

	contentTypeEventStream = "text/event-stream"
	headerRequestID        = "X-Request-Id"
	relayBufferSize        = 32 * 1024
)

// preflightHeaders answer CORS preflight requests on any path.
var preflightHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization, X-Account-Token",
}

// streamHeaders are set on every relayed upstream response. Upstream
// response headers are never copied.
var streamHeaders = map[string]string{
	"Content-Type":                contentTypeEventStream,
	"Cache-Control":               "no-cache",
	"Connection":                  "keep-alive",
	"Access-Control-Allow-Origin": "*",
}

// Proxy relays the /sse event stream from the upstream MCP server while
// translating the client's account token into upstream credentials.
type Proxy struct {
	// client performs outbound HTTP requests; it carries no overall timeout
	// since relayed streams are open-ended.
	client *http.Client
	// creds injects the bearer credential and tenant header.
	creds *auth.Credentials
	// logger emits structured logs for observability.
	logger zerolog.Logger
	// streamURL is StreamPath resolved against the configured upstream.
	streamURL *url.URL
}

// New constructs a Proxy from the provided runtime configuration.
func New(cfg config.Config) (http.Handler, error) {
	if cfg.Upstream == nil {
		return nil, errors.New("upstream URL is required")
	}
	if !cfg.Upstream.IsAbs() {
		return nil, fmt.Errorf("upstream URL %q must be absolute", cfg.Upstream)
	}

	// Keep connections warm and leave the body encoding untouched so the
	// stream reaches the client byte for byte.
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, // nolint:gosec -- opt-in for development scenarios
		},
	}

	handler := &Proxy{
		client:    &http.Client{Transport: transport},
		creds:     auth.NewCredentials(cfg.TenantHeader, cfg.Tenant),
		logger:    log.With().Str("component", "proxy").Logger(),
		streamURL: cfg.Upstream.ResolveReference(&url.URL{Path: StreamPath}),
	}

	return handler, nil
}

// ServeHTTP answers CORS preflights, rejects anything but an authenticated
// request for StreamPath, and relays the upstream stream. It is the single
// error boundary: failures before the response head is sent become a 500.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := r.Header.Get(headerRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(headerRequestID, requestID)

	event := p.logger.With().
		Str("request_id", requestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Logger()

	if r.Method == http.MethodOptions {
		for k, v := range preflightHeaders {
			w.Header().Set(k, v)
		}
		w.WriteHeader(http.StatusOK)
		event.Debug().Msg("answered CORS preflight")
		return
	}

	if r.URL.Path != StreamPath {
		writeText(w, http.StatusNotFound)
		return
	}

	token := auth.AccountToken(r)
	if token == "" {
		writeText(w, http.StatusUnauthorized)
		event.Debug().Msg("missing account token")
		return
	}

	resp, err := p.openStream(r, token)
	if err != nil {
		writeText(w, http.StatusInternalServerError)
		event.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("error in MCP proxy")
		return
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			event.Error().
				Err(closeErr).
				Msg("close upstream response body failed")
		}
	}()

	// The upstream status is propagated as is; error statuses are surfaced
	// in the logs since the body is still relayed as an event stream.
	if resp.StatusCode >= http.StatusBadRequest {
		event.Warn().
			Int("status", resp.StatusCode).
			Msg("upstream returned error status")
	}

	for k, v := range streamHeaders {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)

	written, err := relay(w, resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(r.Context().Err(), context.Canceled) {
			event.Info().
				Int64("bytes", written).
				Dur("duration", time.Since(start)).
				Msg("client disconnected from stream")
			return
		}
		event.Error().
			Err(err).
			Int64("bytes", written).
			Dur("duration", time.Since(start)).
			Msg("stream relay failed")
		return
	}

	event.Info().
		Int("status", resp.StatusCode).
		Int64("bytes", written).
		Dur("duration", time.Since(start)).
		Msg("stream proxied")
}

// openStream issues the upstream request for StreamPath. The inbound method
// is preserved; inbound headers and body are not forwarded.
func (p *Proxy) openStream(r *http.Request, token string) (*http.Response, error) {
	upstreamReq, err := http.NewRequestWithContext(r.Context(), r.Method, p.streamURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	upstreamReq.Header.Set("Content-Type", contentTypeEventStream)
	if err := p.creds.Attach(upstreamReq, token); err != nil {
		return nil, fmt.Errorf("attach credentials: %w", err)
	}

	resp, err := p.client.Do(upstreamReq)
	if err != nil {
		return nil, fmt.Errorf("perform upstream request: %w", err)
	}

	return resp, nil
}

// relay copies body to w in arrival order, flushing after every chunk so
// events are not held back by response buffering.
func relay(w http.ResponseWriter, body io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	buf := make([]byte, relayBufferSize)
	var written int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			m, writeErr := w.Write(buf[:n])
			written += int64(m)
			if writeErr != nil {
				return written, fmt.Errorf("write to client: %w", writeErr)
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("read upstream body: %w", readErr)
		}
	}
}

// writeText sends a plain-text response whose body is the status text.
func writeText(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, http.StatusText(status))
}
