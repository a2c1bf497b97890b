package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"chess-mcp/internal/chess"
	"chess-mcp/internal/config"
	"chess-mcp/internal/fetch"
	"chess-mcp/internal/logging"
	"chess-mcp/internal/metrics"
)

const version = "0.1.0"

func main() {
	var (
		configPath  = flag.String("config", "", "optional YAML config file")
		transport   = flag.String("transport", "", "stdio|http (default from config: stdio)")
		addr        = flag.String("addr", "", "HTTP listen address (http transport)")
		mcpPath     = flag.String("path", "", "HTTP path for MCP endpoint (http transport)")
		baseURL     = flag.String("base-url", "", "Chess.com public API base URL")
		logLevel    = flag.String("log-level", "", "debug|info|warn|error")
		requireAuth = flag.Bool("require-auth", false, "require API key auth via CHESS_MCP_API_KEY (http transport)")
		authHeader  = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
	)
	flag.Parse()

	dotenv := config.LoadDotEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	override(&cfg.Transport, *transport)
	override(&cfg.Addr, *addr)
	override(&cfg.Path, *mcpPath)
	override(&cfg.BaseURL, *baseURL)
	override(&cfg.LogLevel, *logLevel)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	printBanner(cfg, dotenv)

	m := metrics.New()
	api := fetch.NewClient(cfg.BaseURL, cfg.Timeout, logger)
	api.UserAgent = cfg.UserAgent
	api.Metrics = m
	ts := newToolServer(chess.NewService(api, logger), logger, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportHTTP:
		if *requireAuth && cfg.APIKey == "" {
			logger.Fatal("CHESS_MCP_API_KEY is required (set env var or run with --require-auth=false)")
		}
		err = serveHTTP(ctx, ts, cfg, *authHeader)
	default:
		// Run MCP server over stdin/stdout.
		err = ts.server.Run(ctx, &mcp.StdioTransport{})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

func override(dst *string, flagValue string) {
	if v := strings.TrimSpace(flagValue); v != "" {
		*dst = v
	}
}

// printBanner writes to stderr; stdout belongs to the stdio transport.
func printBanner(cfg config.Config, dotenv bool) {
	if dotenv {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env file")
	} else {
		fmt.Fprintln(os.Stderr, "No .env file found - using environment variables")
	}
	fmt.Fprintln(os.Stderr, "Chess.com API configuration:")
	fmt.Fprintf(os.Stderr, "  Base URL:  %s\n", cfg.BaseURL)
	fmt.Fprintf(os.Stderr, "  Timeout:   %s\n", cfg.Timeout)
	fmt.Fprintf(os.Stderr, "  Transport: %s\n", cfg.Transport)
	fmt.Fprintf(os.Stderr, "\nStarting Chess.com MCP Server %s...\n", version)
}

func serveHTTP(ctx context.Context, ts *toolServer, cfg config.Config, authHeader string) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHTTPMux(ts, cfg, authHeader),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		ts.log.Info("MCP HTTP server listening", zap.String("addr", cfg.Addr), zap.String("path", cfg.Path))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newHTTPMux(ts *toolServer, cfg config.Config, authHeader string) *http.ServeMux {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return ts.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := cfg.APIKey
	withAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(authHeader))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/tools", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": ts.registry}, "", "  ")
		_, _ = w.Write(b)
	}))
	mux.HandleFunc("/metrics", withAuth(ts.metrics.Handler().ServeHTTP))
	mux.HandleFunc(cfg.Path, withAuth(handler.ServeHTTP))
	return mux
}
