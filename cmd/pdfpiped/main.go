// CLAUDE:SUMMARY Entry point for the PDF extraction HTTP service — chi router, audit log, optional MCP stdio.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/pdfpipe/dbopen"
	"github.com/hazyhaar/pdfpipe/observability"
	"github.com/hazyhaar/pdfpipe/pdftext"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to pdfpiped.yaml config file")
	flag.Parse()

	cfg := DefaultConfig()
	if path := env("CONFIG_PATH", *configPath); path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
	}

	// Env overrides for container deployments.
	cfg.Listen = env("LISTEN", cfg.Listen)
	cfg.AuditDB = env("AUDIT_DB", cfg.AuditDB)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	cfg.MCPTransport = env("MCP_TRANSPORT", cfg.MCPTransport)
	if err := cfg.Validate(); err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// Logging. MCP stdio owns stdout, so logs move to stderr in that mode.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logOut := io.Writer(os.Stdout)
	if cfg.MCPTransport == "stdio" {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Audit DB.
	auditDB, err := dbopen.Open(cfg.AuditDB, dbopen.WithMkdirAll(), dbopen.WithSchema(observability.Schema))
	if err != nil {
		slog.Error("audit db", "error", err)
		os.Exit(1)
	}
	defer auditDB.Close()
	auditStore := observability.NewStore(auditDB)
	defer auditStore.Close()

	// Extraction pipeline.
	pc := cfg.PipelineConfig()
	pc.Logger = logger
	pipe := pdftext.New(pc)

	// Optional MCP stdio transport.
	if cfg.MCPTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "pdfpipe",
			Version: "1.0.0",
		}, nil)
		pipe.RegisterMCP(mcpSrv)
		go func() {
			slog.Info("MCP stdio starting")
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	// Router.
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Post("/api/extract/text", func(w http.ResponseWriter, r *http.Request) {
		path, ok := decodePath(w, r)
		if !ok {
			return
		}
		start := time.Now()
		text, err := pipe.ExtractText(r.Context(), path)
		entry := observability.NewEntry("extract_text", path, err, time.Since(start))
		entry.CharCount = utf8.RuneCountInString(text)
		auditStore.RecordAsync(entry)
		if err != nil {
			writeError(w, errStatus(err), err)
			return
		}
		writeJSON(w, 200, map[string]any{
			"path":       path,
			"text":       text,
			"char_count": entry.CharCount,
		})
	})

	r.Post("/api/extract/pages", func(w http.ResponseWriter, r *http.Request) {
		path, ok := decodePath(w, r)
		if !ok {
			return
		}
		start := time.Now()
		pages, err := pipe.ExtractPages(r.Context(), path)
		entry := observability.NewEntry("extract_pages", path, err, time.Since(start))
		entry.PageCount = len(pages)
		for _, pg := range pages {
			entry.CharCount += pg.CharCount
		}
		auditStore.RecordAsync(entry)
		if err != nil {
			writeError(w, errStatus(err), err)
			return
		}
		if pages == nil {
			pages = []pdftext.Page{}
		}
		writeJSON(w, 200, map[string]any{
			"path":       path,
			"page_count": len(pages),
			"pages":      pages,
		})
	})

	r.Post("/api/extract/metadata", func(w http.ResponseWriter, r *http.Request) {
		path, ok := decodePath(w, r)
		if !ok {
			return
		}
		start := time.Now()
		meta, err := pipe.ExtractMetadata(r.Context(), path)
		entry := observability.NewEntry("extract_metadata", path, err, time.Since(start))
		if meta != nil {
			entry.PageCount = meta.PageCount
		}
		auditStore.RecordAsync(entry)
		if err != nil {
			writeError(w, errStatus(err), err)
			return
		}
		writeJSON(w, 200, meta)
	})

	r.Get("/api/audit/recent", func(w http.ResponseWriter, r *http.Request) {
		f := observability.Filter{
			Operation: r.URL.Query().Get("operation"),
			Status:    r.URL.Query().Get("status"),
			Limit:     queryInt(r, "limit", 100),
		}
		entries, err := auditStore.Query(r.Context(), f)
		if err != nil {
			writeError(w, 500, err)
			return
		}
		if entries == nil {
			entries = []*observability.Entry{}
		}
		writeJSON(w, 200, entries)
	})

	// HTTP server.
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// decodePath reads the {"path": ...} request body. Writes the error response
// itself and reports ok=false when the body is unusable.
func decodePath(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return "", false
	}
	if req.Path == "" {
		writeError(w, 400, fmt.Errorf("path is required"))
		return "", false
	}
	return req.Path, true
}

// errStatus maps the extraction error taxonomy onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, pdftext.ErrNotFound):
		return 404
	case errors.Is(err, pdftext.ErrInvalidInput):
		return 400
	case errors.Is(err, pdftext.ErrEncrypted):
		return 422
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 499
	default:
		return 500
	}
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
