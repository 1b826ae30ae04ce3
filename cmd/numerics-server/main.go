// cmd/numerics-server/main.go: HTTP server for the numerics engine.
//
// Usage:
//
//	go run ./cmd/numerics-server -config numerics.yaml -port 5000
//
// Tool call endpoint: POST /tool        {"tool": "...", "params": {...}}
// Per-tool endpoint:  POST /api/{tool}  {...params...}
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	numerics "github.com/njchilds90/gonumerics"
	"github.com/njchilds90/gonumerics/numerr"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "Port to listen on, overrides the config file")
	flag.Parse()

	cfg := numerics.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = numerics.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *port != 0 {
		cfg.Port = *port
	}
	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	engine := numerics.NewEngine(cfg, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("numerics server listening", "addr", addr, "tools", len(numerics.Tools()))

	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(engine, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newMux(engine *numerics.Engine, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// POST /tool: the tool name travels in the body
	mux.HandleFunc("/tool", recovered(logger, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req numerics.ToolRequest
		if err := decode(w, r, &req, true); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, numerics.ToolResponse{Error: err.Error(), Kind: string(numerr.KindInvalidInput)})
			return
		}
		respond(w, logger, req, engine.HandleToolCall(r.Context(), req))
	}))

	// POST /api/{tool}: the body is the params object
	mux.HandleFunc("/api/", recovered(logger, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		req := numerics.ToolRequest{Tool: strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/")}
		if err := decode(w, r, &req.Params, false); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, numerics.ToolResponse{Error: err.Error(), Kind: string(numerr.KindInvalidInput)})
			return
		}
		respond(w, logger, req, engine.HandleToolCall(r.Context(), req))
	}))

	// GET /schema: tool schema for client registration
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, numerics.MethodSpec())
	})

	// GET /health: liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return mux
}

func recovered(logger *slog.Logger, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in handler", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		h(w, r)
	}
}

// decode reads one JSON value from a size-limited body and rejects
// anything after it.
func decode(w http.ResponseWriter, r *http.Request, v any, strict bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("invalid JSON: empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: trailing data")
	}
	return nil
}

func respond(w http.ResponseWriter, logger *slog.Logger, req numerics.ToolRequest, resp numerics.ToolResponse) {
	status := http.StatusOK
	switch {
	case numerics.IsUnknownTool(resp):
		status = http.StatusNotFound
	case resp.Error != "":
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		logger.Warn("tool call failed", "tool", req.Tool, "status", status, "kind", resp.Kind, "err", resp.Error)
	}
	writeJSON(w, logger, status, resp)
}

// writeJSON encodes v before touching the response so an encoding
// failure can still become a 500.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("encode response", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Debug("write response", "err", err)
	}
}
