package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/mcpchat"
	anthropicbackend "github.com/hupe1980/mcpchat/backend/anthropic"
	openaibackend "github.com/hupe1980/mcpchat/backend/openai"
	"github.com/hupe1980/mcpchat/config"
	"github.com/hupe1980/mcpchat/core"
	"github.com/hupe1980/mcpchat/gate"
	"github.com/hupe1980/mcpchat/logging"
	"github.com/hupe1980/mcpchat/mcpclient"
	"github.com/hupe1980/mcpchat/transport"
	"github.com/hupe1980/mcpchat/transport/ws"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the chat gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *cfgFile)
		},
	}
}

func runServe(ctx context.Context, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger := logging.New(&logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mc, err := mcpclient.New(cfg.MCP.ServerURL, func(o *mcpclient.Options) {
		o.CallTimeout = cfg.MCP.CallTimeout
		o.Logger = logger
	})
	if err != nil {
		return fmt.Errorf("create mcp client: %w", err)
	}
	defer mc.Close()

	g := gate.New(mc, func(o *gate.Options) {
		o.ConnectWait = cfg.MCP.ConnectWait
		o.MaxAttempts = cfg.MCP.MaxAttempts
		o.RetryDelay = cfg.MCP.RetryDelay
		o.Logger = logger
	})

	// Readiness probing runs in the background so the gateway accepts
	// connections immediately; messages fall back to the plain LLM path
	// until the gate reports ready.
	go func() {
		if err := mc.Connect(ctx); err != nil {
			logger.Error("mcp connect failed", "error", err.Error())
		}
		if err := g.Initialize(ctx); err != nil {
			logger.Error("tool gate initialization failed", "error", err.Error())
		}
	}()

	be, err := buildBackend(cfg, mc)
	if err != nil {
		return err
	}

	broker := transport.NewBroker()
	chat := mcpchat.New(g, be, func(o *mcpchat.Options) {
		o.MaxHistory = cfg.Chat.MaxHistory
		o.MaxContextTurns = cfg.Chat.MaxContextTurns
		o.MaxPromptLen = cfg.Chat.MaxPromptLen
		o.MaxConcurrent = cfg.Backend.MaxConcurrent
		o.BackendTimeout = cfg.Backend.Timeout
		o.Publisher = broker
		o.Logger = logger
	})

	wsServer := ws.NewServer(chat, func(o *ws.Options) {
		o.Logger = logger
	})

	// Fan outbound messages from the broker to connected websocket clients.
	outbound, unsubscribe := broker.Subscribe(transport.TopicPublic, 64)
	defer unsubscribe()
	go func() {
		for msg := range outbound {
			_ = wsServer.Publish(transport.TopicPublic, msg)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/ws", wsServer)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"gate":    g.State().String(),
			"clients": wsServer.Count(),
		})
	})
	mux.HandleFunc("/tools/reinitialize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := g.ForceReinitialize(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "addr", cfg.Server.Addr, "provider", cfg.Backend.Provider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err.Error())
	}
	chat.Wait()
	return nil
}

func buildBackend(cfg *config.Config, mc *mcpclient.Client) (core.Backend, error) {
	switch strings.ToLower(cfg.Backend.Provider) {
	case "anthropic":
		return anthropicbackend.New(mc, func(o *anthropicbackend.Options) {
			if cfg.Backend.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Backend.Model)
			}
			o.Temperature = cfg.Backend.Temperature
		}), nil
	case "openai":
		return openaibackend.New(mc, func(o *openaibackend.Options) {
			if cfg.Backend.Model != "" {
				o.Model = cfg.Backend.Model
			}
			o.Temperature = cfg.Backend.Temperature
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q", cfg.Backend.Provider)
	}
}
