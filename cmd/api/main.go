package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Thidomsilva/testcheckout/internal/config"
	"github.com/Thidomsilva/testcheckout/internal/handler"
	"github.com/Thidomsilva/testcheckout/internal/logging"
	"github.com/Thidomsilva/testcheckout/internal/middleware"
	"github.com/Thidomsilva/testcheckout/internal/payploc"
	"github.com/Thidomsilva/testcheckout/internal/webhook"
)

func main() {
	// Local development convenience; absent .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("checkout-api", cfg.LogLevel, cfg.AppEnv)

	builder := payploc.NewBuilder()
	gateway := payploc.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey)
	verifier := webhook.NewVerifier(cfg.WebhookSecret)
	reconciler := webhook.NewReconciler(webhook.NewMemoryStatusStore())

	paymentHandler := handler.NewPaymentHandler(builder, gateway)
	webhookHandler := handler.NewWebhookHandler(verifier, reconciler)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("POST /api/v1/payments/pix", paymentHandler.CreatePixPayment)
	mux.HandleFunc("POST /api/v1/payments/card", paymentHandler.CreateCardPayment)
	mux.HandleFunc("POST /api/webhooks/payploc", webhookHandler.ReceiveGatewayWebhook)
	mux.HandleFunc("GET /api/webhooks/payploc", webhookHandler.Probe)

	chain := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to write health response", "error", err)
	}
}
