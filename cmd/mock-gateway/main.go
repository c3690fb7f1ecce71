package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Thidomsilva/testcheckout/internal/logging"
	"github.com/Thidomsilva/testcheckout/internal/webhook"
)

// Stand-in for the Payploc gateway in local development. Serves the two
// payment-creation endpoints with canned responses and, when WEBHOOK_URL is
// set, follows up with a signed transaction.updated delivery so the full
// webhook path can be exercised end to end.
type mockGateway struct {
	apiKey        string
	webhookURL    string
	webhookSecret string
}

func main() {
	logging.Init("mock-gateway", "info", os.Getenv("APP_ENV"))

	gw := &mockGateway{
		apiKey:        os.Getenv("MOCK_API_KEY"),
		webhookURL:    os.Getenv("WEBHOOK_URL"),
		webhookSecret: os.Getenv("PAYPLOC_WEBHOOK_SECRET"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /create-pix-payment", gw.handleCreatePix)
	mux.HandleFunc("POST /create-credit-card-payment", gw.handleCreateCard)

	addr := ":8081"
	slog.Info("mock gateway started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (g *mockGateway) authorized(r *http.Request) bool {
	return g.apiKey == "" || r.Header.Get("x-api-key") == g.apiKey
}

func (g *mockGateway) handleCreatePix(w http.ResponseWriter, r *http.Request) {
	if !g.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid api key"})
		return
	}

	txID := uuid.NewString()
	code := fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s5204000053039865802BR", txID)

	slog.Info("pix payment created", "transaction_id", txID)
	go g.deliverWebhook(txID, "paid")

	writeJSON(w, http.StatusOK, map[string]string{"pix_copy_paste": code})
}

func (g *mockGateway) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	if !g.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid api key"})
		return
	}

	txID := uuid.NewString()
	slog.Info("card payment created", "transaction_id", txID)
	go g.deliverWebhook(txID, "paid")

	writeJSON(w, http.StatusOK, map[string]string{
		"status":         "authorized",
		"transaction_id": txID,
	})
}

func (g *mockGateway) deliverWebhook(txID, status string) {
	if g.webhookURL == "" {
		return
	}
	time.Sleep(2 * time.Second)

	body, _ := json.Marshal(map[string]any{
		"eventType": "transaction.updated",
		"data": map[string]string{
			"transactionId": txID,
			"status":        status,
		},
	})

	req, err := http.NewRequest(http.MethodPost, g.webhookURL, bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to build webhook request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-payploc-signature", webhook.Sign(body, g.webhookSecret))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Error("webhook delivery failed", "transaction_id", txID, "error", err)
		return
	}
	defer resp.Body.Close()

	slog.Info("webhook delivered", "transaction_id", txID, "status", status, "response", resp.StatusCode)
}
