package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Thidomsilva/testcheckout/internal/domain"
	"github.com/Thidomsilva/testcheckout/internal/logging"
	"github.com/Thidomsilva/testcheckout/internal/webhook"
)

const signatureHeader = "x-payploc-signature"

// WebhookHandler receives Payploc's asynchronous transaction notifications,
// verifies their signature and hands the normalized event to the reconciler.
type WebhookHandler struct {
	verifier   *webhook.Verifier
	reconciler *webhook.Reconciler
}

func NewWebhookHandler(verifier *webhook.Verifier, reconciler *webhook.Reconciler) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, reconciler: reconciler}
}

// The gateway expects this exact acknowledgment shape, outside the usual API
// envelope.
func respondReceived(w http.ResponseWriter) {
	RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// Probe answers GET requests on the webhook route so the endpoint can be
// liveness-checked without a signed body.
func (h *WebhookHandler) Probe(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) ReceiveGatewayWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		log.Error("failed to read webhook body", "error", err)
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	// An unconfigured secret is an internal problem. Acknowledge with 200 so
	// the external caller cannot probe our configuration state, and never
	// proceed to business logic.
	if !h.verifier.Configured() {
		log.Error("webhook secret not configured, event dropped")
		respondReceived(w)
		return
	}

	if err := h.verifier.Verify(body, r.Header.Get(signatureHeader)); err != nil {
		switch {
		case errors.Is(err, domain.ErrSignatureMissing):
			log.Warn("webhook received without signature")
			RespondAppError(w, ErrSignatureMissing, nil)
		default:
			log.Warn("webhook signature verification failed")
			RespondAppError(w, ErrSignatureInvalid, nil)
		}
		return
	}

	event, err := webhook.Normalize(body)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedBody):
			log.Warn("webhook body is not valid JSON")
			RespondAppError(w, ErrInvalidRequest, nil)
		default:
			// Parsed but no transaction id: acknowledge to avoid upstream
			// retry storms, keep the anomaly visible in the logs.
			log.Warn("webhook event missing transaction id", "body", string(body))
			respondReceived(w)
		}
		return
	}

	if event.Status == "" {
		log.Warn("webhook event missing status",
			"transaction_id", event.TransactionID,
			"event_type", event.EventType,
		)
		respondReceived(w)
		return
	}

	outcome, err := h.reconciler.Apply(r.Context(), event.TransactionID, event.Status)
	if err != nil {
		log.Error("failed to reconcile webhook event",
			"transaction_id", event.TransactionID,
			"error", err,
		)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	switch outcome.Result {
	case webhook.ResultApplied:
		log.Info("transaction status updated",
			"transaction_id", outcome.TransactionID,
			"status", outcome.Status,
			"event_type", event.EventType,
		)
		if outcome.Confirmed {
			log.Info("payment confirmed", "transaction_id", outcome.TransactionID, "status", outcome.Status)
		}
	case webhook.ResultIgnoredDuplicate:
		log.Info("duplicate webhook ignored",
			"transaction_id", outcome.TransactionID,
			"status", outcome.Status,
		)
	case webhook.ResultIgnoredRegression:
		log.Warn("status regression ignored",
			"transaction_id", outcome.TransactionID,
			"status", outcome.Status,
			"prior_status", outcome.PriorStatus,
		)
	}

	respondReceived(w)
}
