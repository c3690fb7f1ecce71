package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Thidomsilva/testcheckout/internal/domain"
	"github.com/Thidomsilva/testcheckout/internal/logging"
	"github.com/Thidomsilva/testcheckout/internal/payploc"
)

type gatewayClient interface {
	Send(ctx context.Context, req *domain.PaymentRequest) (*domain.GatewayResult, error)
}

// PaymentHandler is the typed entry point the checkout UI calls. It owns no
// payment logic: build the request, send it, translate the outcome.
type PaymentHandler struct {
	builder *payploc.Builder
	gateway gatewayClient
}

func NewPaymentHandler(builder *payploc.Builder, gateway gatewayClient) *PaymentHandler {
	return &PaymentHandler{builder: builder, gateway: gateway}
}

type paymentResponse struct {
	Method           domain.PaymentMethod `json:"method"`
	Pix              *domain.PixResult    `json:"pix,omitempty"`
	Card             *domain.CardResult   `json:"card,omitempty"`
	AddressDefaulted bool                 `json:"addressDefaulted,omitempty"`
}

func (h *PaymentHandler) CreatePixPayment(w http.ResponseWriter, r *http.Request) {
	var input payploc.PixPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	req, err := h.builder.BuildPix(input)
	if err != nil {
		h.respondBuildError(w, r, err)
		return
	}
	h.send(w, r, req)
}

func (h *PaymentHandler) CreateCardPayment(w http.ResponseWriter, r *http.Request) {
	var input payploc.CardPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	req, err := h.builder.BuildCard(input)
	if err != nil {
		h.respondBuildError(w, r, err)
		return
	}
	h.send(w, r, req)
}

func (h *PaymentHandler) respondBuildError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		RespondValidationError(w, verrs)
		return
	}
	logging.FromContext(r.Context()).Error("payment build failed", "error", err)
	RespondAppError(w, ErrInternalError, nil)
}

func (h *PaymentHandler) send(w http.ResponseWriter, r *http.Request, req *domain.PaymentRequest) {
	log := logging.FromContext(r.Context())

	result, err := h.gateway.Send(r.Context(), req)
	if err != nil {
		// Callers get a single user-safe message; the full detail is kept
		// operator-side in the logs.
		var upstream *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrConfigurationMissing):
			log.Error("gateway credentials missing", "error", err)
			RespondAppError(w, ErrNotConfigured, nil)
		case errors.As(err, &upstream):
			log.Warn("gateway rejected payment",
				"method", req.Method,
				"upstream_status", upstream.StatusCode,
				"upstream_message", upstream.Message,
			)
			RespondAppError(w, ErrGatewayRejected, nil)
		case errors.Is(err, domain.ErrTransport):
			log.Error("gateway unreachable", "method", req.Method, "error", err)
			RespondAppError(w, ErrGatewayUnavailable, nil)
		default:
			log.Error("unexpected gateway failure", "method", req.Method, "error", err)
			RespondAppError(w, ErrInternalError, nil)
		}
		return
	}

	if req.AddressDefaulted {
		log.Info("billing address defaulted", "method", req.Method)
	}

	RespondSuccess(w, http.StatusOK, paymentResponse{
		Method:           result.Method,
		Pix:              result.Pix,
		Card:             result.Card,
		AddressDefaulted: req.AddressDefaulted,
	})
}
