package payploc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Thidomsilva/testcheckout/internal/domain"
	"github.com/Thidomsilva/testcheckout/internal/logging"
)

const (
	pixPaymentPath  = "/create-pix-payment"
	cardPaymentPath = "/create-credit-card-payment"

	// Renders a scannable image for a PIX copy-paste code when the gateway
	// does not return an image URI itself.
	qrImageURL = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="
)

// Client performs the outbound calls to the Payploc gateway. Credentials are
// injected at construction; business code never reads the environment.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type wireCustomer struct {
	Name    string `json:"name"`
	CPFCNPJ string `json:"cpf_cnpj"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`

	// Address fields ride flat on the customer object; the gateway does not
	// accept a nested address.
	PostalCode   string `json:"postal_code,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

type wireCard struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CCV         string `json:"ccv"`
}

type pixWireRequest struct {
	Amount      json.Number  `json:"amount"`
	Description string       `json:"description"`
	Customer    wireCustomer `json:"customer"`
}

type cardWireRequest struct {
	Amount       json.Number  `json:"amount"`
	Description  string       `json:"description"`
	Installments int          `json:"installments"`
	Customer     wireCustomer `json:"customer"`
	Card         wireCard     `json:"card"`
}

// Success-path response shapes have been observed with both snake_case and
// camelCase keys across gateway versions; both spellings are accepted.
type pixWireResponse struct {
	PixCopyPaste    string `json:"pix_copy_paste"`
	PixCopyPasteAlt string `json:"pixCopyPaste"`
	QRCodeImage     string `json:"qr_code_image"`
	QRCodeImageAlt  string `json:"qrCodeImage"`
}

type cardWireResponse struct {
	Status           string `json:"status"`
	TransactionID    string `json:"transaction_id"`
	TransactionIDAlt string `json:"transactionId"`
}

// Send dispatches a built payment request to the matching gateway endpoint.
func (c *Client) Send(ctx context.Context, req *domain.PaymentRequest) (*domain.GatewayResult, error) {
	switch req.Method {
	case domain.MethodPix:
		pix, err := c.CreatePixPayment(ctx, req.Pix)
		if err != nil {
			return nil, err
		}
		return &domain.GatewayResult{Method: domain.MethodPix, Pix: pix}, nil
	case domain.MethodCard:
		card, err := c.CreateCardPayment(ctx, req.Card)
		if err != nil {
			return nil, err
		}
		return &domain.GatewayResult{Method: domain.MethodCard, Card: card}, nil
	default:
		return nil, fmt.Errorf("Send: unknown payment method %q", req.Method)
	}
}

func (c *Client) CreatePixPayment(ctx context.Context, p *domain.PixPayment) (*domain.PixResult, error) {
	payload := pixWireRequest{
		Amount:      amountNumber(p.Amount),
		Description: p.Description,
		Customer: wireCustomer{
			Name:    p.Customer.Name,
			CPFCNPJ: p.Customer.CPFCNPJ,
			Email:   p.Customer.Email,
			Phone:   p.Customer.Phone,
		},
	}

	body, err := c.post(ctx, pixPaymentPath, payload)
	if err != nil {
		return nil, fmt.Errorf("CreatePixPayment: %w", err)
	}

	var resp pixWireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("CreatePixPayment: decode response: %w", domain.ErrUnexpectedResponse)
	}

	code := firstNonEmpty(resp.PixCopyPaste, resp.PixCopyPasteAlt)
	if code == "" {
		return nil, fmt.Errorf("CreatePixPayment: missing pix copy-paste code: %w", domain.ErrUnexpectedResponse)
	}

	image := firstNonEmpty(resp.QRCodeImage, resp.QRCodeImageAlt)
	if image == "" {
		image = qrImageURL + url.QueryEscape(code)
	}

	return &domain.PixResult{QRCodeImage: image, CopyPasteCode: code}, nil
}

func (c *Client) CreateCardPayment(ctx context.Context, p *domain.CardPayment) (*domain.CardResult, error) {
	payload := cardWireRequest{
		Amount:       amountNumber(p.Amount),
		Description:  p.Description,
		Installments: p.Installments,
		Customer: wireCustomer{
			Name:         p.Customer.Name,
			CPFCNPJ:      p.Customer.CPFCNPJ,
			Email:        p.Customer.Email,
			Phone:        p.Customer.Phone,
			PostalCode:   p.Address.PostalCode,
			Street:       p.Address.Street,
			Number:       p.Address.Number,
			Neighborhood: p.Address.Neighborhood,
			City:         p.Address.City,
			State:        p.Address.State,
		},
		Card: wireCard{
			HolderName:  p.Card.HolderName,
			Number:      p.Card.Number,
			ExpiryMonth: p.Card.ExpiryMonth,
			ExpiryYear:  p.Card.ExpiryYear,
			CCV:         p.Card.CVC,
		},
	}

	body, err := c.post(ctx, cardPaymentPath, payload)
	if err != nil {
		return nil, fmt.Errorf("CreateCardPayment: %w", err)
	}

	var resp cardWireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("CreateCardPayment: decode response: %w", domain.ErrUnexpectedResponse)
	}

	txID := firstNonEmpty(resp.TransactionID, resp.TransactionIDAlt)
	if resp.Status == "" || txID == "" {
		return nil, fmt.Errorf("CreateCardPayment: missing status or transaction id: %w", domain.ErrUnexpectedResponse)
	}

	return &domain.CardResult{Status: resp.Status, TransactionID: txID}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gateway api key not configured: %w", domain.ErrConfigurationMissing)
	}

	log := logging.FromContext(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("post %s: marshal: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("post %s: build request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w: %w", path, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("post %s: read response: %w: %w", path, domain.ErrTransport, err)
	}

	log.Info("gateway response received",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    extractUpstreamMessage(respBody),
		}
	}

	return respBody, nil
}

// extractUpstreamMessage pulls the human-readable message from a non-2xx
// gateway body: JSON `message` or `error` field, else the raw text.
func extractUpstreamMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if m := firstNonEmpty(parsed.Message, parsed.Error); m != "" {
			return m
		}
	}
	return strings.TrimSpace(string(body))
}

func amountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
