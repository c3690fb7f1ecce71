package domain

import (
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodPix  PaymentMethod = "pix"
	MethodCard PaymentMethod = "card"
)

// Transaction statuses reported by the gateway. The webhook path must also
// accept statuses outside this list and carry them through verbatim.
const (
	StatusPaid       = "paid"
	StatusAuthorized = "authorized"
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusDeclined   = "declined"
	StatusFailed     = "failed"
)

// IsTerminalStatus reports whether no further transition is accepted after s.
func IsTerminalStatus(s string) bool {
	switch s {
	case StatusPaid, StatusAuthorized, StatusDeclined, StatusFailed:
		return true
	}
	return false
}

type Customer struct {
	Name    string
	CPFCNPJ string
	Email   string
	Phone   string
}

type Card struct {
	HolderName  string
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVC         string
}

type Address struct {
	PostalCode   string
	Street       string
	Number       string
	Neighborhood string
	City         string
	State        string
}

type PixPayment struct {
	Amount      decimal.Decimal
	Description string
	Customer    Customer
}

type CardPayment struct {
	Amount       decimal.Decimal
	Description  string
	Installments int
	Customer     Customer
	Card         Card
	Address      Address
}

// PaymentRequest is a fully validated, gateway-ready payment. Exactly one of
// Pix or Card is set, matching Method. Instances are produced by the request
// builder only; handlers must never construct one from raw input.
type PaymentRequest struct {
	Method PaymentMethod
	Pix    *PixPayment
	Card   *CardPayment

	// AddressDefaulted is set when missing billing-address fields were filled
	// with the fallback address, so the substitution stays auditable.
	AddressDefaulted bool
}

type PixResult struct {
	QRCodeImage   string `json:"qrCodeImage"`
	CopyPasteCode string `json:"copyPasteCode"`
}

type CardResult struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

// GatewayResult carries the outcome of one gateway call. Exactly one of Pix
// or Card is set, matching the method of the request that produced it.
type GatewayResult struct {
	Method PaymentMethod `json:"method"`
	Pix    *PixResult    `json:"pix,omitempty"`
	Card   *CardResult   `json:"card,omitempty"`
}
