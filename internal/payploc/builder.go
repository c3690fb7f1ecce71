package payploc

import (
	"net/mail"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Thidomsilva/testcheckout/internal/domain"
)

// Fallback billing address used when the form collected only a postal code.
// The substitution is flagged on the built request so it stays auditable.
const (
	defaultStreet       = "Avenida Paulista"
	defaultNumber       = "1578"
	defaultNeighborhood = "Bela Vista"
	defaultCity         = "São Paulo"
	defaultState        = "SP"
)

type CustomerInput struct {
	Name    string `json:"name"`
	CPFCNPJ string `json:"cpf_cnpj"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`

	// Billing address, collected for card payments only.
	PostalCode   string `json:"postal_code,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

type CardInput struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CCV         string `json:"ccv"`
}

type PixPaymentInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Customer    CustomerInput   `json:"customer"`
}

type CardPaymentInput struct {
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Installments int             `json:"installments"`
	Customer     CustomerInput   `json:"customer"`
	Card         CardInput       `json:"card"`
}

// Builder validates raw checkout input and normalizes it into the exact shape
// the gateway expects. It reports every violated field, not just the first,
// and never talks to the network.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

var nonDigits = regexp.MustCompile(`\D`)

func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

func (b *Builder) BuildPix(in PixPaymentInput) (*domain.PaymentRequest, error) {
	var errs domain.ValidationErrors

	errs = append(errs, validateAmount(in.Amount)...)
	errs = append(errs, validateCustomer(in.Customer)...)

	if len(errs) > 0 {
		return nil, errs
	}

	return &domain.PaymentRequest{
		Method: domain.MethodPix,
		Pix: &domain.PixPayment{
			Amount:      in.Amount,
			Description: in.Description,
			Customer:    normalizeCustomer(in.Customer),
		},
	}, nil
}

func (b *Builder) BuildCard(in CardPaymentInput) (*domain.PaymentRequest, error) {
	var errs domain.ValidationErrors

	errs = append(errs, validateAmount(in.Amount)...)
	errs = append(errs, validateCustomer(in.Customer)...)
	errs = append(errs, b.validateCard(in.Card)...)

	installments := in.Installments
	if installments == 0 {
		installments = 1
	}
	if installments < 1 || installments > 12 {
		errs = append(errs, domain.FieldError{Field: "installments", Message: "must be between 1 and 12"})
	}

	cep := digitsOnly(in.Customer.PostalCode)
	if len(cep) != 8 {
		errs = append(errs, domain.FieldError{Field: "customer.postal_code", Message: "must contain exactly 8 digits"})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	address, defaulted := normalizeAddress(in.Customer, cep)

	return &domain.PaymentRequest{
		Method: domain.MethodCard,
		Card: &domain.CardPayment{
			Amount:       in.Amount,
			Description:  in.Description,
			Installments: installments,
			Customer:     normalizeCustomer(in.Customer),
			Card:         normalizeCard(in.Card),
			Address:      address,
		},
		AddressDefaulted: defaulted,
	}, nil
}

func validateAmount(amount decimal.Decimal) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if amount.Sign() <= 0 {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if amount.Exponent() < -2 {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must not have more than two decimal places"})
	}
	return errs
}

func validateCustomer(c CustomerInput) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if c.Name == "" {
		errs = append(errs, domain.FieldError{Field: "customer.name", Message: "required"})
	}

	if len(digitsOnly(c.CPFCNPJ)) != 11 {
		errs = append(errs, domain.FieldError{Field: "customer.cpf_cnpj", Message: "must contain exactly 11 digits"})
	}

	if c.Email == "" {
		errs = append(errs, domain.FieldError{Field: "customer.email", Message: "required"})
	} else if _, err := mail.ParseAddress(c.Email); err != nil {
		errs = append(errs, domain.FieldError{Field: "customer.email", Message: "must be a valid email address"})
	}

	if len(digitsOnly(c.Phone)) < 10 {
		errs = append(errs, domain.FieldError{Field: "customer.phone", Message: "must contain at least 10 digits"})
	}

	return errs
}

func (b *Builder) validateCard(c CardInput) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if c.HolderName == "" {
		errs = append(errs, domain.FieldError{Field: "card.holderName", Message: "required"})
	}

	if len(digitsOnly(c.Number)) != 16 {
		errs = append(errs, domain.FieldError{Field: "card.number", Message: "must contain exactly 16 digits"})
	}

	cvc := digitsOnly(c.CCV)
	if len(cvc) < 3 || len(cvc) > 4 || cvc != c.CCV {
		errs = append(errs, domain.FieldError{Field: "card.ccv", Message: "must contain 3 or 4 digits"})
	}

	month, year, expErrs := parseExpiry(c.ExpiryMonth, c.ExpiryYear)
	errs = append(errs, expErrs...)
	if len(expErrs) == 0 && cardExpired(month, year, b.now()) {
		errs = append(errs, domain.FieldError{Field: "card.expiryMonth", Message: "card is expired"})
	}

	return errs
}

func parseExpiry(expMonth, expYear string) (month, year int, errs domain.ValidationErrors) {
	month, err := strconv.Atoi(expMonth)
	if err != nil || month < 1 || month > 12 {
		errs = append(errs, domain.FieldError{Field: "card.expiryMonth", Message: "must be a month between 01 and 12"})
	}

	yd := digitsOnly(expYear)
	if len(yd) < 2 {
		errs = append(errs, domain.FieldError{Field: "card.expiryYear", Message: "must be a valid year"})
		return month, 0, errs
	}

	// Cards carry a two-digit year; the composed year is 2000-based.
	twoDigit, err := strconv.Atoi(yd[len(yd)-2:])
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "card.expiryYear", Message: "must be a valid year"})
		return month, 0, errs
	}
	return month, 2000 + twoDigit, errs
}

// cardExpired compares expiry at month granularity: a card expiring in the
// current month is still valid.
func cardExpired(month, year int, now time.Time) bool {
	if year != now.Year() {
		return year < now.Year()
	}
	return month < int(now.Month())
}

func normalizeCustomer(c CustomerInput) domain.Customer {
	return domain.Customer{
		Name:    c.Name,
		CPFCNPJ: digitsOnly(c.CPFCNPJ),
		Email:   c.Email,
		Phone:   digitsOnly(c.Phone),
	}
}

func normalizeCard(c CardInput) domain.Card {
	month := digitsOnly(c.ExpiryMonth)
	if len(month) == 1 {
		month = "0" + month
	}
	yd := digitsOnly(c.ExpiryYear)
	year := "20" + yd[len(yd)-2:]

	return domain.Card{
		HolderName:  c.HolderName,
		Number:      digitsOnly(c.Number),
		ExpiryMonth: month,
		ExpiryYear:  year,
		CVC:         digitsOnly(c.CCV),
	}
}

// normalizeAddress formats the postal code as NNNNN-NNN and fills any missing
// field with the fallback address. The second return reports whether at least
// one field was defaulted.
func normalizeAddress(c CustomerInput, cep string) (domain.Address, bool) {
	addr := domain.Address{
		PostalCode:   cep[:5] + "-" + cep[5:],
		Street:       c.Street,
		Number:       c.Number,
		Neighborhood: c.Neighborhood,
		City:         c.City,
		State:        c.State,
	}

	defaulted := false
	fill := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
			defaulted = true
		}
	}
	fill(&addr.Street, defaultStreet)
	fill(&addr.Number, defaultNumber)
	fill(&addr.Neighborhood, defaultNeighborhood)
	fill(&addr.City, defaultCity)
	fill(&addr.State, defaultState)

	return addr, defaulted
}
