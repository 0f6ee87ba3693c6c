package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

var (
	ErrNotConfigured = errors.New("payment gateway not configured")

	// ErrProvider wraps upstream gateway failures so handlers can report
	// them as a bad-gateway condition rather than an internal error.
	ErrProvider = errors.New("payment provider error")
)

type Order struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// OrderProvider creates payment orders with an external gateway. Amounts are
// in minor currency units (paise).
type OrderProvider interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*Order, error)
}

type RazorpayProvider struct {
	client *razorpay.Client
	keyID  string
}

func NewRazorpayProvider(keyID, keySecret string) (*RazorpayProvider, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrNotConfigured
	}

	return &RazorpayProvider{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
	}, nil
}

func (p *RazorpayProvider) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
	}

	order, err := p.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	orderID, _ := order["id"].(string)
	currency, _ := order["currency"].(string)

	amount := amountPaise
	if raw, ok := order["amount"].(float64); ok {
		amount = int64(raw)
	}

	return &Order{
		OrderID:  orderID,
		Amount:   amount,
		Currency: currency,
		Key:      p.keyID,
	}, nil
}
