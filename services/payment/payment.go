package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// PaymentService creates payment intents with the payment processor.
// Payment processing itself is delegated to Stripe; this service only
// consumes the API.
type PaymentService interface {
	// CreateIntent creates a payment intent for the given amount (in the
	// currency's smallest unit) and returns its ID and client secret.
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (id, clientSecret string, err error)
}

// StripePaymentService is the production implementation backed by the
// Stripe API. stripe.Key is set once at startup from configuration.
type StripePaymentService struct{}

// NewStripePaymentService returns a Stripe-backed PaymentService.
func NewStripePaymentService() PaymentService {
	return &StripePaymentService{}
}

func (s *StripePaymentService) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}
