package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreatePaymentIntent opens an intent for the given amount in minor units.
// Metadata carries enough context to tie the gateway object back to the
// pending reservation it pays for.
func CreatePaymentIntent(amount int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	params := stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Metadata: metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	pi, err := sc.V1PaymentIntents.Create(context.Background(), &params)
	return pi, err
}

func RetrievePaymentIntent(ref string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	pi, err := sc.V1PaymentIntents.Retrieve(context.Background(), ref, nil)
	return pi, err
}
