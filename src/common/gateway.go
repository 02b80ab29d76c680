package common

import (
	"math"

	"vbs/src/lib"
	"vbs/src/types"

	"github.com/stripe/stripe-go/v82"
)

type PaymentIntentRef struct {
	Reference    string
	ClientSecret string
}

type IntentStatus struct {
	Status        types.GatewayStatus
	ChargedAmount float64
}

// PaymentGateway is the adapter over the external payment provider. It is an
// untrusted, eventually-consistent oracle: intent objects are owned by the
// gateway and only referenced here.
type PaymentGateway interface {
	CreateIntent(amount float64, currency string, metadata map[string]string) (*PaymentIntentRef, error)
	GetIntentStatus(ref string) (*IntentStatus, error)
}

type StripeGateway struct{}

func (g *StripeGateway) CreateIntent(amount float64, currency string, metadata map[string]string) (*PaymentIntentRef, error) {
	// Stripe amounts are minor units.
	pi, err := lib.CreatePaymentIntent(int64(math.Round(amount*100)), currency, metadata)
	if err != nil {
		return nil, err
	}
	return &PaymentIntentRef{Reference: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) GetIntentStatus(ref string) (*IntentStatus, error) {
	pi, err := lib.RetrievePaymentIntent(ref)
	if err != nil {
		return nil, err
	}
	status := types.GATEWAY_PENDING
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		status = types.GATEWAY_SUCCEEDED
	case stripe.PaymentIntentStatusCanceled:
		status = types.GATEWAY_FAILED
	}
	charged := pi.AmountReceived
	if charged == 0 {
		charged = pi.Amount
	}
	return &IntentStatus{Status: status, ChargedAmount: float64(charged) / 100}, nil
}
