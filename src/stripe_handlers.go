package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"vbs/src/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "payment_intent.succeeded":
			pi, pendingId, payerId, err := pendingFromIntentEvent(event.Data.Raw)
			if err != nil {
				log.Printf("[Stripe] %s\n", err.Error())
				break
			}
			// Confirm is idempotent; a customer-driven confirmation racing
			// this webhook settles on the same booking.
			bookingId, err := common.GetCoordinator().Confirm(payerId, pendingId)
			if err != nil {
				log.Printf("Error confirming pending reservation %s from intent %s: %s\n", pendingId, pi.ID, err.Error())
				// Only terminal outcomes are acked; anything retryable gets
				// a non-2xx so the gateway redelivers the event.
				if transientConfirmFailure(err) {
					ctx.Status(http.StatusServiceUnavailable)
					return
				}
				break
			}
			log.Printf("Pending reservation %s settled into booking %d\n", pendingId, bookingId)
		case "payment_intent.payment_failed":
			pi, pendingId, _, err := pendingFromIntentEvent(event.Data.Raw)
			if err != nil {
				log.Printf("[Stripe] %s\n", err.Error())
				break
			}
			err = common.GetCoordinator().Store.MarkPendingFailed(pendingId, "gateway reported a failed payment")
			if err != nil {
				log.Printf("Error failing pending reservation %s from intent %s: %s\n", pendingId, pi.ID, err.Error())
				if !errors.Is(err, common.ErrInvalidState) && !errors.Is(err, common.ErrNotFound) {
					ctx.Status(http.StatusServiceUnavailable)
					return
				}
			}
		default:
			log.Printf("Unhandled event type: %s\n", event.Type)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

// transientConfirmFailure reports whether a webhook-driven confirmation
// failed for a reason redelivery can cure. Terminal outcomes (amount
// mismatch, paid-but-unbookable, state guards) must be acked instead.
func transientConfirmFailure(err error) bool {
	return errors.Is(err, common.ErrContended) || errors.Is(err, common.ErrGateway)
}

func pendingFromIntentEvent(raw json.RawMessage) (*stripe.PaymentIntent, uuid.UUID, uint, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(raw, &pi); err != nil {
		return nil, uuid.Nil, 0, err
	}
	pendingId, err := uuid.Parse(pi.Metadata["pending_reservation_id"])
	if err != nil {
		return nil, uuid.Nil, 0, err
	}
	atoi, err := strconv.Atoi(pi.Metadata["payer_id"])
	if err != nil {
		return nil, uuid.Nil, 0, err
	}
	return &pi, pendingId, uint(atoi), nil
}
