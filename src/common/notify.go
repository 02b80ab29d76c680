package common

import (
	"fmt"
	"log"
	"strings"

	"vbs/src/lib"
)

// Notifier is fire-and-forget: a delivery failure must never fail the
// operation that triggered it.
type Notifier interface {
	Notify(target, message, category, link string)
}

// PusherNotifier delivers booking outcomes over per-user pusher channels.
type PusherNotifier struct{}

func (n *PusherNotifier) Notify(target, message, category, link string) {
	channel := strings.ReplaceAll(target, ":", "_")
	client := lib.GetPusherClient()
	err := client.Trigger(channel, category, map[string]string{
		"message": message,
		"link":    link,
	})
	if err != nil {
		log.Printf("Error delivering notification to %s: %s\n", channel, err.Error())
	}
}

// SendBookingReceipt mails a plain-text receipt to the payer. Errors are
// logged only.
func SendBookingReceipt(email, reference string, amount float64, currency string) {
	if email == "" {
		return
	}
	err := lib.SendMail(&lib.SendMailInput{
		From:     "bookings@vbs.local",
		FromName: "Venue Bookings",
		To:       []string{email},
		Subject:  fmt.Sprintf("Booking %s confirmed", reference),
		Body:     fmt.Sprintf("Your booking %s is confirmed. Amount paid: %.2f %s.", reference, amount, strings.ToUpper(currency)),
	})
	if err != nil {
		log.Printf("Error sending receipt for %s: %s\n", reference, err.Error())
	}
}
