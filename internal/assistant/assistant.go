// Package assistant answers common travel questions by keyword.
package assistant

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyMessage = errors.New("message is empty")

type Intent string

const (
	IntentBooking  Intent = "booking"
	IntentDiscount Intent = "discount"
	IntentCancel   Intent = "cancel"
	IntentMap      Intent = "map"
	IntentPayment  Intent = "payment"
	IntentGreeting Intent = "greeting"
	IntentFallback Intent = "fallback"
)

type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"reply"`
}

type rule struct {
	intent   Intent
	keywords []string
}

// Rules are checked in order; the first keyword hit wins.
var rules = []rule{
	{IntentBooking, []string{"book", "ticket"}},
	{IntentDiscount, []string{"discount", "student"}},
	{IntentCancel, []string{"cancel", "refund"}},
	{IntentMap, []string{"map", "location"}},
	{IntentPayment, []string{"payment", "pay"}},
	{IntentGreeting, []string{"hello", "hi", "hey"}},
}

type Assistant struct {
	discountPercent int
}

func New(discountPercent int) *Assistant {
	return &Assistant{discountPercent: discountPercent}
}

func (a *Assistant) Reply(message string) (Reply, error) {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	intent := IntentFallback
	for _, r := range rules {
		if containsAny(text, r.keywords) {
			intent = r.intent
			break
		}
	}
	return Reply{Intent: intent, Text: a.answer(intent)}, nil
}

func (a *Assistant) answer(intent Intent) string {
	switch intent {
	case IntentBooking:
		return "You can book train tickets from the home page search form. Enter your departure and arrival stations, pick a date and search. " +
			"Choose a train from the results to complete your booking."
	case IntentDiscount:
		return fmt.Sprintf("Yes! Students get a %d%% discount on all train tickets. "+
			"It is applied automatically when you sign in with a student email address ending in .edu or .ac.in.", a.discountPercent)
	case IntentCancel:
		return "You can cancel a booking from 'My Bookings'. Find the booking you want to cancel and press 'Cancel Booking'."
	case IntentMap:
		return "The map shows the train route and the distance from your current location to the nearest railway station. " +
			"Open the 'Map' tab in the navigation menu to plan your journey to the station."
	case IntentPayment:
		return "Payments go through Razorpay (cards, UPI, net banking) or Stripe (cards). " +
			"They are processed securely and your card details never reach our servers."
	case IntentGreeting:
		return "Hello there! How can I assist you with your train booking today?"
	default:
		return "I'm here to help with booking train tickets, the map feature, student discounts and payments. " +
			"Could you tell me a bit more about what you'd like to know?"
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
