// Package email renders notification emails from events. Delivery is
// logged; no mail vendor is wired in.
package email

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/pricing"
)

var (
	ErrUnsupportedEvent = errors.New("no email for event type")
	ErrNoRecipient      = errors.New("event has no recipient")
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Directory resolves the recipient when an event carries only a user id.
type Directory interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type Sender struct {
	directory Directory
	deliver   func(Message) error
}

func NewSender(directory Directory) *Sender {
	return &Sender{directory: directory, deliver: logDelivery}
}

func (s *Sender) Send(ctx context.Context, event kafka.Event) error {
	if event.Email == "" && event.UserID != "" && s.directory != nil {
		user, err := s.directory.GetByID(ctx, event.UserID)
		if err != nil {
			return fmt.Errorf("resolve recipient %s: %w", event.UserID, err)
		}
		event.Email = user.Email
		if event.Name == "" {
			event.Name = user.Name
		}
	}

	msg, err := Render(event)
	if err != nil {
		return err
	}
	return s.deliver(msg)
}

func Render(event kafka.Event) (Message, error) {
	if event.Email == "" {
		return Message{}, ErrNoRecipient
	}

	greeting := "Hello,"
	if name := strings.TrimSpace(event.Name); name != "" {
		greeting = fmt.Sprintf("Hello %s,", name)
	}

	msg := Message{To: event.Email}
	switch event.Type {
	case kafka.EventEmailVerification:
		msg.Subject = "Verify your TravelEase email"
		msg.Body = fmt.Sprintf("%s\n\nConfirm your email address by opening this link:\n%s\n", greeting, event.Link)
	case kafka.EventPasswordReset:
		msg.Subject = "Reset your TravelEase password"
		msg.Body = fmt.Sprintf("%s\n\nYou can choose a new password here:\n%s\n\nIf you did not ask for this, ignore this email.\n", greeting, event.Link)
	case kafka.EventBookingCreated:
		msg.Subject = "Your TravelEase booking is awaiting payment"
		msg.Body = fmt.Sprintf("%s\n\nBooking %s is reserved. Amount due: ₹%.2f. Complete the payment before the hold expires.\n",
			greeting, event.BookingID, pricing.Rupees(event.AmountPaise))
	case kafka.EventBookingConfirmed:
		msg.Subject = "Your TravelEase booking is confirmed"
		msg.Body = fmt.Sprintf("%s\n\nBooking %s is confirmed. Your digital ticket is available under My Bookings.\n", greeting, event.BookingID)
	case kafka.EventBookingCancelled:
		msg.Subject = "Your TravelEase booking was cancelled"
		msg.Body = fmt.Sprintf("%s\n\nBooking %s has been cancelled.\n", greeting, event.BookingID)
	case kafka.EventBookingExpired:
		msg.Subject = "Your TravelEase booking hold expired"
		msg.Body = fmt.Sprintf("%s\n\nBooking %s was not paid in time and has been released.\n", greeting, event.BookingID)
	case kafka.EventPaymentCompleted:
		msg.Subject = "Payment received"
		msg.Body = fmt.Sprintf("%s\n\nWe received ₹%.2f (%s) for booking %s via %s.\n",
			greeting, pricing.Rupees(event.AmountPaise), event.Currency, event.BookingID, event.Provider)
	default:
		return Message{}, fmt.Errorf("%w: %s", ErrUnsupportedEvent, event.Type)
	}
	return msg, nil
}

func logDelivery(msg Message) error {
	log.Printf("send email to %s: %s", msg.To, msg.Subject)
	return nil
}
