package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type EventType string

const (
	EventEmailVerification EventType = "email_verification"
	EventPasswordReset     EventType = "password_reset"
	EventBookingCreated    EventType = "booking_created"
	EventBookingConfirmed  EventType = "booking_confirmed"
	EventBookingCancelled  EventType = "booking_cancelled"
	EventBookingExpired    EventType = "booking_expired"
	EventPaymentCompleted  EventType = "payment_completed"
	EventPaymentFailed     EventType = "payment_failed"
)

// Event is the single payload shape written to every topic.
type Event struct {
	Type        EventType `json:"type"`
	UserID      string    `json:"user_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	BookingID   string    `json:"booking_id,omitempty"`
	ScheduleID  string    `json:"schedule_id,omitempty"`
	PaymentID   string    `json:"payment_id,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	Status      string    `json:"status,omitempty"`
	AmountPaise int64     `json:"amount_paise,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Link        string    `json:"link,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Key picks the partition key: booking, then payment, then user.
func (e Event) Key() string {
	switch {
	case e.BookingID != "":
		return e.BookingID
	case e.PaymentID != "":
		return e.PaymentID
	default:
		return e.UserID
	}
}

func DecodeEvent(msg kafka.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode event at offset %d: %w", msg.Offset, err)
	}
	return event, nil
}
