package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/pricing"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrTrainNotFound     = errors.New("train not found")
	ErrNotEnoughSeats    = errors.New("not enough seats available")
	ErrDuplicateBooking  = errors.New("a booking for this train is already in progress")
	ErrBookingNotPending = errors.New("booking is not pending")
	ErrTicketUnavailable = errors.New("ticket is available for confirmed bookings only")
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, session domain.Session, input CreateBookingInput) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]BookingDetails, error)
	GetBooking(ctx context.Context, userID, id string) (*BookingDetails, error)
	CancelBooking(ctx context.Context, userID, id string) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
	Ticket(ctx context.Context, session domain.Session, id string) (*Ticket, error)
}

type Locker interface {
	AcquireBookingLock(ctx context.Context, userID, scheduleID string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, userID, scheduleID string) error
}

type TrainCatalog interface {
	GetByID(ctx context.Context, scheduleID string) (*domain.TrainResult, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	ScheduleID string `json:"schedule_id" binding:"required"`
	Passengers int    `json:"passengers" binding:"required,min=1,max=6"`
}

// BookingDetails is a booking joined with its train for listings.
type BookingDetails struct {
	Booking       domain.Booking
	Train         *domain.TrainResult
	DisplayStatus string
}

type Ticket struct {
	ID              string    `json:"id"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Date            string    `json:"date"`
	DepartureTime   string    `json:"departure_time"`
	ArrivalTime     string    `json:"arrival_time"`
	TrainNumber     string    `json:"train_number"`
	TrainName       string    `json:"train_name"`
	Class           string    `json:"class"`
	PassengerName   string    `json:"passenger_name"`
	Passengers      int       `json:"passengers"`
	IsStudent       bool      `json:"is_student"`
	AmountPaidPaise int64     `json:"amount_paid_paise"`
	IssuedAt        time.Time `json:"issued_at"`
	QRPayload       string    `json:"qr_payload,omitempty"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	trains             TrainCatalog
	cache              Locker
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	discountPercent    int
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLocker(locker Locker) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = locker
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	trains TrainCatalog,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	discountPercent int,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		trains:          trains,
		producer:        producer,
		bookingTopic:    bookingTopic,
		holdTTL:         holdTTL,
		discountPercent: discountPercent,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, session domain.Session, input CreateBookingInput) (*domain.Booking, error) {
	if input.ScheduleID == "" {
		return nil, errors.New("schedule id is required")
	}
	if input.Passengers < pricing.MinPassengers || input.Passengers > pricing.MaxPassengers {
		return nil, pricing.ErrInvalidPassengers
	}

	train, err := s.trains.GetByID(ctx, input.ScheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}
	if input.Passengers > train.SeatsAvailable {
		return nil, ErrNotEnoughSeats
	}

	quote, err := pricing.Quote(train.PricePaise, input.Passengers, session.IsStudent, s.discountPercent)
	if err != nil {
		return nil, err
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireBookingLock(ctx, session.UserID, input.ScheduleID, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDuplicateBooking
		}
		locked = true
	}

	now := s.now()
	booking := &domain.Booking{
		ID:              uuid.NewString(),
		UserID:          session.UserID,
		ScheduleID:      train.ID,
		TravelDate:      train.Date,
		Passengers:      quote.Passengers,
		UnitPricePaise:  quote.UnitPaise,
		TotalPaise:      quote.TotalPaise,
		DiscountPercent: quote.DiscountPercent,
		AmountDuePaise:  quote.AmountDuePaise,
		ExpiresAt:       now.Add(s.holdTTL),
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		if locked {
			_ = s.cache.ReleaseBookingLock(ctx, session.UserID, input.ScheduleID)
		}
		return nil, err
	}

	booking.Status = domain.BookingStatusPending
	if err := s.publish(ctx, kafka.EventBookingCreated, booking, session.Email); err != nil {
		log.Printf("WARNING: Failed to publish booking_created event for booking %s: %v", booking.ID, err)
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]BookingDetails, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, s.details(ctx, b, now))
	}
	return out, nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID, id string) (*BookingDetails, error) {
	b, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	d := s.details(ctx, *b, s.now())
	return &d, nil
}

// CancelBooking is idempotent for bookings that are already cancelled or expired.
func (s *BookingService) CancelBooking(ctx context.Context, userID, id string) (*domain.Booking, error) {
	current, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled || current.Status == domain.BookingStatusExpired {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, current.Status, domain.BookingStatusCancelled)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("booking %s changed concurrently: %w", id, ErrBookingNotPending)
		}
		return nil, err
	}
	if err := s.publish(ctx, kafka.EventBookingCancelled, updated, ""); err != nil {
		log.Printf("WARNING: Failed to publish booking_cancelled event for booking %s: %v", updated.ID, err)
	}
	s.releaseLock(ctx, updated)
	return updated, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if current.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotPending
		}
		return nil, err
	}
	if err := s.publish(ctx, kafka.EventBookingConfirmed, updated, ""); err != nil {
		log.Printf("WARNING: Failed to publish booking_confirmed event for booking %s: %v", updated.ID, err)
	}
	s.releaseLock(ctx, updated)
	return updated, nil
}

func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		b := &expired[i]
		if err := s.publish(ctx, kafka.EventBookingExpired, b, ""); err != nil {
			log.Printf("WARNING: Failed to publish booking_expired event for booking %s: %v", b.ID, err)
		}
		s.releaseLock(ctx, b)
	}
	return expired, nil
}

func (s *BookingService) Ticket(ctx context.Context, session domain.Session, id string) (*Ticket, error) {
	b, err := s.owned(ctx, session.UserID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil, ErrTicketUnavailable
	}
	train, err := s.trains.GetByID(ctx, b.ScheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}

	t := &Ticket{
		ID:              b.ID,
		From:            train.DepartureStation.Name,
		To:              train.ArrivalStation.Name,
		Date:            b.TravelDate,
		DepartureTime:   train.DepartureTime,
		ArrivalTime:     train.ArrivalTime,
		TrainNumber:     train.Train.Number,
		TrainName:       train.Train.Name,
		Class:           string(train.Train.Category),
		PassengerName:   session.Name,
		Passengers:      b.Passengers,
		IsStudent:       b.DiscountPercent > 0,
		AmountPaidPaise: b.AmountDuePaise,
		IssuedAt:        b.UpdatedAt,
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	t.QRPayload = string(payload)
	return t, nil
}

// owned loads a booking and hides bookings that belong to someone else.
func (s *BookingService) owned(ctx context.Context, userID, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *BookingService) details(ctx context.Context, b domain.Booking, now time.Time) BookingDetails {
	d := BookingDetails{Booking: b, DisplayStatus: b.DisplayStatus(now)}
	train, err := s.trains.GetByID(ctx, b.ScheduleID)
	if err != nil {
		log.Printf("booking %s references unknown schedule %s: %v", b.ID, b.ScheduleID, err)
		return d
	}
	d.Train = train
	return d
}

func (s *BookingService) releaseLock(ctx context.Context, b *domain.Booking) {
	if s.cache == nil {
		return
	}
	if err := s.cache.ReleaseBookingLock(ctx, b.UserID, b.ScheduleID); err != nil {
		log.Printf("release booking lock %s: %v", b.ID, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType kafka.EventType, booking *domain.Booking, email string) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.Event{
		Type:        eventType,
		UserID:      booking.UserID,
		Email:       email,
		BookingID:   booking.ID,
		ScheduleID:  booking.ScheduleID,
		Status:      string(booking.Status),
		AmountPaise: booking.AmountDuePaise,
		OccurredAt:  s.now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
