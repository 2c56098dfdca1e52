package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// Display statuses shown in booking listings.
const (
	DisplayPending   = "pending"
	DisplayUpcoming  = "upcoming"
	DisplayCompleted = "completed"
	DisplayCancelled = "cancelled"
)

type Booking struct {
	ID              string
	UserID          string
	ScheduleID      string
	TravelDate      string
	Passengers      int
	UnitPricePaise  int64
	TotalPaise      int64
	DiscountPercent int
	AmountDuePaise  int64
	Status          BookingStatus
	ExpiresAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayStatus folds the stored status and the travel date into the
// label used by booking listings.
func (b *Booking) DisplayStatus(now time.Time) string {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusExpired:
		return DisplayCancelled
	case BookingStatusPending:
		return DisplayPending
	}
	travel, err := time.ParseInLocation("2006-01-02", b.TravelDate, now.Location())
	if err != nil {
		return DisplayUpcoming
	}
	if travel.AddDate(0, 0, 1).After(now) {
		return DisplayUpcoming
	}
	return DisplayCompleted
}
