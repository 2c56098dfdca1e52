// Package pricing computes fares: per-seat price times passengers, minus
// the student discount when the account qualifies.
package pricing

import (
	"errors"
	"math"
	"strings"
)

const (
	MinPassengers = 1
	MaxPassengers = 6
)

var (
	ErrInvalidPassengers = errors.New("passengers must be between 1 and 6")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidDiscount   = errors.New("discount percent must be between 0 and 100")
)

var studentDomains = []string{".edu", ".ac.in"}

// IsStudentEmail applies the email-domain heuristic used to flag student
// accounts. It is not proof of enrolment.
func IsStudentEmail(email string) bool {
	e := strings.ToLower(strings.TrimSpace(email))
	for _, suffix := range studentDomains {
		if strings.HasSuffix(e, suffix) {
			return true
		}
	}
	return false
}

// Breakdown is a fare quote. All amounts are in paise.
type Breakdown struct {
	UnitPaise       int64 `json:"unit_paise"`
	Passengers      int   `json:"passengers"`
	TotalPaise      int64 `json:"total_paise"`
	Student         bool  `json:"student"`
	DiscountPercent int   `json:"discount_percent"`
	DiscountPaise   int64 `json:"discount_paise"`
	AmountDuePaise  int64 `json:"amount_due_paise"`
}

// Quote prices passengers seats at unitPaise each. When student is set the
// amount due is total × (1 − discountPercent/100), rounded to the nearest
// paisa.
func Quote(unitPaise int64, passengers int, student bool, discountPercent int) (Breakdown, error) {
	if unitPaise <= 0 {
		return Breakdown{}, ErrInvalidPrice
	}
	if passengers < MinPassengers || passengers > MaxPassengers {
		return Breakdown{}, ErrInvalidPassengers
	}
	if discountPercent < 0 || discountPercent > 100 {
		return Breakdown{}, ErrInvalidDiscount
	}

	b := Breakdown{
		UnitPaise:  unitPaise,
		Passengers: passengers,
		TotalPaise: unitPaise * int64(passengers),
		Student:    student,
	}
	b.AmountDuePaise = b.TotalPaise
	if student && discountPercent > 0 {
		b.DiscountPercent = discountPercent
		b.AmountDuePaise = int64(math.Round(float64(b.TotalPaise) * (1 - float64(discountPercent)/100)))
		b.DiscountPaise = b.TotalPaise - b.AmountDuePaise
	}
	return b, nil
}

// Rupees formats paise as a rupee amount for display.
func Rupees(paise int64) float64 {
	return float64(paise) / 100
}
