package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/responses"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingResponse struct {
	ID              string              `json:"id"`
	ScheduleID      string              `json:"schedule_id"`
	TravelDate      string              `json:"travel_date"`
	Passengers      int                 `json:"passengers"`
	UnitPricePaise  int64               `json:"unit_price_paise"`
	TotalPaise      int64               `json:"total_paise"`
	DiscountPercent int                 `json:"discount_percent"`
	AmountDuePaise  int64               `json:"amount_due_paise"`
	Status          string              `json:"status"`
	DisplayStatus   string              `json:"display_status,omitempty"`
	ExpiresAt       string              `json:"expires_at"`
	CreatedAt       string              `json:"created_at"`
	Train           *domain.TrainResult `json:"train,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register expects RequireSession to be installed on router.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	router.GET("/:id/ticket", h.ticket)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		ScheduleID:      b.ScheduleID,
		TravelDate:      b.TravelDate,
		Passengers:      b.Passengers,
		UnitPricePaise:  b.UnitPricePaise,
		TotalPaise:      b.TotalPaise,
		DiscountPercent: b.DiscountPercent,
		AmountDuePaise:  b.AmountDuePaise,
		Status:          string(b.Status),
		ExpiresAt:       b.ExpiresAt.Format(time.RFC3339),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}

func toDetailsResponse(d booking.BookingDetails) bookingResponse {
	resp := toBookingResponse(&d.Booking)
	resp.DisplayStatus = d.DisplayStatus
	resp.Train = d.Train
	return resp
}

func (h *BookingHandler) create(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req booking.CreateBookingInput
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), session, req)
	if err != nil {
		fail(c, err)
		return
	}
	resp := toBookingResponse(b)
	resp.DisplayStatus = domain.DisplayPending
	responses.Success(c, http.StatusCreated, resp)
}

func (h *BookingHandler) list(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	details, err := h.service.ListBookings(c.Request.Context(), session.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toDetailsResponse(d))
	}
	responses.Success(c, http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	d, err := h.service.GetBooking(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, toDetailsResponse(*d))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp := toBookingResponse(b)
	resp.DisplayStatus = domain.DisplayCancelled
	responses.Success(c, http.StatusOK, resp)
}

func (h *BookingHandler) ticket(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	ticket, err := h.service.Ticket(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, ticket)
}
