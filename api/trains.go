package api

import (
	"net/http"

	"github.com/Domenick1991/travelease/internal/responses"
	"github.com/Domenick1991/travelease/internal/service/trains"
	"github.com/gin-gonic/gin"
)

type nearestQuery struct {
	Lat *float64 `form:"lat" binding:"required,latitude"`
	Lng *float64 `form:"lng" binding:"required,longitude"`
}

type quoteQuery struct {
	Passengers int `form:"passengers" binding:"omitempty,min=1,max=6"`
}

type TrainHandler struct {
	service trains.TrainUseCase
}

func NewTrainHandler(service trains.TrainUseCase) *TrainHandler {
	return &TrainHandler{service: service}
}

// Register mounts the catalogue routes. The quote route reads the
// student flag from a session when OptionalSession runs before it.
func (h *TrainHandler) Register(router *gin.RouterGroup) {
	router.GET("/stations", h.stations)
	router.GET("/stations/nearest", h.nearest)
	router.GET("/distance", h.distance)
	router.GET("/trains/search", h.search)
	router.GET("/trains/:id", h.get)
	router.GET("/trains/:id/quote", h.quote)
}

func (h *TrainHandler) stations(c *gin.Context) {
	stations, err := h.service.Stations(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, stations)
}

func (h *TrainHandler) nearest(c *gin.Context) {
	var q nearestQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.service.Nearest(c.Request.Context(), *q.Lat, *q.Lng)
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, result)
}

func (h *TrainHandler) distance(c *gin.Context) {
	result, err := h.service.Distance(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, result)
}

func (h *TrainHandler) search(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("from"), c.Query("to"), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, results)
}

func (h *TrainHandler) get(c *gin.Context) {
	train, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, train)
}

func (h *TrainHandler) quote(c *gin.Context) {
	var q quoteQuery
	if !bindQuery(c, &q) {
		return
	}
	passengers := q.Passengers
	if passengers == 0 {
		passengers = 1
	}

	session, _ := sessionFrom(c)
	quote, err := h.service.Quote(c.Request.Context(), c.Param("id"), passengers, session.IsStudent)
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, quote)
}
