package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/bsavchuk/aeroreserve/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	UserID        int64  `json:"user_id"`
	FlightID      int64  `json:"flight_id"`
	SeatNumber    string `json:"seat_number"`
	PassengerName string `json:"passenger_name"`
}

type webhookRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

type paymentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type bookingResponse struct {
	ID            int64            `json:"id"`
	BookingNumber string           `json:"booking_number"`
	Status        string           `json:"status"`
	FlightID      int64            `json:"flight_id"`
	SeatID        int64            `json:"seat_id"`
	PassengerName string           `json:"passenger_name"`
	TotalCents    int64            `json:"total_cents"`
	CreatedAt     string           `json:"created_at"`
	Payment       *paymentResponse `json:"payment,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/bookings/:id", h.get)
	router.POST("/bookings/:id/confirm", h.confirm)
	router.POST("/bookings/:id/cancel", h.cancel)
	router.POST("/bookings/:id/refund", h.refund)
	router.GET("/bookings/:id/can-refund", h.canRefund)
	router.POST("/bookings/:id/cancel-payment", h.cancelPayment)
	router.POST("/payments/webhook", h.paymentWebhook)
	router.GET("/users/:id/bookings", h.listByUser)
	router.GET("/flights/:id/bookings", h.listByFlight)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:        req.UserID,
		FlightID:      req.FlightID,
		SeatNumber:    req.SeatNumber,
		PassengerName: req.PassengerName,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	found, err := h.service.GetBookingByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	confirmed, err := h.service.ConfirmBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cancelled, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) refund(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	refunded, err := h.service.RefundBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(refunded))
}

func (h *BookingHandler) canRefund(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	found, err := h.service.GetBookingByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_refund": h.service.CanRefund(c.Request.Context(), found)})
}

func (h *BookingHandler) cancelPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cancelled, err := h.service.CancelPaymentAndBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) paymentWebhook(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmed, err := h.service.ConfirmBookingByPaymentIntent(c.Request.Context(), req.PaymentIntentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *BookingHandler) listByUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bookings, err := h.service.GetUserBookings(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) listByFlight(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bookings, err := h.service.GetBookingsByFlight(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		Status:        string(b.Status),
		FlightID:      b.FlightID,
		SeatID:        b.SeatID,
		PassengerName: b.PassengerName,
		TotalCents:    b.TotalCents,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
	if b.Payment != nil {
		resp.Payment = &paymentResponse{
			IntentID:     b.Payment.IntentID,
			ClientSecret: b.Payment.ClientSecret,
			AmountCents:  b.Payment.AmountCents,
			Currency:     b.Payment.Currency,
			Status:       string(b.Payment.Status),
		}
	}
	return resp
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}
