package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/bsavchuk/aeroreserve/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmBookingByPaymentIntent(ctx context.Context, intentID string) (*domain.Booking, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) RefundBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CanRefund(ctx context.Context, b *domain.Booking) bool {
	args := m.Called(ctx, b)
	return args.Bool(0)
}

func (m *MockBookingUseCase) CancelPaymentAndBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) FindByPaymentIntentID(ctx context.Context, intentID string) (*domain.Booking, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingsByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

var _ booking.BookingUseCase = (*MockBookingUseCase)(nil)

func newBookingRouter(svc booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(svc).Register(router.Group("/api/v1"))
	return router
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            7,
		BookingNumber: "AR-test",
		UserID:        1,
		FlightID:      4,
		SeatID:        12,
		PassengerName: "J. Doe",
		TotalCents:    19900,
		Status:        status,
		Payment: &domain.Payment{
			IntentID:    "pi_test",
			AmountCents: 19900,
			Currency:    "eur",
			Status:      domain.PaymentStatusRequiresPaymentMethod,
		},
	}
}

func TestCreateBookingEndpoint(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	input := booking.CreateBookingInput{UserID: 1, FlightID: 4, SeatNumber: "12A", PassengerName: "J. Doe"}
	svc.On("CreateBooking", mock.Anything, input).Return(sampleBooking(domain.BookingStatusPendingPayment), nil).Once()

	body, _ := json.Marshal(map[string]any{
		"user_id": 1, "flight_id": 4, "seat_number": "12A", "passenger_name": "J. Doe",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AR-test", resp.BookingNumber)
	assert.Equal(t, string(domain.BookingStatusPendingPayment), resp.Status)
	assert.NotNil(t, resp.Payment)
	assert.Equal(t, "pi_test", resp.Payment.IntentID)
	svc.AssertExpectations(t)
}

func TestCreateBookingEndpoint_SeatConflict(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	svc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, domain.ErrSeatConflict).Once()

	body, _ := json.Marshal(map[string]any{
		"user_id": 1, "flight_id": 4, "seat_number": "12A", "passenger_name": "J. Doe",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "seat is already booked")
}

func TestGetBookingEndpoint_NotFound(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	svc.On("GetBookingByID", mock.Anything, int64(99)).Return(nil, domain.ErrBookingNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBookingEndpoint_InvalidID(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetBookingByID", mock.Anything, mock.Anything)
}

func TestConfirmBookingEndpoint_PaymentNotCompleted(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	svc.On("ConfirmBooking", mock.Anything, int64(7)).Return(nil, domain.ErrPaymentNotCompleted).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/7/confirm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestCancelBookingEndpoint_Terminal(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	svc.On("CancelBooking", mock.Anything, int64(7)).Return(nil, domain.ErrInvalidStateTransition).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/7/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRefundBookingEndpoint(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	refunded := sampleBooking(domain.BookingStatusRefunded)
	refunded.Payment.Status = domain.PaymentStatusRefunded
	svc.On("RefundBooking", mock.Anything, int64(7)).Return(refunded, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/7/refund", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.BookingStatusRefunded), resp.Status)
}

func TestCanRefundEndpoint(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	b := sampleBooking(domain.BookingStatusConfirmed)
	svc.On("GetBookingByID", mock.Anything, int64(7)).Return(b, nil).Once()
	svc.On("CanRefund", mock.Anything, b).Return(true).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/7/can-refund", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"can_refund": true}`, w.Body.String())
}

func TestPaymentWebhookEndpoint(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	confirmed := sampleBooking(domain.BookingStatusConfirmed)
	confirmed.Payment.Status = domain.PaymentStatusSucceeded
	svc.On("ConfirmBookingByPaymentIntent", mock.Anything, "pi_test").Return(confirmed, nil).Once()

	body, _ := json.Marshal(map[string]string{"payment_intent_id": "pi_test"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListUserBookingsEndpoint(t *testing.T) {
	svc := &MockBookingUseCase{}
	router := newBookingRouter(svc)

	svc.On("GetUserBookings", mock.Anything, int64(1)).
		Return([]domain.Booking{*sampleBooking(domain.BookingStatusConfirmed)}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "AR-test", resp[0].BookingNumber)
}
