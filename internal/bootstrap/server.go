package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bsavchuk/aeroreserve/api"
	"github.com/bsavchuk/aeroreserve/config"
	"github.com/bsavchuk/aeroreserve/internal/service/booking"
	"github.com/bsavchuk/aeroreserve/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) error {
	router := gin.Default()
	group := router.Group("/api/v1")
	api.NewFlightHandler(flightSvc).Register(group)
	api.NewBookingHandler(bookingSvc).Register(group)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
