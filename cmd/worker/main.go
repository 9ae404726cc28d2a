package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsavchuk/aeroreserve/config"
	"github.com/bsavchuk/aeroreserve/internal/cache"
	"github.com/bsavchuk/aeroreserve/internal/email"
	"github.com/bsavchuk/aeroreserve/internal/gateway"
	"github.com/bsavchuk/aeroreserve/internal/kafka"
	"github.com/bsavchuk/aeroreserve/internal/ledger"
	"github.com/bsavchuk/aeroreserve/internal/repository"
	"github.com/bsavchuk/aeroreserve/internal/service/booking"
	"github.com/bsavchuk/aeroreserve/internal/service/tickets"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)

	flightRepo := repository.NewFlightRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	seatLedger := ledger.NewPGSeatLedger(pool)
	paymentGateway := gateway.NewStubGateway(paymentRepo, cfg.Booking.Currency)
	ticketService := tickets.NewTicketService(ticketRepo, flightRepo)

	// The sweep closes abandoned PENDING_PAYMENT bookings through the
	// same state machine the API uses; no notifier here, the cancel
	// events would only duplicate what the sweep logs.
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		seatRepo,
		seatLedger,
		paymentGateway,
		ticketService,
		booking.WithSeatLockCache(redisCache, time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.NotificationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	holdTTL := time.Duration(cfg.Booking.HoldTTLMinutes) * time.Minute
	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.StaleSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			stale, err := bookingRepo.ListStalePending(ctx, time.Now().Add(-holdTTL))
			if err != nil {
				log.Printf("list stale bookings error: %v", err)
				continue
			}
			for _, b := range stale {
				if _, err := bookingService.CancelPaymentAndBooking(ctx, b.ID); err != nil {
					log.Printf("cancel stale booking %s error: %v", b.BookingNumber, err)
				}
			}
			if len(stale) > 0 {
				log.Printf("cancelled %d stale bookings", len(stale))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
