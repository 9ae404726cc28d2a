package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsavchuk/aeroreserve/config"
	"github.com/bsavchuk/aeroreserve/internal/bootstrap"
	"github.com/bsavchuk/aeroreserve/internal/cache"
	"github.com/bsavchuk/aeroreserve/internal/gateway"
	"github.com/bsavchuk/aeroreserve/internal/kafka"
	"github.com/bsavchuk/aeroreserve/internal/ledger"
	"github.com/bsavchuk/aeroreserve/internal/notify"
	"github.com/bsavchuk/aeroreserve/internal/repository"
	"github.com/bsavchuk/aeroreserve/internal/service/booking"
	"github.com/bsavchuk/aeroreserve/internal/service/flights"
	"github.com/bsavchuk/aeroreserve/internal/service/tickets"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	seatLedger := ledger.NewPGSeatLedger(pool)
	paymentGateway := gateway.NewStubGateway(paymentRepo, cfg.Booking.Currency)
	ticketService := tickets.NewTicketService(ticketRepo, flightRepo)
	notifier := notify.NewKafkaNotifier(producer, cfg.Kafka.NotificationsTopic)

	flightService := flights.NewFlightService(flightRepo, seatRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		seatRepo,
		seatLedger,
		paymentGateway,
		ticketService,
		booking.WithSeatLockCache(redisCache, time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute),
		booking.WithNotifier(notifier),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
