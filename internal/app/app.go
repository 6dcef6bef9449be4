package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pharmarun/dispatch/internal/dal/postgres"
	"github.com/pharmarun/dispatch/internal/dal/rabbitmq"
	"github.com/pharmarun/dispatch/internal/dal/redis"
	auditrepo "github.com/pharmarun/dispatch/internal/dal/repositories/audit/postgres"
	driverrepo "github.com/pharmarun/dispatch/internal/dal/repositories/driver/postgres"
	eventrepo "github.com/pharmarun/dispatch/internal/dal/repositories/event/rabbitmq"
	outboxrepo "github.com/pharmarun/dispatch/internal/dal/repositories/outbox/postgres"
	trackingrepo "github.com/pharmarun/dispatch/internal/dal/repositories/tracking/postgres"
	"github.com/pharmarun/dispatch/internal/maps"
	"github.com/pharmarun/dispatch/internal/otel"
	"github.com/pharmarun/dispatch/internal/service/services/auditsvc"
	"github.com/pharmarun/dispatch/internal/service/services/dispatchsvc"
	"github.com/pharmarun/dispatch/internal/service/services/trackingsvc"
	httptransport "github.com/pharmarun/dispatch/internal/transport/http"
	enrichmentworker "github.com/pharmarun/dispatch/internal/worker/enrichment"
	outboxworker "github.com/pharmarun/dispatch/internal/worker/outbox"
)

// App represents the application.
type App struct {
	dispatchSvc      *dispatchsvc.DispatchService
	trackingSvc      *trackingsvc.TrackingService
	transport        *httptransport.HTTPTransport
	outboxWorker     *outboxworker.Worker
	enrichmentWorker *enrichmentworker.Worker
	postgresClient   *postgres.Client
	redisClient      *redis.Client
	rabbitMqClient   *rabbitmq.Client
	otelController   *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	redisClient := redis.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	auditRepository := auditrepo.NewAuditRepository(postgresClient.Pool())
	driverRepository := driverrepo.NewDriverRepository(postgresClient.Pool())
	trackingRepository := trackingrepo.NewPostgresTrackingRepository(postgresClient.Pool())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())
	eventRepository := eventrepo.NewEventRabbitMQRepository(rabbitMqClient)

	auditSvc := auditsvc.MustNewAuditService(
		auditsvc.WithAuditRepository(auditRepository),
		auditsvc.WithDriverRepository(driverRepository),
	)

	var enrichmentWorker *enrichmentworker.Worker
	if geocoder := newGeocoder(); geocoder != nil {
		enrichmentWorker = enrichmentworker.NewWorker(auditSvc, geocoder)
	} else {
		enrichmentWorker = enrichmentworker.NewWorker(auditSvc, nil)
	}

	dispatchSvc := dispatchsvc.MustNewDispatchService(
		dispatchsvc.WithPostgresClient(postgresClient),
		dispatchsvc.WithAuditLogger(auditSvc),
		dispatchsvc.WithEventRepository(eventRepository),
		dispatchsvc.WithOutboxRepository(outboxRepository),
		dispatchsvc.WithLocationEnricher(enrichmentWorker),
	)

	trackingSvc := trackingsvc.MustNewTrackingService(
		trackingsvc.WithTrackingRepository(trackingRepository),
		trackingsvc.WithRedisClient(redisClient),
	)

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	transport := httptransport.NewHTTPTransport(dispatchSvc, trackingSvc, auditSvc)
	transport.RegisterRoutes()

	return &App{
		dispatchSvc:      dispatchSvc,
		trackingSvc:      trackingSvc,
		transport:        transport,
		outboxWorker:     outboxWorker,
		enrichmentWorker: enrichmentWorker,
		postgresClient:   postgresClient,
		redisClient:      redisClient,
		rabbitMqClient:   rabbitMqClient,
		otelController:   otelController,
	}
}

// newGeocoder builds the reverse geocoder when an API key is configured.
// Without a key the enrichment worker still records raw coordinates.
func newGeocoder() *maps.Geocoder {
	apiKey := os.Getenv("DISPATCH_MAPS_API_KEY")
	if apiKey == "" {
		slog.Info("Maps API key not set, reverse geocoding disabled")

		return nil
	}

	geocoder, err := maps.NewGeocoder(apiKey)
	if err != nil {
		slog.Error("Error creating geocoder, reverse geocoding disabled", "error", err)

		return nil
	}

	return geocoder
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	go func() {
		slog.Info("Starting enrichment worker")
		a.enrichmentWorker.Start(ctx)
	}()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown performs graceful shutdown of all application components.
// It shuts down components sequentially: HTTP server, workers, RabbitMQ,
// Redis, PostgreSQL, and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	a.enrichmentWorker.Stop()
	slog.Info("Enrichment worker stopped gracefully")

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.redisClient.Close(); err != nil {
		slog.Error("Redis connection close error", "error", err)
	} else {
		slog.Info("Redis connection closed gracefully")
	}

	a.postgresClient.Close()

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
