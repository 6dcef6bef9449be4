package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

const defaultResolveTimeout = 5 * time.Second

// Job is one deferred location lookup queued after a committed transition.
type Job struct {
	OrderID   int64
	Latitude  float64
	Longitude float64
	IPAddress *string
}

// auditPatcher fills the location fields of the newest audit row for an
// order.
type auditPatcher interface {
	PatchLatestLocation(ctx context.Context, orderID int64, ipAddress, geolocation, accessLocation *string)
}

// locationResolver turns coordinates into a human-readable address.
type locationResolver interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Worker runs the slow audit-location path: status transitions commit on the
// fast path, and this worker later patches the newest audit row with the
// resolved location. Everything here is best-effort; a full queue or a
// failed lookup drops the job.
type Worker struct {
	patcher        auditPatcher
	resolver       locationResolver
	jobs           chan Job
	resolveTimeout time.Duration
	stopCh         chan struct{}
}

// NewWorker creates a new enrichment worker. The resolver may be nil, in
// which case only coordinates and ip are patched.
func NewWorker(patcher auditPatcher, resolver locationResolver) *Worker {
	resolveTimeout := viper.GetDuration("geocoding.timeout")
	if resolveTimeout == 0 {
		resolveTimeout = defaultResolveTimeout
	}

	queueSize := viper.GetInt("geocoding.queue_size")
	if queueSize == 0 {
		queueSize = 256
	}

	return &Worker{
		patcher:        patcher,
		resolver:       resolver,
		jobs:           make(chan Job, queueSize),
		resolveTimeout: resolveTimeout,
		stopCh:         make(chan struct{}),
	}
}

// Enqueue queues one lookup. Never blocks: when the queue is full the job is
// dropped and the audit row keeps its null location fields.
func (w *Worker) Enqueue(orderID int64, latitude, longitude float64, ipAddress *string) {
	job := Job{
		OrderID:   orderID,
		Latitude:  latitude,
		Longitude: longitude,
		IPAddress: ipAddress,
	}

	select {
	case w.jobs <- job:
	default:
		slog.Warn("Enrichment queue full, dropping location job", "order_id", orderID)
	}
}

// Start begins processing queued jobs.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Enrichment worker started", "resolve_timeout", w.resolveTimeout)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Enrichment worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Enrichment worker stopped")

			return
		case job := <-w.jobs:
			w.process(ctx, job)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) process(ctx context.Context, job Job) {
	ctx, cancel := context.WithTimeout(ctx, w.resolveTimeout)
	defer cancel()

	geolocation := fmt.Sprintf("%.6f,%.6f", job.Latitude, job.Longitude)

	var accessLocation *string
	if w.resolver != nil {
		address, err := w.resolver.ReverseGeocode(ctx, job.Latitude, job.Longitude)
		if err != nil {
			// Degrade to coordinates only.
			slog.Warn("Reverse geocoding failed", "order_id", job.OrderID, "error", err)
		} else {
			accessLocation = &address
		}
	}

	w.patcher.PatchLatestLocation(ctx, job.OrderID, job.IPAddress, &geolocation, accessLocation)
}
