package trackingsvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"github.com/pharmarun/dispatch/internal/dal/interfaces/itrackingrepo"
	"github.com/pharmarun/dispatch/internal/dal/redis"
	"github.com/pharmarun/dispatch/internal/service/models/tracking"
)

const defaultCacheTTL = 30 * time.Second

// TrackingService serves the public tracking page payload. Reads go through
// a short-TTL Redis cache; staleness is bounded by the TTL, which is
// acceptable for a status page.
type TrackingService struct {
	trackingRepo itrackingrepo.ITrackingRepository
	redisClient  *redis.Client
	cacheTTL     time.Duration
}

// option is a function that configures the TrackingService.
type option func(*TrackingService)

// MustNewTrackingService creates a new TrackingService.
func MustNewTrackingService(opts ...option) *TrackingService {
	cacheTTL := viper.GetDuration("tracking.cache_ttl")
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	s := &TrackingService{
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithTrackingRepository sets the tracking repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTrackingRepository(trackingRepo itrackingrepo.ITrackingRepository) option {
	return func(s *TrackingService) {
		s.trackingRepo = trackingRepo
	}
}

// WithRedisClient sets the Redis cache client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRedisClient(redisClient *redis.Client) option {
	return func(s *TrackingService) {
		s.redisClient = redisClient
	}
}

// GetByTrackingID returns the public tracking payload for one tracking id.
func (s *TrackingService) GetByTrackingID(
	ctx context.Context,
	trackingID string,
) (*tracking.PublicTracking, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TrackingService.GetByTrackingID")
	defer span.End()

	cacheKey := "tracking:" + trackingID

	if s.redisClient != nil {
		cached, err := s.redisClient.RDB().Get(ctx, cacheKey).Result()
		if err == nil {
			var t tracking.PublicTracking
			if err := json.Unmarshal([]byte(cached), &t); err == nil {
				return &t, nil
			}
			slog.Warn("Failed to decode cached tracking record", "tracking_id", trackingID, "error", err)
		} else if err != goredis.Nil {
			slog.Warn("Tracking cache read failed", "tracking_id", trackingID, "error", err)
		}
	}

	t, err := s.trackingRepo.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		payload, err := json.Marshal(t)
		if err == nil {
			if err := s.redisClient.RDB().Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				slog.Warn("Tracking cache write failed", "tracking_id", trackingID, "error", err)
			}
		}
	}

	return t, nil
}
