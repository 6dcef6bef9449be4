package auditsvc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/pharmarun/dispatch/internal/dal/interfaces/iauditrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/idriverrepo"
	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
	"github.com/pharmarun/dispatch/internal/session"
)

// Sentinel actor values recorded when the identity lookup fails or the
// action was taken without an authenticated session.
const (
	unknownActorName = "Unknown User"
	unknownActorRole = "unknown"
)

// AuditService appends the immutable compliance trail. Appends are
// best-effort: a failed audit write is logged and never propagated to the
// operation that triggered it.
type AuditService struct {
	auditRepo  iauditrepo.IAuditRepository
	driverRepo idriverrepo.IDriverRepository
}

// option is a function that configures the AuditService.
type option func(*AuditService)

// MustNewAuditService creates a new AuditService.
func MustNewAuditService(opts ...option) *AuditService {
	s := &AuditService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithAuditRepository sets the audit repository for the AuditService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(auditRepo iauditrepo.IAuditRepository) option {
	return func(s *AuditService) {
		s.auditRepo = auditRepo
	}
}

// WithDriverRepository sets the driver repository used for actor lookups.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDriverRepository(driverRepo idriverrepo.IDriverRepository) option {
	return func(s *AuditService) {
		s.driverRepo = driverRepo
	}
}

// Append records one action against an order. The actor is resolved from the
// session carried in the context; lookups that fail fall back to sentinel
// values rather than failing the append.
func (s *AuditService) Append(ctx context.Context, params auditlog.AppendParams) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuditService.Append")
	defer span.End()

	sess := session.FromContext(ctx)

	entry := auditlog.Entry{
		OrderID:         params.OrderID,
		ActorID:         sess.ActorID,
		ActorName:       unknownActorName,
		ActorRole:       unknownActorRole,
		Action:          params.Action,
		PreviousStatus:  params.PreviousStatus,
		NewStatus:       params.NewStatus,
		DeliveryStatus:  params.DeliveryStatus,
		Metadata:        params.Metadata,
		UserAgent:       params.UserAgent,
		DeviceType:      ClassifyDevice(params.UserAgent),
		IPAddress:       params.IPAddress,
		Geolocation:     params.Geolocation,
		SessionID:       sess.CorrelationID,
		ConsentVerified: true,
		CreatedAt:       time.Now().UTC(),
	}

	if sess.ActorID != nil {
		if actor, err := s.driverRepo.GetByID(ctx, *sess.ActorID); err == nil {
			entry.ActorName = actor.DisplayName
			entry.ActorRole = actor.Role
		} else {
			slog.Warn("Audit actor lookup failed", "actor_id", *sess.ActorID, "error", err)
		}
	}

	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		slog.Error("Failed to append audit entry",
			"order_id", params.OrderID,
			"action", params.Action,
			"error", err)
	}
}

// GetAuditTrail returns the newest audit entries for an order, newest first.
// Unlike appends, reads surface their errors: a compliance review must not
// silently see a truncated trail.
func (s *AuditService) GetAuditTrail(
	ctx context.Context,
	orderID int64,
	limit int,
) ([]auditlog.Entry, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuditService.GetAuditTrail")
	defer span.End()

	entries, err := s.auditRepo.QueryByOrder(ctx, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit trail: %w", err)
	}

	return entries, nil
}

// PatchLatestLocation fills the location fields of the newest audit row for
// the order once the slow geolocation path resolves. Best-effort; failures
// are logged and dropped.
func (s *AuditService) PatchLatestLocation(
	ctx context.Context,
	orderID int64,
	ipAddress *string,
	geolocation *string,
	accessLocation *string,
) {
	err := s.auditRepo.PatchLatestLocation(ctx, orderID, ipAddress, geolocation, accessLocation)
	if err != nil {
		slog.Warn("Failed to patch audit location", "order_id", orderID, "error", err)
	}
}

// ClassifyDevice buckets a User-Agent string into mobile/tablet/desktop.
func ClassifyDevice(userAgent string) auditlog.DeviceType {
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "ipad"),
		strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return auditlog.DeviceTablet
	case strings.Contains(ua, "mobi"),
		strings.Contains(ua, "iphone"),
		strings.Contains(ua, "ipod"),
		strings.Contains(ua, "android"):
		return auditlog.DeviceMobile
	default:
		return auditlog.DeviceDesktop
	}
}
