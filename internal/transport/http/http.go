package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/service/models/tracking"
	"github.com/pharmarun/dispatch/internal/service/services/dispatchsvc"
	"github.com/pharmarun/dispatch/internal/session"
	assignorder "github.com/pharmarun/dispatch/internal/transport/http/assign_order"
	getaudittrail "github.com/pharmarun/dispatch/internal/transport/http/get_audit_trail"
	getorder "github.com/pharmarun/dispatch/internal/transport/http/get_order"
	gettracking "github.com/pharmarun/dispatch/internal/transport/http/get_tracking"
	listorders "github.com/pharmarun/dispatch/internal/transport/http/list_orders"
	updatestatus "github.com/pharmarun/dispatch/internal/transport/http/update_status"
	"github.com/pharmarun/dispatch/pkg/http/middleware/trace"
	"github.com/pharmarun/dispatch/pkg/logger"
)

type dispatchService interface {
	AssignDriver(ctx context.Context, orderID, driverID int64, details dispatchsvc.ChangeDetails) error
	ApplyStatusTransition(
		ctx context.Context,
		orderID int64,
		newStatus status.TimelineStatus,
		details dispatchsvc.ChangeDetails,
	) error
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, id int64, details dispatchsvc.ChangeDetails) (*order.Order, error)
}

type trackingService interface {
	GetByTrackingID(ctx context.Context, trackingID string) (*tracking.PublicTracking, error)
}

type auditService interface {
	GetAuditTrail(ctx context.Context, orderID int64, limit int) ([]auditlog.Entry, error)
}

type HTTPTransport struct {
	server      *http.Server
	router      *chi.Mux
	dispatchSvc dispatchService
	trackingSvc trackingService
	auditSvc    auditService
}

func NewHTTPTransport(dispatchSvc dispatchService, trackingSvc trackingService, auditSvc auditService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:      server,
		router:      router,
		dispatchSvc: dispatchSvc,
		trackingSvc: trackingSvc,
		auditSvc:    auditSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Get("/orders/{orderID}/audit", h.getAuditTrail)
		r.Post("/orders/{orderID}/assign", h.assignOrder)
		r.Post("/orders/{orderID}/status", h.updateStatus)
		r.Get("/tracking/{trackingID}", h.getTracking)
	})
}

func (h *HTTPTransport) assignOrder(w http.ResponseWriter, r *http.Request) {
	assignorder.AssignOrder(w, r, h.dispatchSvc)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.dispatchSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.dispatchSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.dispatchSvc)
}

func (h *HTTPTransport) getTracking(w http.ResponseWriter, r *http.Request) {
	gettracking.GetTracking(w, r, h.trackingSvc)
}

func (h *HTTPTransport) getAuditTrail(w http.ResponseWriter, r *http.Request) {
	getaudittrail.GetAuditTrail(w, r, h.auditSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)
	router.Use(sessionMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

// sessionMiddleware threads the caller identity and session correlation id
// from the request headers into the context. Requests without a session
// token get a fresh correlation id; requests without an actor are recorded
// as system actions.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var actorID *int64
		if raw := r.Header.Get("X-Actor-Id"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				actorID = &id
			}
		}

		sess := session.New(actorID, r.Header.Get("X-Session-Token"))
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
