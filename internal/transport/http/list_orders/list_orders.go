package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/pharmarun/dispatch/internal/service/models/order"
	"github.com/pharmarun/dispatch/internal/service/models/status"
)

type service interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Ids               []int64  `schema:"ids,omitempty"`
	AssignedDriverIds []int64  `schema:"assignedDriverIds,omitempty"`
	Statuses          []string `schema:"statuses,omitempty"`
	Limit             int      `schema:"limit,omitempty"`
	Offset            int      `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) ToModel() (*order.QueryOrdersModel, error) {
	model := &order.QueryOrdersModel{
		Ids:               q.Ids,
		AssignedDriverIds: q.AssignedDriverIds,
		Limit:             q.Limit,
		Offset:            q.Offset,
	}

	for _, raw := range q.Statuses {
		timelineStatus, err := status.ParseTimelineStatus(raw)
		if err != nil {
			return nil, err
		}
		model.TimelineStatuses = append(model.TimelineStatuses, timelineStatus)
	}

	return model, nil
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryOrdersRequest{}
	err := decoder.Decode(query, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	filter, err := query.ToModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	orders, err := service.GetOrders(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting orders", "error", err)

		return
	}

	if orders == nil {
		orders = []order.Order{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
