package order

import "github.com/pharmarun/dispatch/internal/service/models/status"

// QueryOrdersModel represents filter parameters for querying orders
type QueryOrdersModel struct {
	Ids               []int64                 `json:"ids,omitempty"`
	AssignedDriverIds []int64                 `json:"assignedDriverIds,omitempty"`
	TimelineStatuses  []status.TimelineStatus `json:"timelineStatuses,omitempty"`
	Limit             int                     `json:"limit,omitempty"`
	Offset            int                     `json:"offset,omitempty"`
}
