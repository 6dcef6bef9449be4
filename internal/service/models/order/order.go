package order

import (
	"time"

	"github.com/pharmarun/dispatch/internal/service/models/status"
)

// Order represents one pharmacy delivery in the system.
type Order struct {
	ID               int64                  `json:"id"`
	ClientName       string                 `json:"clientName"`
	ClientPhone      string                 `json:"clientPhone"`
	AddressLine      string                 `json:"addressLine"`
	City             string                 `json:"city"`
	PostalCode       string                 `json:"postalCode"`
	Latitude         *float64               `json:"latitude,omitempty"`
	Longitude        *float64               `json:"longitude,omitempty"`
	MedicationCount  int                    `json:"medicationCount"`
	PrescriptionRef  string                 `json:"prescriptionRef"`
	PharmacyID       int64                  `json:"pharmacyId"`
	TimelineStatus   status.TimelineStatus  `json:"timelineStatus"`
	DeliveryStatus   *status.DeliveryStatus `json:"deliveryStatus,omitempty"`
	AssignedDriverID *int64                 `json:"assignedDriverId,omitempty"`
	ShipmentID       *string                `json:"shipmentId,omitempty"`
	TrackingID       *string                `json:"trackingId,omitempty"`
	TrackingURL      *string                `json:"trackingUrl,omitempty"`
	ReviewReason     *status.ReviewReason   `json:"reviewReason,omitempty"`
	ReviewNotes      *string                `json:"reviewNotes,omitempty"`
	Milestones       Milestones             `json:"milestones"`
	GeoZone          string                 `json:"geoZone,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

// Milestones holds the set-once timestamps recording when the order first
// reached each timeline status.
type Milestones struct {
	PickedUpAt        *time.Time `json:"pickedUpAt,omitempty"`
	AssignedAt        *time.Time `json:"assignedAt,omitempty"`
	ConfirmedAt       *time.Time `json:"confirmedAt,omitempty"`
	InRouteAt         *time.Time `json:"inRouteAt,omitempty"`
	ReviewRequestedAt *time.Time `json:"reviewRequestedAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}
