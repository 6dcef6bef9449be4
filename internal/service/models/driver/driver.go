package driver

import (
	"errors"
	"time"
)

// ErrDriverNotFound is returned when no driver exists for the given id.
var ErrDriverNotFound = errors.New("driver not found")

// Driver represents a courier profile. Read-only from the dispatch core's
// perspective; orders reference drivers by id.
type Driver struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	Phone       string    `json:"phone"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}
