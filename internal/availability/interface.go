package availability

import "time"

// AvailabilityStore defines the interface for availability persistence.
type AvailabilityStore interface {
	Create(a *Availability) error
	Get(id string) (*Availability, error)
	// ListOpen returns open availabilities whose window starts inside [from, to].
	ListOpen(from, to time.Time) ([]Availability, error)
	// MarkMatched conditionally flips open -> matched and reports whether
	// this call performed the flip.
	MarkMatched(id string) (bool, error)
}
