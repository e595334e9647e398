package model

import "time"

// Space is a bookable resource owned by the catalog subsystem.  The
// reservation core only reads it, and takes a row-level lock on it for the
// duration of an admission transaction.  PricingRule is populated when the
// space is loaded with its rule joined in; it is nil when the space has no
// rule assigned.
type Space struct {
	UUID          string       `json:"uuid"`
	Name          string       `json:"name"`
	Description   *string      `json:"description,omitempty"`
	Capacity      uint32       `json:"capacity"`
	SpaceTypeID   string       `json:"spaces_type_id"`
	StatusID      string       `json:"status_id"`
	PricingRuleID *string      `json:"pricing_rule_id,omitempty"`
	IsActive      bool         `json:"is_active"`
	CreatedBy     *string      `json:"created_by,omitempty"`
	PricingRule   *PricingRule `json:"pricing_rule,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// SpaceType is a named category of spaces (meeting room, auditorium, ...).
type SpaceType struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Feature is an amenity a space may offer (projector, whiteboard, ...).
// Spaces are linked to features through the space_features join table.
type Feature struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// SpaceAvailability is an operator-declared schedule record.  A space with no
// schedule records at all is open by default; once any record exists, a date
// is only available when a non-deleted record for that exact date says
// is_available.
type SpaceAvailability struct {
	SpaceID       string     `json:"space_id"`
	AvailableDate string     `json:"available_date"` // YYYY-MM-DD
	IsAvailable   bool       `json:"is_available"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}
