package models

import (
	"time"

	"github.com/google/uuid"
)

// TestRecord is one entry in the owner's live health record: a test result
// or a declared long-term condition. Share links never reference these rows
// directly; the snapshot builder copies them at link creation time.
type TestRecord struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Name         string    `json:"name"`   // condition or panel name, e.g. "HIV"
	Status       string    `json:"status"` // status category, e.g. "negative", "managed"
	Result       string    `json:"result"` // human-readable result text
	TestedAt     time.Time `json:"tested_at"`
	Verified     bool      `json:"verified"`
	Chronic      bool      `json:"chronic"` // long-term/known condition, excludable from status shares
	TreatmentIDs []string  `json:"treatment_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisclosureEntry is one disclosed item embedded in a share link. It carries
// everything a recipient page needs so rendering never reads live records.
type DisclosureEntry struct {
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Result       string    `json:"result"`
	TestedAt     time.Time `json:"tested_at"`
	Verified     bool      `json:"verified"`
	Chronic      bool      `json:"chronic"`
	TreatmentIDs []string  `json:"treatment_ids,omitempty"`
}
