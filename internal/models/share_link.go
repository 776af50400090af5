package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Link kind constants. A result link wraps a single test result; a status
// link wraps the owner's aggregated condition snapshot.
const (
	KindResult = "result"
	KindStatus = "status"
)

// Disclosure mode constants controlling what identity a recipient sees.
const (
	DisclosureAnonymous      = "anonymous"
	DisclosureAlias          = "alias"
	DisclosureLegalFirstName = "legal_first_name"
)

// LinkStatus is the classification of a link at a point in time.
type LinkStatus string

const (
	LinkActive         LinkStatus = "active"
	LinkTimeExpired    LinkStatus = "time_expired"
	LinkViewsExhausted LinkStatus = "views_exhausted"
)

// Label returns the owner-facing label for a link status.
func (s LinkStatus) Label() string {
	switch s {
	case LinkTimeExpired:
		return "Expired"
	case LinkViewsExhausted:
		return "Max views reached"
	default:
		return ""
	}
}

// ShareLink is a token-bearing, time- and view-limited grant of read access
// to a disclosure snapshot frozen at creation time.
type ShareLink struct {
	ID          uuid.UUID         `json:"id"`
	Kind        string            `json:"kind"` // result or status
	Token       string            `json:"token"`
	OwnerID     uuid.UUID         `json:"owner_id"`
	Label       string            `json:"label"`
	Note        string            `json:"note"`
	ShowName    bool              `json:"show_name"`
	DisplayName *string           `json:"display_name"`
	MaxViews    *int              `json:"max_views"` // nil means unlimited
	ViewCount   int               `json:"view_count"`
	Snapshot    []DisclosureEntry `json:"snapshot"`
	CreatedAt   time.Time         `json:"created_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// StatusAt classifies the link at the given instant. Time expiry is checked
// first and wins over view exhaustion when both hold. The instant of expiry
// itself counts as expired. There is no stored active flag; this is always
// recomputed from the raw fields.
func (l *ShareLink) StatusAt(now time.Time) LinkStatus {
	if !now.Before(l.ExpiresAt) {
		return LinkTimeExpired
	}
	if l.MaxViews != nil && l.ViewCount >= *l.MaxViews {
		return LinkViewsExhausted
	}
	return LinkActive
}

// Status classifies the link against the current clock.
func (l *ShareLink) Status() LinkStatus {
	return l.StatusAt(time.Now())
}

// IsExpiredAt reports whether the link is inactive for any reason.
func (l *ShareLink) IsExpiredAt(now time.Time) bool {
	return l.StatusAt(now) != LinkActive
}

// IsExpired reports whether the link is currently inactive.
func (l *ShareLink) IsExpired() bool {
	return l.IsExpiredAt(time.Now())
}

// SharePath returns the URL path a recipient uses for this link.
func (l *ShareLink) SharePath() string {
	if l.Kind == KindStatus {
		return "/status/" + l.Token
	}
	return "/share/" + l.Token
}

// ShareURL joins the base URL with the kind-specific path and raw token.
func (l *ShareLink) ShareURL(baseURL string) string {
	return baseURL + l.SharePath()
}

// ViewedLine formats this link's view count for display.
func (l *ShareLink) ViewedLine() string {
	return FormatViewCount(l.ViewCount, l.MaxViews)
}

// FormatViewCount renders a view counter as "Viewed X/Y time(s)" when capped
// or "Viewed X time(s)" when unlimited. Exactly one view is singular.
func FormatViewCount(viewCount int, maxViews *int) string {
	unit := "times"
	if viewCount == 1 {
		unit = "time"
	}
	if maxViews != nil {
		return fmt.Sprintf("Viewed %d/%d %s", viewCount, *maxViews, unit)
	}
	return fmt.Sprintf("Viewed %d %s", viewCount, unit)
}
