package models

import "time"

// ShareLinkResponse is a ShareLink decorated with derived display fields for
// the owner-facing API.
type ShareLinkResponse struct {
	ShareLink
	Status      LinkStatus `json:"status"`
	StatusLabel string     `json:"status_label"`
	Viewed      string     `json:"viewed"`
	ShareURL    string     `json:"share_url"`
}

// NewShareLinkResponse classifies a link at the given instant and attaches
// the derived fields.
func NewShareLinkResponse(link ShareLink, baseURL string, now time.Time) ShareLinkResponse {
	status := link.StatusAt(now)
	return ShareLinkResponse{
		ShareLink:   link,
		Status:      status,
		StatusLabel: status.Label(),
		Viewed:      link.ViewedLine(),
		ShareURL:    link.ShareURL(baseURL),
	}
}

// ResolveResponse is what an anonymous recipient receives for a valid token.
type ResolveResponse struct {
	Kind        string            `json:"kind"`
	Snapshot    []DisclosureEntry `json:"snapshot"`
	DisplayName *string           `json:"display_name,omitempty"`
	ExpiresAt   time.Time         `json:"expires_at"`
	ViewCount   int               `json:"view_count"`
	Viewed      string            `json:"viewed"`
}
