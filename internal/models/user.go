package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an owner authenticated via OIDC.
type User struct {
	ID             uuid.UUID `json:"id"`
	Sub            string    `json:"sub"` // OIDC subject identifier
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Picture        string    `json:"picture"`
	Alias          string    `json:"alias"`            // owner-chosen pseudonym for alias disclosure
	LegalFirstName string    `json:"legal_first_name"` // for legal-first-name disclosure
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisclosureName returns the identity string to embed for a disclosure mode.
// Anonymous yields ok=true with an empty name. Alias and legal-first-name
// yield ok=false when the owner has not filled in the profile field.
func (u *User) DisclosureName(mode string) (name string, ok bool) {
	switch mode {
	case DisclosureAnonymous:
		return "", true
	case DisclosureAlias:
		return u.Alias, u.Alias != ""
	case DisclosureLegalFirstName:
		return u.LegalFirstName, u.LegalFirstName != ""
	default:
		return "", false
	}
}
