package validation

import (
	"fmt"

	"discloser/internal/models"
)

// MaxDurationHours caps a link's lifetime at one year.
const MaxDurationHours = 24 * 365

// ValidLinkKind checks a link kind string.
func ValidLinkKind(kind string) bool {
	return kind == models.KindResult || kind == models.KindStatus
}

// ValidDisclosureMode checks a disclosure mode string.
func ValidDisclosureMode(mode string) bool {
	switch mode {
	case models.DisclosureAnonymous, models.DisclosureAlias, models.DisclosureLegalFirstName:
		return true
	}
	return false
}

// ValidateCreateLink checks link creation parameters. maxViews of nil means
// unlimited. Returns ok and a user-facing message when invalid.
func ValidateCreateLink(kind string, durationHours int, maxViews *int, disclosureMode string) (bool, string) {
	if !ValidLinkKind(kind) {
		return false, "kind must be result or status"
	}
	if durationHours <= 0 {
		return false, "duration must be a positive number of hours"
	}
	if durationHours > MaxDurationHours {
		return false, fmt.Sprintf("duration must be at most %d hours", MaxDurationHours)
	}
	if maxViews != nil && *maxViews <= 0 {
		return false, "max views must be a positive number or omitted for unlimited"
	}
	if !ValidDisclosureMode(disclosureMode) {
		return false, "disclosure mode must be anonymous, alias, or legal_first_name"
	}
	return true, ""
}

// ValidateTestRecord checks the required fields of an owner's test record.
func ValidateTestRecord(name, status string) (bool, string) {
	if name == "" {
		return false, "name is required"
	}
	if len(name) > 200 {
		return false, "name must be at most 200 characters"
	}
	if status == "" {
		return false, "status is required"
	}
	return true, ""
}

// ValidateProfileName checks an alias or legal first name value.
func ValidateProfileName(value string) (bool, string) {
	if len(value) > 100 {
		return false, "name must be at most 100 characters"
	}
	return true, ""
}
