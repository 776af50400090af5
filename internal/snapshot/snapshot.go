// Package snapshot builds the disclosure data embedded into a share link at
// creation time. The output is frozen: it is stored with the link and never
// recomputed, so a recipient always sees the owner's data as of creation.
package snapshot

import "discloser/internal/models"

// BuildStatus copies the owner's current condition list into disclosure
// entries for a status link. When excludeChronic is set, long-term/known
// conditions are omitted and only routine test results remain.
func BuildStatus(records []models.TestRecord, excludeChronic bool) []models.DisclosureEntry {
	entries := make([]models.DisclosureEntry, 0, len(records))
	for _, rec := range records {
		if excludeChronic && rec.Chronic {
			continue
		}
		entries = append(entries, fromRecord(rec))
	}
	return entries
}

// BuildResult embeds a single test result's full breakdown for a result link.
func BuildResult(record models.TestRecord) []models.DisclosureEntry {
	return []models.DisclosureEntry{fromRecord(record)}
}

func fromRecord(rec models.TestRecord) models.DisclosureEntry {
	entry := models.DisclosureEntry{
		Name:     rec.Name,
		Status:   rec.Status,
		Result:   rec.Result,
		TestedAt: rec.TestedAt,
		Verified: rec.Verified,
		Chronic:  rec.Chronic,
	}
	// Copy so later edits to the live record cannot reach the snapshot.
	if len(rec.TreatmentIDs) > 0 {
		entry.TreatmentIDs = make([]string, len(rec.TreatmentIDs))
		copy(entry.TreatmentIDs, rec.TreatmentIDs)
	}
	return entry
}
