package persistence

import "strings"

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting
// to DESC for anything unrecognized.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the sort field against a whitelist, falling
// back to defaultField. Sort fields reach the query verbatim, so only
// whitelisted column names are accepted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// ItemSortFields contains allowed sort fields for inventory items
var ItemSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"barcode":    true,
	"quantity":   true,
	"room_id":    true,
}

// AuditSortFields contains allowed sort fields for audit entries
var AuditSortFields = map[string]bool{
	"id":          true,
	"recorded_at": true,
	"action":      true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"total_amount": true,
	"status":       true,
}
