package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":          true,
	"code":        true,
	"name":        true,
	"category":    true,
	"quantity":    true,
	"expiry_date": true,
	"created_at":  true,
	"updated_at":  true,
}

// PatientSortFields contains allowed sort fields for patients
var PatientSortFields = map[string]bool{
	"id":            true,
	"full_name":     true,
	"date_of_birth": true,
	"created_at":    true,
	"updated_at":    true,
}

// PrescriptionSortFields contains allowed sort fields for prescriptions
var PrescriptionSortFields = map[string]bool{
	"id":           true,
	"status":       true,
	"created_at":   true,
	"updated_at":   true,
	"completed_at": true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":         true,
	"quantity":   true,
	"created_at": true,
}
