package services

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
)

// FallbackSelector searches a product family's prioritized manufacturer
// list for the next candidate that passes the FULL availability check,
// capacity included. It is invoked when a resolved candidate fails
// availability.
type FallbackSelector struct {
	catalog      catalog.Reader
	availability *AvailabilityChecker
}

// NewFallbackSelector creates a new fallback selector
func NewFallbackSelector(catalogReader catalog.Reader, availability *AvailabilityChecker) *FallbackSelector {
	return &FallbackSelector{
		catalog:      catalogReader,
		availability: availability,
	}
}

// FindFallback returns the first available family manufacturer, skipping
// the excluded one (the candidate that just failed). A nil id with the
// exhaustion reason means no fallback exists.
func (s *FallbackSelector) FindFallback(ctx context.Context, familyID uint, exclude *uint) (*uint, string, error) {
	entries, err := s.catalog.ListFamilyManufacturers(ctx, familyID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list manufacturers for family %d: %w", familyID, err)
	}

	for _, entry := range entries {
		if exclude != nil && entry.ManufacturerID == *exclude {
			continue
		}

		m, err := s.catalog.FindManufacturer(ctx, entry.ManufacturerID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to look up manufacturer %d: %w", entry.ManufacturerID, err)
		}
		if m == nil || !m.IsActive || !m.AcceptingNewOrders {
			continue
		}

		avail, err := s.availability.Check(ctx, entry.ManufacturerID)
		if err != nil {
			return nil, "", err
		}
		if avail.Available {
			id := entry.ManufacturerID
			return &id, fmt.Sprintf("Fallback to %s (priority %d)", m.Name, entry.Priority), nil
		}
	}

	return nil, "No fallback manufacturers available", nil
}
