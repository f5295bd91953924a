package services

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// ManufacturerResolver walks the override hierarchy for a product variant:
// product-level override, then the product family (directly on the product
// or inherited from its category) via family default and prioritized
// manufacturer list. First match wins. The resolver performs no full
// availability check; validating the candidate is the caller's job.
type ManufacturerResolver struct {
	catalog catalog.Reader
}

// NewManufacturerResolver creates a new resolver over the catalog
func NewManufacturerResolver(catalogReader catalog.Reader) *ManufacturerResolver {
	return &ManufacturerResolver{catalog: catalogReader}
}

// Resolve produces a candidate manufacturer for a variant plus the
// reasoning trail. A nil manufacturer id means no candidate exists; the
// trail says why.
func (r *ManufacturerResolver) Resolve(ctx context.Context, variantID uint) (routing.Resolution, error) {
	variant, err := r.catalog.FindVariant(ctx, variantID)
	if err != nil {
		return routing.Resolution{}, fmt.Errorf("failed to look up variant %d: %w", variantID, err)
	}
	if variant == nil {
		return routing.Resolution{
			Trail: routing.NewTrail(routing.StageResolution, "variant_missing", "Variant not found"),
		}, nil
	}

	product, err := r.catalog.FindProduct(ctx, variant.ProductID)
	if err != nil {
		return routing.Resolution{}, fmt.Errorf("failed to look up product %d: %w", variant.ProductID, err)
	}
	if product == nil {
		return routing.Resolution{
			Trail: routing.NewTrail(routing.StageResolution, "product_missing",
				fmt.Sprintf("Product not found for variant %s", variant.SKU)),
		}, nil
	}

	// Product-level override is absolute: it is never checked against the
	// family's manufacturer list.
	if product.DefaultManufacturerID != nil {
		return routing.Resolution{
			ManufacturerID:  product.DefaultManufacturerID,
			ProductID:       &product.ID,
			ProductFamilyID: product.ProductFamilyID,
			Trail: routing.NewTrail(routing.StageResolution, "product_override",
				fmt.Sprintf("Product-level override: %s routes to its default manufacturer", product.Name)),
		}, nil
	}

	trail := routing.ReasonTrail{}
	familyID := product.ProductFamilyID

	// Category inheritance applies only when the product carries no family
	// of its own. The adopted family is not persisted back.
	if familyID == nil {
		category, err := r.catalog.FindCategory(ctx, product.CategoryID)
		if err != nil {
			return routing.Resolution{}, fmt.Errorf("failed to look up category %d: %w", product.CategoryID, err)
		}
		if category != nil && category.ProductFamilyID != nil {
			familyID = category.ProductFamilyID
			trail = trail.With(routing.StageResolution, "category_inherited",
				fmt.Sprintf("Product family inherited from category %s", category.Name))
		}
	}

	if familyID == nil {
		return routing.Resolution{
			ProductID: &product.ID,
			Trail:     trail.With(routing.StageResolution, "no_family", "Product has no product family assigned"),
		}, nil
	}

	family, err := r.catalog.FindFamily(ctx, *familyID)
	if err != nil {
		return routing.Resolution{}, fmt.Errorf("failed to look up product family %d: %w", *familyID, err)
	}
	if family == nil {
		return routing.Resolution{
			ProductID:       &product.ID,
			ProductFamilyID: familyID,
			Trail:           trail.With(routing.StageResolution, "family_missing", "Product family not found"),
		}, nil
	}

	if family.DefaultManufacturerID != nil {
		return routing.Resolution{
			ManufacturerID:  family.DefaultManufacturerID,
			ProductID:       &product.ID,
			ProductFamilyID: familyID,
			Trail: trail.With(routing.StageResolution, "family_default",
				fmt.Sprintf("Product family default: %s routes to its default manufacturer", family.Name)),
		}, nil
	}

	selected, step, err := r.selectFromFamilyList(ctx, family)
	if err != nil {
		return routing.Resolution{}, err
	}

	return routing.Resolution{
		ManufacturerID:  selected,
		ProductID:       &product.ID,
		ProductFamilyID: familyID,
		Trail:           append(trail, step),
	}, nil
}

// selectFromFamilyList walks the family's active entries by ascending
// priority and picks the first manufacturer whose active and
// accepting-new-orders flags both pass. Capacity is deliberately not
// consulted at this stage.
func (r *ManufacturerResolver) selectFromFamilyList(ctx context.Context, family *catalog.ProductFamily) (*uint, routing.ReasonStep, error) {
	entries, err := r.catalog.ListFamilyManufacturers(ctx, family.ID)
	if err != nil {
		return nil, routing.ReasonStep{}, fmt.Errorf("failed to list manufacturers for family %d: %w", family.ID, err)
	}

	for _, entry := range entries {
		m, err := r.catalog.FindManufacturer(ctx, entry.ManufacturerID)
		if err != nil {
			return nil, routing.ReasonStep{}, fmt.Errorf("failed to look up manufacturer %d: %w", entry.ManufacturerID, err)
		}
		if m == nil || !m.IsActive || !m.AcceptingNewOrders {
			continue
		}

		id := entry.ManufacturerID
		if entry.Priority == 1 {
			return &id, routing.ReasonStep{
				Stage:   routing.StageResolution,
				Outcome: "primary",
				Detail:  fmt.Sprintf("Primary manufacturer for product family %s", family.Name),
			}, nil
		}
		return &id, routing.ReasonStep{
			Stage:   routing.StageResolution,
			Outcome: "list_fallback",
			Detail:  fmt.Sprintf("Fallback (priority %d) for product family %s", entry.Priority, family.Name),
		}, nil
	}

	return nil, routing.ReasonStep{
		Stage:   routing.StageResolution,
		Outcome: "family_exhausted",
		Detail:  "No available manufacturers for product family",
	}, nil
}
