package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
)

// MockCatalogReader is an in-memory test double for catalog.Reader
type MockCatalogReader struct {
	mu sync.RWMutex

	variants            map[uint]*catalog.ProductVariant
	products            map[uint]*catalog.Product
	categories          map[uint]*catalog.Category
	families            map[uint]*catalog.ProductFamily
	familyManufacturers map[uint][]catalog.FamilyManufacturer
	manufacturers       map[uint]*catalog.Manufacturer
}

// NewMockCatalogReader creates an empty mock catalog
func NewMockCatalogReader() *MockCatalogReader {
	return &MockCatalogReader{
		variants:            make(map[uint]*catalog.ProductVariant),
		products:            make(map[uint]*catalog.Product),
		categories:          make(map[uint]*catalog.Category),
		families:            make(map[uint]*catalog.ProductFamily),
		familyManufacturers: make(map[uint][]catalog.FamilyManufacturer),
		manufacturers:       make(map[uint]*catalog.Manufacturer),
	}
}

// AddVariant registers a variant
func (m *MockCatalogReader) AddVariant(v catalog.ProductVariant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variants[v.ID] = &v
}

// AddProduct registers a product
func (m *MockCatalogReader) AddProduct(p catalog.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = &p
}

// AddCategory registers a category
func (m *MockCatalogReader) AddCategory(c catalog.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = &c
}

// AddFamily registers a product family
func (m *MockCatalogReader) AddFamily(f catalog.ProductFamily) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.families[f.ID] = &f
}

// AddFamilyManufacturer registers a priority-list entry
func (m *MockCatalogReader) AddFamilyManufacturer(fm catalog.FamilyManufacturer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.familyManufacturers[fm.ProductFamilyID] = append(m.familyManufacturers[fm.ProductFamilyID], fm)
}

// AddManufacturer registers a manufacturer
func (m *MockCatalogReader) AddManufacturer(mf catalog.Manufacturer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manufacturers[mf.ID] = &mf
}

func (m *MockCatalogReader) FindVariant(ctx context.Context, id uint) (*catalog.ProductVariant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.variants[id], nil
}

func (m *MockCatalogReader) FindProduct(ctx context.Context, id uint) (*catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.products[id], nil
}

func (m *MockCatalogReader) FindCategory(ctx context.Context, id uint) (*catalog.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.categories[id], nil
}

func (m *MockCatalogReader) FindFamily(ctx context.Context, id uint) (*catalog.ProductFamily, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.families[id], nil
}

// ListFamilyManufacturers returns active entries ordered by priority
func (m *MockCatalogReader) ListFamilyManufacturers(ctx context.Context, familyID uint) ([]*catalog.FamilyManufacturer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []*catalog.FamilyManufacturer
	for _, fm := range m.familyManufacturers[familyID] {
		if fm.IsActive {
			entry := fm
			active = append(active, &entry)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})
	return active, nil
}

func (m *MockCatalogReader) FindManufacturer(ctx context.Context, id uint) (*catalog.Manufacturer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.manufacturers[id], nil
}
