package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isoko-app/isoko-api/internal/models"
)

// fakeBusinessStore is a slice-backed BusinessStore that mirrors the SQL
// contract: name-ordered results, zero-based page index, authoritative
// totals.
type fakeBusinessStore struct {
	businesses []models.Business
	err        error

	lastRegionField string
	lastNameQuery   string
}

func (f *fakeBusinessStore) sortedByName(in []models.Business) []models.Business {
	out := append([]models.Business(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeBusinessStore) page(in []models.Business, pageIndex, pageSize int) []models.Business {
	start := pageIndex * pageSize
	if start >= len(in) {
		return nil
	}
	end := start + pageSize
	if end > len(in) {
		end = len(in)
	}
	return in[start:end]
}

func (f *fakeBusinessStore) withCoordinates() []models.Business {
	var out []models.Business
	for _, b := range f.businesses {
		if b.HasCoordinates() {
			out = append(out, b)
		}
	}
	return f.sortedByName(out)
}

func (f *fakeBusinessStore) FindWithCoordinates(_ context.Context, pageIndex, pageSize int) ([]models.Business, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	all := f.withCoordinates()
	return f.page(all, pageIndex, pageSize), len(all), nil
}

func (f *fakeBusinessStore) FindAllWithCoordinates(_ context.Context, maxRows int) ([]models.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	all := f.withCoordinates()
	if len(all) > maxRows+1 {
		all = all[:maxRows+1]
	}
	return all, nil
}

func (f *fakeBusinessStore) regionValue(b *models.Business, field string) string {
	switch field {
	case "province":
		return b.Province
	case "district":
		return b.District
	case "sector":
		return b.Sector
	case "cell":
		return b.Cell
	case "village":
		return b.Village
	}
	return ""
}

func (f *fakeBusinessStore) FindByRegionField(_ context.Context, field, value string, pageIndex, pageSize int) ([]models.Business, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.lastRegionField = field
	var matched []models.Business
	for _, b := range f.businesses {
		if strings.EqualFold(f.regionValue(&b, field), value) {
			matched = append(matched, b)
		}
	}
	matched = f.sortedByName(matched)
	return f.page(matched, pageIndex, pageSize), len(matched), nil
}

func (f *fakeBusinessStore) FindByNameSubstring(_ context.Context, value string, pageIndex, pageSize int) ([]models.Business, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.lastNameQuery = value
	var matched []models.Business
	for _, b := range f.businesses {
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(value)) {
			matched = append(matched, b)
		}
	}
	matched = f.sortedByName(matched)
	return f.page(matched, pageIndex, pageSize), len(matched), nil
}

func (f *fakeBusinessStore) FindByNameSubstringAndRegion(_ context.Context, name, field, value string, pageIndex, pageSize int) ([]models.Business, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.lastRegionField = field
	f.lastNameQuery = name
	var matched []models.Business
	for _, b := range f.businesses {
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(name)) &&
			strings.EqualFold(f.regionValue(&b, field), value) {
			matched = append(matched, b)
		}
	}
	matched = f.sortedByName(matched)
	return f.page(matched, pageIndex, pageSize), len(matched), nil
}

func (f *fakeBusinessStore) FindByID(_ context.Context, id uuid.UUID) (*models.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.businesses {
		if f.businesses[i].ID == id {
			return &f.businesses[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBusinessStore) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var matched []models.Business
	for _, b := range f.businesses {
		if wanted[b.ID] {
			matched = append(matched, b)
		}
	}
	return f.sortedByName(matched), nil
}

// fakeProductStore is a slice-backed ProductStore.
type fakeProductStore struct {
	products []models.Product
	err      error

	lastSortField  string
	lastDescending bool
	countCalls     int
}

func (f *fakeProductStore) FindByBusiness(_ context.Context, businessID uuid.UUID, search string, pageIndex, pageSize int, sortField string, descending bool) ([]models.Product, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.lastSortField = sortField
	f.lastDescending = descending

	var matched []models.Product
	for _, p := range f.products {
		if p.BusinessID != businessID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, p)
	}

	less := func(a, b *models.Product) bool { return a.Name < b.Name }
	switch sortField {
	case "price":
		less = func(a, b *models.Product) bool { return a.PricePerItem.LessThan(b.PricePerItem) }
	case "quantity":
		less = func(a, b *models.Product) bool { return a.Packets < b.Packets }
	case "itemsPerPacket":
		less = func(a, b *models.Product) bool { return a.ItemsPerPacket < b.ItemsPerPacket }
	}
	sort.Slice(matched, func(i, j int) bool {
		if descending {
			return less(&matched[j], &matched[i])
		}
		return less(&matched[i], &matched[j])
	})

	total := len(matched)
	start := pageIndex * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeProductStore) CountForBusiness(_ context.Context, businessID uuid.UUID) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.countCalls++
	n := 0
	for _, p := range f.products {
		if p.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductStore) FindBusinessIDsByProductName(_ context.Context, value string) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(value)) && !seen[p.BusinessID] {
			seen[p.BusinessID] = true
			ids = append(ids, p.BusinessID)
		}
	}
	return ids, nil
}

// fakeCountCache is a map-backed CountCache.
type fakeCountCache struct {
	counts map[uuid.UUID]int
}

func newFakeCountCache() *fakeCountCache {
	return &fakeCountCache{counts: make(map[uuid.UUID]int)}
}

func (f *fakeCountCache) Get(_ context.Context, businessID uuid.UUID) (int, bool, error) {
	n, ok := f.counts[businessID]
	return n, ok, nil
}

func (f *fakeCountCache) Set(_ context.Context, businessID uuid.UUID, count int) error {
	f.counts[businessID] = count
	return nil
}

func makeBusiness(name string, lat, lng float64) models.Business {
	return models.Business{
		ID:        uuid.New(),
		Name:      name,
		Latitude:  &lat,
		Longitude: &lng,
	}
}

func makeBusinessNoCoords(name string) models.Business {
	return models.Business{ID: uuid.New(), Name: name}
}

func makeProduct(businessID uuid.UUID, name string, pricePerItem int64, packets, itemsPerPacket int) models.Product {
	return models.Product{
		ID:             uuid.New(),
		BusinessID:     businessID,
		Name:           name,
		PricePerItem:   decimal.NewFromInt(pricePerItem),
		Packets:        packets,
		ItemsPerPacket: itemsPerPacket,
	}
}
