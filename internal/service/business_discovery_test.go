package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isoko-app/isoko-api/internal/config"
	"github.com/isoko-app/isoko-api/internal/models"
	"github.com/isoko-app/isoko-api/internal/utils"
)

func testDiscoveryConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{
		DefaultRadiusKm:  10.0,
		MaxRadiusKm:      300.0,
		MaxScanRows:      5000,
		DefaultPageLimit: 20,
		MaxPageLimit:     100,
	}
}

func floatPtr(v float64) *float64 { return &v }

func kigaliRequester() Requester {
	return Requester{Latitude: floatPtr(-1.95), Longitude: floatPtr(30.06)}
}

func newBusinessService(businesses *fakeBusinessStore, products *fakeProductStore) *BusinessDiscoveryService {
	return NewBusinessDiscoveryService(businesses, products, newFakeCountCache(), testDiscoveryConfig())
}

func TestRequesterCoordinate(t *testing.T) {
	t.Run("missing latitude", func(t *testing.T) {
		_, _, err := Requester{Longitude: floatPtr(30.0)}.Coordinate()
		assert.ErrorIs(t, err, utils.ErrLocationRequired)
	})
	t.Run("missing longitude", func(t *testing.T) {
		_, _, err := Requester{Latitude: floatPtr(-1.9)}.Coordinate()
		assert.ErrorIs(t, err, utils.ErrLocationRequired)
	})
	t.Run("out of range", func(t *testing.T) {
		_, _, err := Requester{Latitude: floatPtr(91.0), Longitude: floatPtr(30.0)}.Coordinate()
		assert.ErrorIs(t, err, utils.ErrInvalidCoordinate)
		_, _, err = Requester{Latitude: floatPtr(0), Longitude: floatPtr(181.0)}.Coordinate()
		assert.ErrorIs(t, err, utils.ErrInvalidCoordinate)
	})
	t.Run("valid", func(t *testing.T) {
		lat, lng, err := kigaliRequester().Coordinate()
		require.NoError(t, err)
		assert.Equal(t, -1.95, lat)
		assert.Equal(t, 30.06, lng)
	})
}

func TestNearest(t *testing.T) {
	// Names are chosen so the store's name order differs from distance
	// order: the page must come back re-sorted by distance.
	far := makeBusiness("Alpha Traders", -2.60, 29.74)   // Huye, far away
	near := makeBusiness("Zulu Boutique", -1.951, 30.061) // around the corner
	mid := makeBusiness("Mango Stores", -1.96, 30.10)

	businesses := &fakeBusinessStore{businesses: []models.Business{far, near, mid}}
	svc := newBusinessService(businesses, &fakeProductStore{})

	result, err := svc.Nearest(context.Background(), kigaliRequester(), models.PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)

	require.Len(t, result.Items, 3)
	assert.Equal(t, 3, result.TotalCount)
	assert.False(t, result.HasMore)
	assert.Equal(t, "Zulu Boutique", result.Items[0].Name)
	assert.Equal(t, "Mango Stores", result.Items[1].Name)
	assert.Equal(t, "Alpha Traders", result.Items[2].Name)
	for _, item := range result.Items {
		require.NotNil(t, item.DistanceKm)
		require.NotNil(t, item.FormattedDistance)
	}
}

func TestNearest_RequiresLocation(t *testing.T) {
	svc := newBusinessService(&fakeBusinessStore{}, &fakeProductStore{})
	_, err := svc.Nearest(context.Background(), Requester{}, models.PageRequest{Skip: 0, Limit: 10})
	assert.ErrorIs(t, err, utils.ErrLocationRequired)
}

func TestWithinRadius(t *testing.T) {
	a := makeBusiness("A Store", -1.95, 30.06)
	b := makeBusiness("B Store", -1.96, 30.10)
	farAway := makeBusiness("C Store", -2.60, 29.74)
	noCoords := makeBusinessNoCoords("D Store")

	businesses := &fakeBusinessStore{businesses: []models.Business{farAway, b, a, noCoords}}
	svc := newBusinessService(businesses, &fakeProductStore{})

	result, err := svc.WithinRadius(context.Background(), kigaliRequester(), models.PageRequest{
		Skip: 0, Limit: 10, RadiusKm: floatPtr(5.0),
	})
	require.NoError(t, err)

	// A and B are inside 5km, C is ~100km out, D has no coordinates.
	require.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, "A Store", result.Items[0].Name)
	assert.Equal(t, "B Store", result.Items[1].Name)
	assert.InDelta(t, 0.0, *result.Items[0].DistanceKm, 0.01)

	for _, item := range result.Items {
		require.NotNil(t, item.DistanceKm)
		assert.LessOrEqual(t, *item.DistanceKm, 5.0)
	}
}

func TestWithinRadius_GlobalSortAndManualPagination(t *testing.T) {
	// 15 businesses strung out along a meridian, each a bit farther away.
	var all []models.Business
	for i := 0; i < 15; i++ {
		all = append(all, makeBusiness(string(rune('A'+i))+" Store", -1.95-float64(i)*0.01, 30.06))
	}
	businesses := &fakeBusinessStore{businesses: all}
	svc := newBusinessService(businesses, &fakeProductStore{})

	result, err := svc.WithinRadius(context.Background(), kigaliRequester(), models.PageRequest{
		Skip: 10, Limit: 10, RadiusKm: floatPtr(100.0),
	})
	require.NoError(t, err)

	// skip=10, limit=10 over 15 matches: final partial page of 5.
	assert.Len(t, result.Items, 5)
	assert.Equal(t, 15, result.TotalCount)
	assert.False(t, result.HasMore)

	prev := -1.0
	for _, item := range result.Items {
		require.NotNil(t, item.DistanceKm)
		assert.GreaterOrEqual(t, *item.DistanceKm, prev)
		prev = *item.DistanceKm
	}
}

func TestWithinRadius_DefaultAndInvalidRadius(t *testing.T) {
	inside := makeBusiness("Inside", -1.951, 30.061)
	outside := makeBusiness("Outside", -2.10, 30.06) // ~17km south
	businesses := &fakeBusinessStore{businesses: []models.Business{inside, outside}}
	svc := newBusinessService(businesses, &fakeProductStore{})

	// No radius given: the 10km default applies.
	result, err := svc.WithinRadius(context.Background(), kigaliRequester(), models.PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Inside", result.Items[0].Name)

	_, err = svc.WithinRadius(context.Background(), kigaliRequester(), models.PageRequest{
		Skip: 0, Limit: 10, RadiusKm: floatPtr(-1.0),
	})
	assert.ErrorIs(t, err, utils.ErrInvalidRadius)

	_, err = svc.WithinRadius(context.Background(), kigaliRequester(), models.PageRequest{
		Skip: 0, Limit: 10, RadiusKm: floatPtr(10000.0),
	})
	assert.ErrorIs(t, err, utils.ErrInvalidRadius)
}

func TestWithinRadius_ScanBudget(t *testing.T) {
	var all []models.Business
	for i := 0; i < 6; i++ {
		all = append(all, makeBusiness(string(rune('A'+i)), -1.95, 30.06))
	}
	businesses := &fakeBusinessStore{businesses: all}

	cfg := testDiscoveryConfig()
	cfg.MaxScanRows = 5
	svc := NewBusinessDiscoveryService(businesses, &fakeProductStore{}, nil, cfg)

	_, err := svc.WithinRadius(context.Background(), kigaliRequester(), models.PageRequest{Skip: 0, Limit: 10})
	assert.ErrorIs(t, err, utils.ErrScanLimitExceeded)
}

func TestByRegion(t *testing.T) {
	b1 := makeBusinessNoCoords("Kimironko Shop")
	b1.District = "Gasabo"
	b2 := makeBusiness("Remera Traders", -1.956, 30.11)
	b2.District = "Gasabo"
	other := makeBusinessNoCoords("Huye Crafts")
	other.District = "Huye"

	businesses := &fakeBusinessStore{businesses: []models.Business{b2, other, b1}}
	svc := newBusinessService(businesses, &fakeProductStore{})

	filter := ResolveFilter(DiscoveryFilters{District: "gasabo"})
	result, err := svc.ByRegion(context.Background(), kigaliRequester(), filter, models.PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)

	// Name-ascending order, case-insensitive region match, and distance
	// only on the business that has coordinates.
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Kimironko Shop", result.Items[0].Name)
	assert.Equal(t, "Remera Traders", result.Items[1].Name)
	assert.Nil(t, result.Items[0].DistanceKm)
	assert.NotNil(t, result.Items[1].DistanceKm)
}

func TestByRegion_RequiresRegionFilter(t *testing.T) {
	svc := newBusinessService(&fakeBusinessStore{}, &fakeProductStore{})
	_, err := svc.ByRegion(context.Background(), kigaliRequester(), ResolveFilter(DiscoveryFilters{}), models.PageRequest{Skip: 0, Limit: 10})
	assert.ErrorIs(t, err, utils.ErrFilterRequired)
}

func TestSearchByProductName(t *testing.T) {
	withCoords := makeBusiness("Fresh Foods", -1.96, 30.10)
	closer := makeBusiness("Corner Market", -1.951, 30.061)
	noCoords := makeBusinessNoCoords("Hidden Depot")

	products := &fakeProductStore{products: []models.Product{
		makeProduct(withCoords.ID, "Banana crate", 500, 3, 12),
		makeProduct(closer.ID, "Banana bundle", 400, 2, 10),
		makeProduct(noCoords.ID, "Banana box", 450, 1, 6),
		makeProduct(withCoords.ID, "Mango crate", 700, 2, 8),
	}}
	businesses := &fakeBusinessStore{businesses: []models.Business{withCoords, closer, noCoords}}
	svc := newBusinessService(businesses, products)

	result, err := svc.SearchByProductName(context.Background(), kigaliRequester(), "banana", models.PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)

	// Hidden Depot matches but has no coordinates, so it is excluded from
	// the distance-ranked result.
	require.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, "Corner Market", result.Items[0].Name)
	assert.Equal(t, "Fresh Foods", result.Items[1].Name)
}

func TestSearchByProductName_NoMatches(t *testing.T) {
	svc := newBusinessService(&fakeBusinessStore{}, &fakeProductStore{})
	result, err := svc.SearchByProductName(context.Background(), kigaliRequester(), "nothing", models.PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalCount)
	assert.False(t, result.HasMore)
}

func TestSearchByNameAndRegion(t *testing.T) {
	b := makeBusiness("Kivu Coffee", -1.95, 30.06)
	b.Village = "Rugando"
	b.Province = "Kigali"
	businesses := &fakeBusinessStore{businesses: []models.Business{b}}
	svc := newBusinessService(businesses, &fakeProductStore{})

	t.Run("village and province resolve to village only", func(t *testing.T) {
		_, err := svc.SearchByNameAndRegion(context.Background(), kigaliRequester(), DiscoveryFilters{
			Village: "Rugando", Province: "Kigali",
		}, models.PageRequest{Skip: 0, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, "village", businesses.lastRegionField)
	})

	t.Run("name rides along with the region predicate", func(t *testing.T) {
		result, err := svc.SearchByNameAndRegion(context.Background(), kigaliRequester(), DiscoveryFilters{
			Village: "Rugando", Name: "coffee",
		}, models.PageRequest{Skip: 0, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, "coffee", businesses.lastNameQuery)
		require.Len(t, result.Items, 1)
	})

	t.Run("falls back to name only", func(t *testing.T) {
		result, err := svc.SearchByNameAndRegion(context.Background(), kigaliRequester(), DiscoveryFilters{
			Name: "kivu",
		}, models.PageRequest{Skip: 0, Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
	})

	t.Run("no filter at all is a validation error", func(t *testing.T) {
		_, err := svc.SearchByNameAndRegion(context.Background(), kigaliRequester(), DiscoveryFilters{}, models.PageRequest{Skip: 0, Limit: 10})
		assert.ErrorIs(t, err, utils.ErrFilterRequired)
	})
}

func TestPublicDetails(t *testing.T) {
	b := makeBusiness("Kivu Coffee", -1.95, 30.06)
	products := &fakeProductStore{products: []models.Product{
		makeProduct(b.ID, "Beans", 500, 3, 12),
		makeProduct(b.ID, "Grounds", 600, 1, 6),
	}}
	svc := newBusinessService(&fakeBusinessStore{businesses: []models.Business{b}}, products)

	summary, err := svc.PublicDetails(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kivu Coffee", summary.Name)
	assert.Equal(t, 2, summary.ProductCount)
	// No requester position: distance stays unset even with coordinates.
	assert.Nil(t, summary.DistanceKm)
	assert.Nil(t, summary.FormattedDistance)
}

func TestPublicDetails_NotFound(t *testing.T) {
	svc := newBusinessService(&fakeBusinessStore{}, &fakeProductStore{})
	_, err := svc.PublicDetails(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrBusinessNotFound)
}

func TestProductCount_Caching(t *testing.T) {
	b := makeBusiness("Kivu Coffee", -1.95, 30.06)
	products := &fakeProductStore{products: []models.Product{
		makeProduct(b.ID, "Beans", 500, 3, 12),
	}}
	counts := newFakeCountCache()
	svc := NewBusinessDiscoveryService(&fakeBusinessStore{businesses: []models.Business{b}}, products, counts, testDiscoveryConfig())

	_, err := svc.PublicDetails(context.Background(), b.ID)
	require.NoError(t, err)
	_, err = svc.PublicDetails(context.Background(), b.ID)
	require.NoError(t, err)

	// Second lookup is served from the cache.
	assert.Equal(t, 1, products.countCalls)
	assert.Equal(t, 1, counts.counts[b.ID])
}

func TestNearest_InvalidPagination(t *testing.T) {
	svc := newBusinessService(&fakeBusinessStore{}, &fakeProductStore{})

	_, err := svc.Nearest(context.Background(), kigaliRequester(), models.PageRequest{Skip: 0, Limit: 0})
	assert.ErrorIs(t, err, utils.ErrInvalidPagination)

	_, err = svc.Nearest(context.Background(), kigaliRequester(), models.PageRequest{Skip: -5, Limit: 10})
	assert.ErrorIs(t, err, utils.ErrInvalidPagination)
}
