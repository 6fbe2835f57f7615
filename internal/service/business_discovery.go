package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isoko-app/isoko-api/internal/config"
	"github.com/isoko-app/isoko-api/internal/geo"
	"github.com/isoko-app/isoko-api/internal/models"
	"github.com/isoko-app/isoko-api/internal/utils"
)

// Requester carries the caller's optional coordinates. Operations that rank
// by proximity require both values; PublicDetails does not.
type Requester struct {
	Latitude  *float64
	Longitude *float64
}

// Coordinate validates and unwraps the requester position. Missing either
// value is a "location required" validation error; out-of-range values are
// rejected before any distance math runs.
func (r Requester) Coordinate() (lat, lng float64, err error) {
	if r.Latitude == nil || r.Longitude == nil {
		return 0, 0, utils.ErrLocationRequired
	}
	lat, lng = *r.Latitude, *r.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, utils.ErrInvalidCoordinate
	}
	return lat, lng, nil
}

// BusinessDiscoveryService ranks and paginates businesses by proximity,
// region filters and free-text search. It is read-only and stateless across
// requests; every call goes straight to the entity store.
type BusinessDiscoveryService struct {
	businesses BusinessStore
	products   ProductStore
	counts     CountCache
	cfg        config.DiscoveryConfig
}

// NewBusinessDiscoveryService constructs a BusinessDiscoveryService.
// counts may be nil to disable product-count caching.
func NewBusinessDiscoveryService(businesses BusinessStore, products ProductStore, counts CountCache, cfg config.DiscoveryConfig) *BusinessDiscoveryService {
	return &BusinessDiscoveryService{businesses: businesses, products: products, counts: counts, cfg: cfg}
}

// Nearest returns a store-paginated page of businesses with coordinates,
// re-sorted by distance ascending within the page. Because pagination
// happens at the store before the distance sort, proximity order is only
// guaranteed within a page, not globally; WithinRadius is the globally
// ordered operation.
func (s *BusinessDiscoveryService) Nearest(ctx context.Context, req Requester, page models.PageRequest) (models.PageResult[models.BusinessSummary], error) {
	var empty models.PageResult[models.BusinessSummary]

	lat, lng, err := req.Coordinate()
	if err != nil {
		return empty, err
	}
	pageIndex, pageSize, err := pageParams(page.Skip, page.Limit, s.cfg.MaxPageLimit)
	if err != nil {
		return empty, err
	}

	businesses, total, err := s.businesses.FindWithCoordinates(ctx, pageIndex, pageSize)
	if err != nil {
		return empty, fmt.Errorf("fetching businesses with coordinates: %w", err)
	}

	summaries := s.toSummaries(ctx, businesses, &lat, &lng)
	sortByDistance(summaries)

	return newPageResult(summaries, total, page.Skip, pageSize), nil
}

// WithinRadius returns every business whose distance from the requester is
// at most radiusKm (falling back to the configured default when the request
// omits it), globally sorted ascending by distance and manually paginated.
// totalCount reflects the post-filter result set.
func (s *BusinessDiscoveryService) WithinRadius(ctx context.Context, req Requester, page models.PageRequest) (models.PageResult[models.BusinessSummary], error) {
	var empty models.PageResult[models.BusinessSummary]

	lat, lng, err := req.Coordinate()
	if err != nil {
		return empty, err
	}
	_, pageSize, err := pageParams(page.Skip, page.Limit, s.cfg.MaxPageLimit)
	if err != nil {
		return empty, err
	}

	radius := s.cfg.DefaultRadiusKm
	if page.RadiusKm != nil {
		radius = *page.RadiusKm
	}
	if radius <= 0 || radius > s.cfg.MaxRadiusKm {
		return empty, utils.ErrInvalidRadius
	}

	candidates, err := s.fetchAllWithCoordinates(ctx)
	if err != nil {
		return empty, err
	}

	var matched []models.BusinessSummary
	for i := range candidates {
		b := &candidates[i]
		d := geo.DistanceKm(lat, lng, *b.Latitude, *b.Longitude)
		if d <= radius {
			matched = append(matched, s.toSummary(ctx, b, &lat, &lng))
		}
	}
	sortByDistance(matched)

	items := slicePage(matched, page.Skip, pageSize)
	return newPageResult(items, len(matched), page.Skip, pageSize), nil
}

// ByRegion returns a store-paginated page of businesses matching one region
// label exactly (case-insensitive), ordered by business name ascending. The
// matched businesses may lack coordinates entirely; distance fields are
// filled in only where both sides have them.
func (s *BusinessDiscoveryService) ByRegion(ctx context.Context, req Requester, filter RegionFilter, page models.PageRequest) (models.PageResult[models.BusinessSummary], error) {
	var empty models.PageResult[models.BusinessSummary]

	lat, lng, err := req.Coordinate()
	if err != nil {
		return empty, err
	}
	pageIndex, pageSize, err := pageParams(page.Skip, page.Limit, s.cfg.MaxPageLimit)
	if err != nil {
		return empty, err
	}
	if filter.Kind == FilterNone || filter.Kind == FilterNameOnly {
		return empty, utils.ErrFilterRequired
	}

	businesses, total, err := s.businesses.FindByRegionField(ctx, filter.Field, filter.Value, pageIndex, pageSize)
	if err != nil {
		return empty, fmt.Errorf("fetching businesses by %s: %w", filter.Field, err)
	}

	summaries := s.toSummaries(ctx, businesses, &lat, &lng)
	return newPageResult(summaries, total, page.Skip, pageSize), nil
}

// SearchByName returns a store-paginated page of businesses whose name
// contains the substring, case-insensitive, ordered by name ascending.
func (s *BusinessDiscoveryService) SearchByName(ctx context.Context, req Requester, substring string, page models.PageRequest) (models.PageResult[models.BusinessSummary], error) {
	var empty models.PageResult[models.BusinessSummary]

	lat, lng, err := req.Coordinate()
	if err != nil {
		return empty, err
	}
	pageIndex, pageSize, err := pageParams(page.Skip, page.Limit, s.cfg.MaxPageLimit)
	if err != nil {
		return empty, err
	}

	businesses, total, err := s.businesses.FindByNameSubstring(ctx, substring, pageIndex, pageSize)
	if err != nil {
		return empty, fmt.Errorf("searching businesses by name: %w", err)
	}

	summaries := s.toSummaries(ctx, businesses, &lat, &lng)
	return newPageResult(summaries, total, page.Skip, pageSize), nil
}

// SearchByProductName resolves the distinct businesses owning a product
// whose name contains the substring, then distance-sorts and manually
// paginates them. Businesses without coordinates are excluded because the
// result is ranked by distance. Zero matches is a success with an empty page.
func (s *BusinessDiscoveryService) SearchByProductName(ctx context.Context, req Requester, substring string, page models.PageRequest) (models.PageResult[models.BusinessSummary], error) {
	var empty models.PageResult[models.BusinessSummary]

	lat, lng, err := req.Coordinate()
	if err != nil {
		return empty, err
	}
	_, pageSize, err := pageParams(page.Skip, page.Limit, s.cfg.MaxPageLimit)
	if err != nil {
		return empty, err
	}

	ids, err := s.products.FindBusinessIDsByProductName(ctx, substring)
	if err != nil {
		return empty, fmt.Errorf("resolving businesses by product name: %w", err)
	}
	if len(ids) == 0 {
		return newPageResult([]models.BusinessSummary{}, 0, page.Skip, pageSize), nil
	}
	if len(ids) > s.cfg.MaxScanRows {
		return empty, utils.ErrScanLimitExceeded
	}

	businesses, err := s.businesses.FindByIDs(ctx, ids)
	if err != nil {
		return empty, fmt.Errorf("fetching matched businesses: %w", err)
	}

	var matched []models.BusinessSummary
	for i := range businesses {
		if !businesses[i].HasCoordinates() {
			continue
		}
		matched = append(matched, s.toSummary(ctx, &businesses[i], &lat, &lng))
	}
	sortByDistance(matched)

	items := slicePage(matched, page.Skip, pageSize)
	return newPageResult(items, len(matched), page.Skip, pageSize), nil
}

// SearchByNameAndRegion runs the single predicate resolved from the request
// filters: a region filter combined with the name substring when both are
// present, the region alone otherwise, falling back to name-only when no
// region label is set. A request with neither is a validation error.
func (s *BusinessDiscoveryService) SearchByNameAndRegion(ctx context.Context, req Requester, filters DiscoveryFilters, page models.PageRequest) (models.PageResult[models.BusinessSummary], error) {
	var empty models.PageResult[models.BusinessSummary]

	lat, lng, err := req.Coordinate()
	if err != nil {
		return empty, err
	}
	pageIndex, pageSize, err := pageParams(page.Skip, page.Limit, s.cfg.MaxPageLimit)
	if err != nil {
		return empty, err
	}

	filter := ResolveFilter(filters)

	var (
		businesses []models.Business
		total      int
	)
	switch {
	case filter.Kind == FilterNone:
		return empty, utils.ErrFilterRequired
	case filter.Kind == FilterNameOnly:
		businesses, total, err = s.businesses.FindByNameSubstring(ctx, filter.Name, pageIndex, pageSize)
	case filter.Name != "":
		businesses, total, err = s.businesses.FindByNameSubstringAndRegion(ctx, filter.Name, filter.Field, filter.Value, pageIndex, pageSize)
	default:
		businesses, total, err = s.businesses.FindByRegionField(ctx, filter.Field, filter.Value, pageIndex, pageSize)
	}
	if err != nil {
		return empty, fmt.Errorf("searching businesses (%s): %w", filter.Kind, err)
	}

	summaries := s.toSummaries(ctx, businesses, &lat, &lng)
	return newPageResult(summaries, total, page.Skip, pageSize), nil
}

// PublicDetails returns the summary of a single business without any
// distance computation. No requester coordinates are needed.
func (s *BusinessDiscoveryService) PublicDetails(ctx context.Context, id uuid.UUID) (*models.BusinessSummary, error) {
	b, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("fetching business %s: %w", id, err)
	}
	summary := s.toSummary(ctx, b, nil, nil)
	return &summary, nil
}

// fetchAllWithCoordinates loads the full candidate set for manual-mode
// pagination, failing fast when it exceeds the configured scan budget.
func (s *BusinessDiscoveryService) fetchAllWithCoordinates(ctx context.Context) ([]models.Business, error) {
	candidates, err := s.businesses.FindAllWithCoordinates(ctx, s.cfg.MaxScanRows)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate businesses: %w", err)
	}
	if len(candidates) > s.cfg.MaxScanRows {
		return nil, utils.ErrScanLimitExceeded
	}
	return candidates, nil
}

// toSummary builds the discovery DTO for one business. Distance fields are
// populated only when the requester position is given and the business has
// coordinates.
func (s *BusinessDiscoveryService) toSummary(ctx context.Context, b *models.Business, reqLat, reqLng *float64) models.BusinessSummary {
	summary := models.BusinessSummary{
		ID:           b.ID,
		Name:         b.Name,
		Location:     b.Location(),
		About:        b.About,
		WebsiteLink:  b.WebsiteLink,
		ProductCount: s.productCount(ctx, b.ID),
	}
	if reqLat != nil && reqLng != nil && b.HasCoordinates() {
		d := geo.DistanceKm(*reqLat, *reqLng, *b.Latitude, *b.Longitude)
		formatted := geo.FormatDistance(d)
		summary.DistanceKm = &d
		summary.FormattedDistance = &formatted
	}
	return summary
}

func (s *BusinessDiscoveryService) toSummaries(ctx context.Context, businesses []models.Business, reqLat, reqLng *float64) []models.BusinessSummary {
	summaries := make([]models.BusinessSummary, 0, len(businesses))
	for i := range businesses {
		summaries = append(summaries, s.toSummary(ctx, &businesses[i], reqLat, reqLng))
	}
	return summaries
}

// productCount reads the per-business product count through the cache.
// Cache failures are logged and fall back to the store; a store failure
// yields zero rather than failing the whole page.
func (s *BusinessDiscoveryService) productCount(ctx context.Context, businessID uuid.UUID) int {
	if s.counts != nil {
		if n, found, err := s.counts.Get(ctx, businessID); err == nil && found {
			return n
		} else if err != nil {
			log.Warn().Err(err).Str("business_id", businessID.String()).Msg("product count cache read failed")
		}
	}

	n, err := s.products.CountForBusiness(ctx, businessID)
	if err != nil {
		log.Warn().Err(err).Str("business_id", businessID.String()).Msg("product count query failed")
		return 0
	}
	if s.counts != nil {
		if err := s.counts.Set(ctx, businessID, n); err != nil {
			log.Warn().Err(err).Str("business_id", businessID.String()).Msg("product count cache write failed")
		}
	}
	return n
}

// sortByDistance orders summaries ascending by distance. Summaries without
// a distance (no coordinates) sort last; callers ranking by proximity are
// expected to have excluded them already.
func sortByDistance(summaries []models.BusinessSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		di, dj := summaries[i].DistanceKm, summaries[j].DistanceKm
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})
}
