package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isoko-app/isoko-api/internal/config"
	"github.com/isoko-app/isoko-api/internal/geo"
	"github.com/isoko-app/isoko-api/internal/models"
	"github.com/isoko-app/isoko-api/internal/utils"
)

// productSortFields whitelists the API-facing sort fields for product
// listings. Unknown or empty values silently fall back to name ascending.
var productSortFields = map[string]bool{
	"name":           true,
	"price":          true,
	"quantity":       true,
	"itemsPerPacket": true,
}

// ProductDiscoveryService lists a business's products with derived
// packet/pricing breakdowns.
type ProductDiscoveryService struct {
	businesses BusinessStore
	products   ProductStore
	cfg        config.DiscoveryConfig
}

// NewProductDiscoveryService constructs a ProductDiscoveryService.
func NewProductDiscoveryService(businesses BusinessStore, products ProductStore, cfg config.DiscoveryConfig) *ProductDiscoveryService {
	return &ProductDiscoveryService{businesses: businesses, products: products, cfg: cfg}
}

// ListForBusiness returns a store-paginated page of a business's products.
// The sort field is validated against the whitelist (unknown values fall
// back to name) and an unknown sort direction falls back to ascending. When
// the page carries a search term it is applied as a case-insensitive
// substring match on the product name.
func (s *ProductDiscoveryService) ListForBusiness(ctx context.Context, businessID uuid.UUID, page models.PageRequest) (models.PageResult[models.ProductSummary], error) {
	var empty models.PageResult[models.ProductSummary]

	pageIndex, pageSize, err := pageParams(page.Skip, page.Limit, s.cfg.MaxPageLimit)
	if err != nil {
		return empty, err
	}

	business, err := s.findBusiness(ctx, businessID)
	if err != nil {
		return empty, err
	}

	sortField := page.SortField
	if !productSortFields[sortField] {
		sortField = "name"
	}
	descending := page.SortDirection == "desc"

	products, total, err := s.products.FindByBusiness(ctx, businessID, page.SearchTerm, pageIndex, pageSize, sortField, descending)
	if err != nil {
		return empty, fmt.Errorf("fetching products for business %s: %w", businessID, err)
	}

	summaries := make([]models.ProductSummary, 0, len(products))
	for i := range products {
		summaries = append(summaries, toProductSummary(&products[i], business, nil))
	}
	return newPageResult(summaries, total, page.Skip, pageSize), nil
}

// ListWithDistance behaves like ListForBusiness but stamps every product
// with the single distance between the requester and the business. All
// products of a business share one distance value; it is omitted when the
// business has no coordinates.
func (s *ProductDiscoveryService) ListWithDistance(ctx context.Context, businessID uuid.UUID, req Requester, page models.PageRequest) (models.PageResult[models.ProductSummary], error) {
	var empty models.PageResult[models.ProductSummary]

	lat, lng, err := req.Coordinate()
	if err != nil {
		return empty, err
	}
	pageIndex, pageSize, err := pageParams(page.Skip, page.Limit, s.cfg.MaxPageLimit)
	if err != nil {
		return empty, err
	}

	business, err := s.findBusiness(ctx, businessID)
	if err != nil {
		return empty, err
	}

	var distanceKm *float64
	if business.HasCoordinates() {
		d := geo.DistanceKm(lat, lng, *business.Latitude, *business.Longitude)
		distanceKm = &d
	}

	sortField := page.SortField
	if !productSortFields[sortField] {
		sortField = "name"
	}
	descending := page.SortDirection == "desc"

	products, total, err := s.products.FindByBusiness(ctx, businessID, page.SearchTerm, pageIndex, pageSize, sortField, descending)
	if err != nil {
		return empty, fmt.Errorf("fetching products for business %s: %w", businessID, err)
	}

	summaries := make([]models.ProductSummary, 0, len(products))
	for i := range products {
		summaries = append(summaries, toProductSummary(&products[i], business, distanceKm))
	}
	return newPageResult(summaries, total, page.Skip, pageSize), nil
}

func (s *ProductDiscoveryService) findBusiness(ctx context.Context, businessID uuid.UUID) (*models.Business, error) {
	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("fetching business %s: %w", businessID, err)
	}
	return business, nil
}

// toProductSummary derives the packet/pricing breakdown for one product.
// All monetary math stays in decimals end to end:
//
//	totalQuantity = packets * itemsPerPacket
//	totalPrice    = pricePerItem * totalQuantity
//	packetPrice   = pricePerItem * itemsPerPacket
//
// AdditionalUnits is always zero: the model does not track partial packets.
func toProductSummary(p *models.Product, business *models.Business, distanceKm *float64) models.ProductSummary {
	totalQuantity := p.Packets * p.ItemsPerPacket
	unitPrice := p.PricePerItem
	totalPrice := unitPrice.Mul(decimal.NewFromInt(int64(totalQuantity)))
	packetPrice := unitPrice.Mul(decimal.NewFromInt(int64(p.ItemsPerPacket)))

	summary := models.ProductSummary{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		TotalPrice:           totalPrice,
		TotalQuantity:        totalQuantity,
		Images:               []string(p.Images),
		BusinessID:           p.BusinessID,
		BusinessName:         business.Name,
		FullPacketsAvailable: p.Packets,
		AdditionalUnits:      0,
		ItemsPerPacket:       p.ItemsPerPacket,
		UnitPrice:            unitPrice,
		FulfillmentCost:      p.FulfillmentCost,
		PacketPrice:          packetPrice,
	}
	if distanceKm != nil {
		formatted := geo.FormatDistance(*distanceKm)
		summary.DistanceKm = distanceKm
		summary.FormattedDistance = &formatted
	}
	return summary
}
