package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/isoko-app/isoko-api/internal/models"
)

// BusinessStore is the entity-store contract the discovery engines consume
// for business records. Paged methods take a zero-based page index and
// return the page plus the authoritative total count.
type BusinessStore interface {
	FindWithCoordinates(ctx context.Context, pageIndex, pageSize int) ([]models.Business, int, error)
	// FindAllWithCoordinates returns up to maxRows+1 rows so callers can
	// detect that the candidate set exceeds their scan budget.
	FindAllWithCoordinates(ctx context.Context, maxRows int) ([]models.Business, error)
	FindByRegionField(ctx context.Context, field, value string, pageIndex, pageSize int) ([]models.Business, int, error)
	FindByNameSubstring(ctx context.Context, value string, pageIndex, pageSize int) ([]models.Business, int, error)
	FindByNameSubstringAndRegion(ctx context.Context, name, field, value string, pageIndex, pageSize int) ([]models.Business, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Business, error)
}

// ProductStore is the entity-store contract for product records.
type ProductStore interface {
	FindByBusiness(ctx context.Context, businessID uuid.UUID, search string, pageIndex, pageSize int, sortField string, descending bool) ([]models.Product, int, error)
	CountForBusiness(ctx context.Context, businessID uuid.UUID) (int, error)
	FindBusinessIDsByProductName(ctx context.Context, value string) ([]uuid.UUID, error)
}

// ClientStore is the contract for looking up registered API consumers.
type ClientStore interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Client, error)
}

// CountCache caches per-business product counts. A nil CountCache is valid
// and simply disables caching.
type CountCache interface {
	Get(ctx context.Context, businessID uuid.UUID) (count int, found bool, err error)
	Set(ctx context.Context, businessID uuid.UUID, count int) error
}
