package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/isoko-app/isoko-api/internal/models"
)

// regionColumns whitelists the administrative-region columns that may be
// interpolated into a query. Anything else is rejected before touching SQL.
var regionColumns = map[string]bool{
	"province": true,
	"district": true,
	"sector":   true,
	"cell":     true,
	"village":  true,
}

// BusinessRepository handles data access for businesses.
type BusinessRepository struct {
	db *sqlx.DB
}

// NewBusinessRepository creates a new BusinessRepository.
func NewBusinessRepository(db *sqlx.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

const businessColumns = `id, name, about, website_link, province, district, sector, cell, village, latitude, longitude, created_at, updated_at`

// FindWithCoordinates returns a page of businesses that have both latitude
// and longitude set, plus the total count of such businesses. Page index
// begins at 0.
func (r *BusinessRepository) FindWithCoordinates(ctx context.Context, pageIndex, pageSize int) ([]models.Business, int, error) {
	const where = `WHERE latitude IS NOT NULL AND longitude IS NOT NULL`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM businesses `+where); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + businessColumns + ` FROM businesses ` + where + `
        ORDER BY name ASC LIMIT $1 OFFSET $2`
	var businesses []models.Business
	if err := r.db.SelectContext(ctx, &businesses, query, pageSize, pageIndex*pageSize); err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

// FindAllWithCoordinates returns up to maxRows+1 businesses that have
// coordinates. Callers use the extra row to detect that the candidate set
// exceeds their scan budget.
func (r *BusinessRepository) FindAllWithCoordinates(ctx context.Context, maxRows int) ([]models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses
        WHERE latitude IS NOT NULL AND longitude IS NOT NULL
        ORDER BY name ASC LIMIT $1`
	var businesses []models.Business
	if err := r.db.SelectContext(ctx, &businesses, query, maxRows+1); err != nil {
		return nil, err
	}
	return businesses, nil
}

// FindByRegionField returns a page of businesses whose given region column
// equals value (case-insensitive), ordered by name ascending.
func (r *BusinessRepository) FindByRegionField(ctx context.Context, field, value string, pageIndex, pageSize int) ([]models.Business, int, error) {
	if !regionColumns[field] {
		return nil, 0, fmt.Errorf("unknown region column %q", field)
	}
	where := fmt.Sprintf(`WHERE LOWER(%s) = LOWER($1)`, field)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM businesses `+where, value); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + businessColumns + ` FROM businesses ` + where + `
        ORDER BY name ASC LIMIT $2 OFFSET $3`
	var businesses []models.Business
	if err := r.db.SelectContext(ctx, &businesses, query, value, pageSize, pageIndex*pageSize); err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

// FindByNameSubstring returns a page of businesses whose name contains value
// (case-insensitive), ordered by name ascending.
func (r *BusinessRepository) FindByNameSubstring(ctx context.Context, value string, pageIndex, pageSize int) ([]models.Business, int, error) {
	const where = `WHERE name ILIKE '%' || $1 || '%'`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM businesses `+where, value); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + businessColumns + ` FROM businesses ` + where + `
        ORDER BY name ASC LIMIT $2 OFFSET $3`
	var businesses []models.Business
	if err := r.db.SelectContext(ctx, &businesses, query, value, pageSize, pageIndex*pageSize); err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

// FindByNameSubstringAndRegion returns a page of businesses matching both a
// name substring and a region column value.
func (r *BusinessRepository) FindByNameSubstringAndRegion(ctx context.Context, name, field, value string, pageIndex, pageSize int) ([]models.Business, int, error) {
	if !regionColumns[field] {
		return nil, 0, fmt.Errorf("unknown region column %q", field)
	}
	where := fmt.Sprintf(`WHERE name ILIKE '%%' || $1 || '%%' AND LOWER(%s) = LOWER($2)`, field)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM businesses `+where, name, value); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + businessColumns + ` FROM businesses ` + where + `
        ORDER BY name ASC LIMIT $3 OFFSET $4`
	var businesses []models.Business
	if err := r.db.SelectContext(ctx, &businesses, query, name, value, pageSize, pageIndex*pageSize); err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

// FindByID returns a single business by id, or sql.ErrNoRows when absent.
func (r *BusinessRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1 LIMIT 1`
	var b models.Business
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &b, nil
}

// FindByIDs returns the businesses for the given set of ids. Missing ids are
// silently skipped; order follows name ascending.
func (r *BusinessRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Business, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = ANY($1) ORDER BY name ASC`
	var businesses []models.Business
	if err := r.db.SelectContext(ctx, &businesses, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	return businesses, nil
}
