package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/isoko-app/isoko-api/internal/models"
)

// productSortColumns whitelists the sortable product columns. Keys are the
// API-facing sort field names; values are the actual columns.
var productSortColumns = map[string]string{
	"name":           "name",
	"price":          "price_per_item",
	"quantity":       "packets",
	"itemsPerPacket": "items_per_packet",
}

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, business_id, name, description, images, price_per_item, packets, items_per_packet, fulfillment_cost, created_at, updated_at`

// FindByBusiness returns a page of a business's products with total count.
// When search is non-empty it is applied as a case-insensitive substring
// match on the product name. sortField must be one of the API sort names
// (defaulting to name) and descending flips the order.
func (r *ProductRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, search string, pageIndex, pageSize int, sortField string, descending bool) ([]models.Product, int, error) {
	column, ok := productSortColumns[sortField]
	if !ok {
		return nil, 0, fmt.Errorf("unknown sort column %q", sortField)
	}
	direction := "ASC"
	if descending {
		direction = "DESC"
	}

	const where = `WHERE business_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM products `+where, businessID, search); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products ` + where + fmt.Sprintf(`
        ORDER BY %s %s, name ASC LIMIT $3 OFFSET $4`, column, direction)
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query, businessID, search, pageSize, pageIndex*pageSize); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CountForBusiness returns the number of products a business owns.
func (r *ProductRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM products WHERE business_id = $1`, businessID)
	return count, err
}

// FindBusinessIDsByProductName returns the distinct ids of businesses owning
// at least one product whose name contains value (case-insensitive).
func (r *ProductRepository) FindBusinessIDsByProductName(ctx context.Context, value string) ([]uuid.UUID, error) {
	const query = `SELECT DISTINCT business_id FROM products WHERE name ILIKE '%' || $1 || '%'`
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, value); err != nil {
		return nil, err
	}
	return ids, nil
}
