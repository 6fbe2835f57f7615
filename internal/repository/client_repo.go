package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/isoko-app/isoko-api/internal/models"
)

// ClientRepository handles data access for registered API consumers.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// GetByAPIKey returns the client owning the given API key, or sql.ErrNoRows.
func (r *ClientRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Client, error) {
	const query = `SELECT id, client_id, name, api_key, ip_whitelist, is_active, created_at, updated_at
        FROM clients WHERE api_key = $1 LIMIT 1`

	var c models.Client
	row := r.db.QueryRowxContext(ctx, query, apiKey)
	err := row.Scan(&c.ID, &c.ClientID, &c.Name, &c.APIKey, pq.Array(&c.IPWhitelist), &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}
