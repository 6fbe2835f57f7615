package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/isoko-app/isoko-api/internal/models"
	"github.com/isoko-app/isoko-api/internal/utils"
)

// AuthService provides methods for authenticating and authorizing API clients.
type AuthService struct {
	clients ClientStore
}

// NewAuthService constructs a new AuthService.
func NewAuthService(clients ClientStore) *AuthService {
	return &AuthService{clients: clients}
}

// ValidateAPIKey verifies the provided token and returns the owning client.
func (s *AuthService) ValidateAPIKey(ctx context.Context, token string) (*models.Client, error) {
	if token == "" {
		return nil, utils.ErrInvalidToken
	}

	c, err := s.clients.GetByAPIKey(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	return c, nil
}

// ValidateClientID checks if the provided clientID matches the client's registered ID.
func (s *AuthService) ValidateClientID(client *models.Client, clientID string) bool {
	if client == nil {
		return false
	}
	return client.ClientID == clientID
}

// IsIPAllowed returns true if the provided IP is present in the client's
// whitelist. An empty whitelist allows any IP.
func (s *AuthService) IsIPAllowed(client *models.Client, ip string) bool {
	if client == nil {
		return false
	}
	if len(client.IPWhitelist) == 0 {
		return true
	}
	for _, allowed := range client.IPWhitelist {
		if allowed == ip {
			return true
		}
	}
	return false
}
