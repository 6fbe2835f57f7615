package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/isoko-app/isoko-api/internal/config"
	"github.com/isoko-app/isoko-api/internal/models"
	"github.com/isoko-app/isoko-api/internal/service"
	"github.com/isoko-app/isoko-api/internal/utils"
)

// parseRequester reads the optional lat/lng query parameters. A malformed
// number writes a 400 and returns ok=false; absence is fine — the services
// decide whether coordinates are required.
func parseRequester(c *gin.Context) (service.Requester, bool) {
	var req service.Requester

	if raw := c.Query("lat"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.Error(c, 400, "INVALID_COORDINATE", "lat must be a number")
			return req, false
		}
		req.Latitude = &v
	}
	if raw := c.Query("lng"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.Error(c, 400, "INVALID_COORDINATE", "lng must be a number")
			return req, false
		}
		req.Longitude = &v
	}
	return req, true
}

// parsePage reads pagination and refinement query parameters, applying the
// configured default limit when the request omits one.
func parsePage(c *gin.Context, cfg config.DiscoveryConfig) (models.PageRequest, bool) {
	page := models.PageRequest{
		Skip:          0,
		Limit:         cfg.DefaultPageLimit,
		SortField:     c.Query("sort_by"),
		SortDirection: c.Query("sort_dir"),
		SearchTerm:    c.Query("search"),
	}

	if raw := c.Query("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_PAGINATION", "skip must be an integer")
			return page, false
		}
		page.Skip = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_PAGINATION", "limit must be an integer")
			return page, false
		}
		page.Limit = v
	}
	if raw := c.Query("radius_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.Error(c, 400, "INVALID_RADIUS", "radius_km must be a number")
			return page, false
		}
		page.RadiusKm = &v
	}
	return page, true
}

// parseFilters reads the administrative-region labels and business name
// filter from the query string.
func parseFilters(c *gin.Context) service.DiscoveryFilters {
	return service.DiscoveryFilters{
		Province: c.Query("province"),
		District: c.Query("district"),
		Sector:   c.Query("sector"),
		Cell:     c.Query("cell"),
		Village:  c.Query("village"),
		Name:     c.Query("name"),
	}
}

// errorMessages maps sentinel error codes to human-readable text.
var errorMessages = map[string]string{
	"LOCATION_REQUIRED":   "Requester latitude and longitude are required",
	"INVALID_COORDINATE":  "Coordinates are out of range",
	"INVALID_PAGINATION":  "skip must be >= 0 and limit >= 1",
	"INVALID_RADIUS":      "radius_km is out of the allowed range",
	"SCAN_LIMIT_EXCEEDED": "Result set too large for this query; narrow the filters",
	"FILTER_REQUIRED":     "At least one region or name filter is required",
	"BUSINESS_NOT_FOUND":  "Business not found",
}

// respondError maps service errors onto the HTTP error envelope:
// validation -> 400, not found -> 404, anything else -> 500.
func respondError(c *gin.Context, err error) {
	code := err.Error()
	message, known := errorMessages[code]

	switch {
	case utils.IsValidation(err):
		utils.Error(c, 400, code, message)
	case utils.IsNotFound(err):
		utils.Error(c, 404, code, message)
	default:
		if !known {
			message = "An internal error occurred"
		}
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("discovery request failed")
		utils.Error(c, 500, "INTERNAL_ERROR", message)
	}
}
