package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isoko-app/isoko-api/internal/config"
	"github.com/isoko-app/isoko-api/internal/service"
	"github.com/isoko-app/isoko-api/internal/utils"
)

// BusinessHandler exposes the business discovery operations over HTTP.
type BusinessHandler struct {
	discovery *service.BusinessDiscoveryService
	cfg       config.DiscoveryConfig
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(discovery *service.BusinessDiscoveryService, cfg config.DiscoveryConfig) *BusinessHandler {
	return &BusinessHandler{discovery: discovery, cfg: cfg}
}

// GetNearest returns businesses with coordinates, distance-sorted within the
// store page.
// GET /businesses/nearest?lat=&lng=&skip=&limit=
func (h *BusinessHandler) GetNearest(c *gin.Context) {
	req, ok := parseRequester(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.cfg)
	if !ok {
		return
	}

	result, err := h.discovery.Nearest(c.Request.Context(), req, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Successfully retrieved nearby businesses",
		result.Items, result.Skip, result.Limit, result.TotalCount, result.HasMore)
}

// GetWithinRadius returns all businesses within the requested radius,
// globally sorted by distance.
// GET /businesses/within-radius?lat=&lng=&radius_km=&skip=&limit=
func (h *BusinessHandler) GetWithinRadius(c *gin.Context) {
	req, ok := parseRequester(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.cfg)
	if !ok {
		return
	}

	result, err := h.discovery.WithinRadius(c.Request.Context(), req, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Successfully retrieved businesses within radius",
		result.Items, result.Skip, result.Limit, result.TotalCount, result.HasMore)
}

// GetByRegion returns businesses matching a single resolved region label.
// GET /businesses/by-region?lat=&lng=&province=&district=&sector=&cell=&village=&skip=&limit=
func (h *BusinessHandler) GetByRegion(c *gin.Context) {
	req, ok := parseRequester(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.cfg)
	if !ok {
		return
	}
	filter := service.ResolveFilter(parseFilters(c))

	result, err := h.discovery.ByRegion(c.Request.Context(), req, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Successfully retrieved businesses by region",
		result.Items, result.Skip, result.Limit, result.TotalCount, result.HasMore)
}

// SearchByName returns businesses whose name contains the given substring.
// GET /businesses/search-by-name?lat=&lng=&name=&skip=&limit=
func (h *BusinessHandler) SearchByName(c *gin.Context) {
	req, ok := parseRequester(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.cfg)
	if !ok {
		return
	}
	name := c.Query("name")
	if name == "" {
		utils.Error(c, 400, "FILTER_REQUIRED", "name query parameter is required")
		return
	}

	result, err := h.discovery.SearchByName(c.Request.Context(), req, name, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Successfully searched businesses",
		result.Items, result.Skip, result.Limit, result.TotalCount, result.HasMore)
}

// SearchByProductName returns the businesses owning a product whose name
// contains the given substring, distance-sorted.
// GET /businesses/search-by-product?lat=&lng=&product=&skip=&limit=
func (h *BusinessHandler) SearchByProductName(c *gin.Context) {
	req, ok := parseRequester(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.cfg)
	if !ok {
		return
	}
	product := c.Query("product")
	if product == "" {
		utils.Error(c, 400, "FILTER_REQUIRED", "product query parameter is required")
		return
	}

	result, err := h.discovery.SearchByProductName(c.Request.Context(), req, product, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Successfully searched businesses by product",
		result.Items, result.Skip, result.Limit, result.TotalCount, result.HasMore)
}

// Search combines the name substring with the highest-priority region label
// into a single predicate, falling back to name-only.
// GET /businesses/search?lat=&lng=&name=&province=...&skip=&limit=
func (h *BusinessHandler) Search(c *gin.Context) {
	req, ok := parseRequester(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.cfg)
	if !ok {
		return
	}

	result, err := h.discovery.SearchByNameAndRegion(c.Request.Context(), req, parseFilters(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Successfully searched businesses",
		result.Items, result.Skip, result.Limit, result.TotalCount, result.HasMore)
}

// GetPublicDetails returns a single business without distance computation.
// No requester coordinates are needed.
// GET /public/businesses/:id
func (h *BusinessHandler) GetPublicDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "business id must be a UUID")
		return
	}

	summary, err := h.discovery.PublicDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Successfully retrieved business", summary)
}
