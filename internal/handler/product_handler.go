package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isoko-app/isoko-api/internal/config"
	"github.com/isoko-app/isoko-api/internal/service"
	"github.com/isoko-app/isoko-api/internal/utils"
)

// ProductHandler exposes the product discovery operations over HTTP.
type ProductHandler struct {
	discovery *service.ProductDiscoveryService
	cfg       config.DiscoveryConfig
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(discovery *service.ProductDiscoveryService, cfg config.DiscoveryConfig) *ProductHandler {
	return &ProductHandler{discovery: discovery, cfg: cfg}
}

// ListForBusiness returns a page of a business's products with the derived
// packet/pricing breakdown. Supports sort_by/sort_dir and a search term.
// GET /businesses/:id/products?skip=&limit=&sort_by=&sort_dir=&search=
func (h *ProductHandler) ListForBusiness(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "business id must be a UUID")
		return
	}
	page, ok := parsePage(c, h.cfg)
	if !ok {
		return
	}

	result, err := h.discovery.ListForBusiness(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Successfully retrieved products",
		result.Items, result.Skip, result.Limit, result.TotalCount, result.HasMore)
}

// ListWithDistance returns a page of a business's products, each stamped
// with the single requester-to-business distance.
// GET /businesses/:id/products/with-distance?lat=&lng=&skip=&limit=
func (h *ProductHandler) ListWithDistance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "business id must be a UUID")
		return
	}
	req, ok := parseRequester(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.cfg)
	if !ok {
		return
	}

	result, err := h.discovery.ListWithDistance(c.Request.Context(), id, req, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Successfully retrieved products with distance",
		result.Items, result.Skip, result.Limit, result.TotalCount, result.HasMore)
}
