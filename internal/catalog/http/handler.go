package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/1752rissy/envenciproject/internal/catalog"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type CatalogService interface {
	GenerateDescription(ctx context.Context, imagePayload string) (string, error)
	Publish(ctx context.Context, imagePayload, description string, price float64) (string, error)
	List(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error)
}

type Handler struct {
	service CatalogService
}

func NewHandler(svc CatalogService) *Handler {
	return &Handler{service: svc}
}

type generateDescriptionRequest struct {
	Image string `json:"image"`
}

type publishProductRequest struct {
	Image       string `json:"image"`
	Description string `json:"description"`
	// Price arrives as a JSON number or a numeric string; both were accepted
	// by the original API.
	Price json.RawMessage `json:"price"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

type descriptionResponse struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}

type publishResponse struct {
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
}

type listResponse struct {
	Products []catalog.Product `json:"products"`
	Status   string            `json:"status"`
}

// GenerateDescription handles POST /api/generate-description: a base64 image
// in, AI sales copy out.
func (h *Handler) GenerateDescription(c *gin.Context) {
	var req generateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Status: statusError})
		return
	}
	if req.Image == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: catalog.ErrMissingImage.Error(), Status: statusError})
		return
	}

	description, err := h.service.GenerateDescription(c.Request.Context(), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, descriptionResponse{Description: description, Status: statusSuccess})
}

// PublishProduct handles POST /api/publish-product: validates image,
// description and price, then stores the product.
func (h *Handler) PublishProduct(c *gin.Context) {
	var req publishProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Status: statusError})
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: catalog.ErrInvalidPrice.Error(), Status: statusError})
		return
	}

	id, err := h.service.Publish(c.Request.Context(), req.Image, req.Description, price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, publishResponse{ProductID: id, Status: statusSuccess})
}

// GetProducts handles GET /api/get-products with optional category and tag
// query filters.
func (h *Handler) GetProducts(c *gin.Context) {
	filter := catalog.Filter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
	}

	products, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse{Products: products, Status: statusSuccess})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrMissingImage),
		errors.Is(err, catalog.ErrMissingDescription),
		errors.Is(err, catalog.ErrInvalidImage),
		errors.Is(err, catalog.ErrInvalidPrice):
		status = http.StatusBadRequest
	}

	c.JSON(status, errorResponse{Error: err.Error(), Status: statusError})
}

// parsePrice accepts a JSON number or a quoted numeric string. Positivity is
// the service's call; this only rejects values that are not numbers at all.
func parsePrice(raw json.RawMessage) (float64, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, catalog.ErrInvalidPrice
	}

	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return 0, catalog.ErrInvalidPrice
		}
		text = strings.TrimSpace(unquoted)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, catalog.ErrInvalidPrice
	}
	return value, nil
}
