package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marketplace/seller-portal/internal/catalog/application"
	"github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/middleware"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	service *application.CatalogApplicationService
	logger  *logging.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service *application.CatalogApplicationService, logger *logging.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers catalog routes; all require an
// authenticated seller
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup, sellerAuth gin.HandlerFunc) {
	authed := rg.Group("", sellerAuth)
	authed.POST("/products", h.CreateProduct)
	authed.GET("/products", h.ListProducts)
	authed.GET("/products/:productId", h.GetProduct)
	authed.PUT("/products/:productId", h.UpdateProduct)
	authed.DELETE("/products/:productId", h.DeleteProduct)
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateProductCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.SellerID = middleware.GetSellerID(c)

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"product.category": cmd.Category,
		"product.variants": len(cmd.Variants),
	})

	result, err := h.service.CreateProduct(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		responder.RespondWithAppError(errors.ErrValidation("page must be a positive integer"))
		return
	}
	pageSize, err := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)
	if err != nil {
		responder.RespondWithAppError(errors.ErrValidation("pageSize must be a positive integer"))
		return
	}

	query := application.ListProductsQuery{
		SellerID: middleware.GetSellerID(c),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetProduct handles GET /api/v1/products/:productId
func (h *ProductHandler) GetProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	productID := c.Param("productId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"product.id": productID,
	})

	result, err := h.service.GetProduct(c.Request.Context(), productID, middleware.GetSellerID(c))
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// UpdateProduct handles PUT /api/v1/products/:productId
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateProductCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.ProductID = c.Param("productId")
	cmd.SellerID = middleware.GetSellerID(c)

	result, err := h.service.UpdateProduct(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// DeleteProduct handles DELETE /api/v1/products/:productId
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	productID := c.Param("productId")
	if err := h.service.DeleteProduct(c.Request.Context(), productID, middleware.GetSellerID(c)); err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (h *ProductHandler) respondError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}
