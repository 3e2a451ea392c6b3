package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marketplace/seller-portal/internal/seller/application"
	"github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/middleware"
)

// SellerHandler handles HTTP requests for seller accounts
type SellerHandler struct {
	service *application.SellerApplicationService
	logger  *logging.Logger
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(service *application.SellerApplicationService, logger *logging.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers seller routes on the given group.
// Registration is open; profile routes require an authenticated seller.
func (h *SellerHandler) RegisterRoutes(rg *gin.RouterGroup, sellerAuth gin.HandlerFunc) {
	rg.POST("/sellers/register", h.Register)

	authed := rg.Group("", sellerAuth)
	authed.GET("/sellers/profile", h.GetProfile)
	authed.PUT("/sellers/profile", h.UpdateProfile)
	authed.POST("/sellers/profile/shop-images", h.AddShopImages)
	authed.DELETE("/sellers/profile", h.Deactivate)
}

// Register handles POST /api/v1/sellers/register
func (h *SellerHandler) Register(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.RegisterSellerCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"shop.name":     cmd.Shop.Name,
		"shop.category": cmd.Shop.Category,
	})

	result, err := h.service.Register(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// GetProfile handles GET /api/v1/sellers/profile
func (h *SellerHandler) GetProfile(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetProfile(c.Request.Context(), middleware.GetSellerID(c))
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// UpdateProfile handles PUT /api/v1/sellers/profile
func (h *SellerHandler) UpdateProfile(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateProfileCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.SellerID = middleware.GetSellerID(c)

	result, err := h.service.UpdateProfile(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// AddShopImages handles POST /api/v1/sellers/profile/shop-images
func (h *SellerHandler) AddShopImages(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.AddShopImagesCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.SellerID = middleware.GetSellerID(c)

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"shop.images.added": len(cmd.Images),
	})

	result, err := h.service.AddShopImages(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Deactivate handles DELETE /api/v1/sellers/profile
func (h *SellerHandler) Deactivate(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.Deactivate(c.Request.Context(), middleware.GetSellerID(c)); err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deactivated": true}})
}

func (h *SellerHandler) respondError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}
