package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marketplace/seller-portal/internal/order/application"
	"github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/middleware"
)

// OrderHandler handles HTTP requests for the order lifecycle
type OrderHandler struct {
	service *application.OrderApplicationService
	logger  *logging.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *application.OrderApplicationService, logger *logging.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers order routes on the given group. Every
// route except order creation requires an authenticated seller.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup, sellerAuth gin.HandlerFunc) {
	rg.POST("/orders", h.CreateOrder)

	authed := rg.Group("", sellerAuth)
	authed.GET("/orders", h.ListOrders)
	authed.GET("/orders/stats", h.GetStats)
	authed.GET("/orders/:orderId", h.GetOrder)
	authed.POST("/orders/:orderId/status", h.ChangeStatus)
	authed.POST("/orders/:orderId/read", h.MarkRead)
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateOrderCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"customer.id":    cmd.CustomerID,
		"order.items":    len(cmd.Items),
		"payment.method": cmd.PaymentMethod,
	})

	result, err := h.service.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// GetOrder handles GET /api/v1/orders/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.GetOrderQuery{
		OrderID:       c.Param("orderId"),
		ActorSellerID: middleware.GetSellerID(c),
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.id": query.OrderID,
	})

	result, err := h.service.GetOrder(c.Request.Context(), query)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
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

	query := application.ListOrdersQuery{
		SellerID: middleware.GetSellerID(c),
		Page:     page,
		PageSize: pageSize,
	}

	if status := c.Query("status"); status != "" {
		query.Status = &status
	}
	if unread := c.Query("unread"); unread != "" {
		value := unread == "true"
		query.Unread = &value
	}

	result, err := h.service.ListSellerOrders(c.Request.Context(), query)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetStats handles GET /api/v1/orders/stats
func (h *OrderHandler) GetStats(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	sellerID := middleware.GetSellerID(c)

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"seller.id": sellerID,
	})

	result, err := h.service.GetSellerStatistics(c.Request.Context(), sellerID)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ChangeStatus handles POST /api/v1/orders/:orderId/status
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.ChangeStatusCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.OrderID = c.Param("orderId")
	cmd.ActorSellerID = middleware.GetSellerID(c)

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.id":     cmd.OrderID,
		"order.status": cmd.Status,
	})

	result, err := h.service.RequestStatusChange(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// MarkRead handles POST /api/v1/orders/:orderId/read
func (h *OrderHandler) MarkRead(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	cmd := application.MarkReadCommand{
		OrderID:       c.Param("orderId"),
		ActorSellerID: middleware.GetSellerID(c),
	}

	result, err := h.service.MarkOrderRead(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *OrderHandler) respondError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}
