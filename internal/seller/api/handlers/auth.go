package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/marketplace/seller-portal/internal/seller/application"
)

// AuthValidator adapts the seller service to middleware.SellerValidator
type AuthValidator struct {
	service *application.SellerApplicationService
}

// NewAuthValidator creates a new AuthValidator
func NewAuthValidator(service *application.SellerApplicationService) *AuthValidator {
	return &AuthValidator{service: service}
}

// ValidateSeller confirms the seller exists and is active
func (v *AuthValidator) ValidateSeller(c *gin.Context, sellerID string) error {
	return v.service.ValidateActiveSeller(c.Request.Context(), sellerID)
}
