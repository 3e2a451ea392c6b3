package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/middleware"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("seller-portal-test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestRespondErrorKeepsWrappedAppErrorStatus(t *testing.T) {
	h := NewOrderHandler(nil, testLogger())
	c, w := testContext("/api/v1/orders/ORD-missing1")
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	wrapped := fmt.Errorf("loading order: %w", errors.ErrNotFoundWithID("order", "ORD-missing1"))
	h.respondError(responder, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondErrorUnknownErrorIsInternal(t *testing.T) {
	h := NewOrderHandler(nil, testLogger())
	c, w := testContext("/api/v1/orders/ORD-missing1")
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	h.respondError(responder, fmt.Errorf("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListOrdersRejectsMalformedPaging(t *testing.T) {
	h := NewOrderHandler(nil, testLogger())

	for _, target := range []string{
		"/api/v1/orders?page=abc",
		"/api/v1/orders?pageSize=1.5",
	} {
		c, w := testContext(target)
		h.ListOrders(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}
