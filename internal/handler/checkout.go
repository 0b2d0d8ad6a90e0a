package handler

import (
	"net/http"

	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/middleware"
	"github.com/StockSmart-AI/stock-smart-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Sell godoc
// @Summary      Record a sale
// @Description  Releases stock for every cart line and records the sale. If any line fails, all applied movements are undone.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SellRequest true "Cart contents"
// @Success      201  {object} dto.CheckoutResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/sell [post]
func (h *CheckoutHandler) Sell(c *gin.Context) {
	var req dto.SellRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Sell(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Restock godoc
// @Summary      Record a restock
// @Description  Receives stock for a product (quantity, or one barcode per unit for serialized products) and records the restock.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RestockRequest true "Restock line"
// @Success      201  {object} dto.CheckoutResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/restock [post]
func (h *CheckoutHandler) Restock(c *gin.Context) {
	var req dto.RestockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Restock(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
