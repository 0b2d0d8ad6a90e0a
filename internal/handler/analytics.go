package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/StockSmart-AI/stock-smart-backend/internal/apierror"
	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/infra"
	"github.com/StockSmart-AI/stock-smart-backend/internal/middleware"
	"github.com/StockSmart-AI/stock-smart-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalyticsHandler struct{ svc service.AnalyticsService }

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func shopIDQuery(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query("shop_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid shop_id"))
		return uuid.Nil, false
	}
	return id, true
}

func callerID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return id
}

// Summary godoc
// @Summary      Dashboard summary cards
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        shop_id query string true "Shop UUID"
// @Success      200 {object} dto.SummaryResponse
// @Router       /v1/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	shopID, ok := shopIDQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), callerID(c), shopID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockByCategory godoc
// @Summary      Stock totals per category
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        shop_id query string true "Shop UUID"
// @Success      200 {array} dto.CategoryStockResponse
// @Router       /v1/analytics/stock-by-category [get]
func (h *AnalyticsHandler) StockByCategory(c *gin.Context) {
	shopID, ok := shopIDQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.StockByCategory(c.Request.Context(), callerID(c), shopID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SalesSeries godoc
// @Summary      Sales series (daily or monthly buckets)
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        shop_id query string true  "Shop UUID"
// @Param        window  query string false "daily | monthly"
// @Param        days    query int    false "History window (default 30)"
// @Success      200 {array} dto.SalesPointResponse
// @Router       /v1/analytics/sales [get]
func (h *AnalyticsHandler) SalesSeries(c *gin.Context) {
	var filter dto.SalesSeriesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	shopID, err := uuid.Parse(filter.ShopID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid shop_id"))
		return
	}
	resp, err := h.svc.SalesSeries(c.Request.Context(), callerID(c), shopID, filter.Window, filter.Days)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopSelling godoc
// @Summary      Best-selling products
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        shop_id query string true  "Shop UUID"
// @Param        limit   query int    false "Rows (default 5)"
// @Success      200 {array} dto.TopProductResponse
// @Router       /v1/analytics/top-selling [get]
func (h *AnalyticsHandler) TopSelling(c *gin.Context) {
	shopID, ok := shopIDQuery(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	resp, err := h.svc.TopSelling(c.Request.Context(), callerID(c), shopID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopStocked godoc
// @Summary      Most-stocked products
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        shop_id query string true  "Shop UUID"
// @Param        limit   query int    false "Rows (default 5)"
// @Success      200 {array} dto.StockedProductResponse
// @Router       /v1/analytics/top-stocked [get]
func (h *AnalyticsHandler) TopStocked(c *gin.Context) {
	shopID, ok := shopIDQuery(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	resp, err := h.svc.TopStocked(c.Request.Context(), callerID(c), shopID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CriticalProducts godoc
// @Summary      Products at or under their reorder threshold
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        shop_id query string true "Shop UUID"
// @Success      200 {array} dto.CriticalProductResponse
// @Router       /v1/analytics/critical [get]
func (h *AnalyticsHandler) CriticalProducts(c *gin.Context) {
	shopID, ok := shopIDQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.CriticalProducts(c.Request.Context(), callerID(c), shopID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Forecast godoc
// @Summary      Demand forecast for a product
// @Description  Proxies the forecasting sidecar; returns 503 while the circuit is open.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string true  "Product UUID"
// @Param        horizon query int    false "Days to project (default 14)"
// @Success      200 {object} dto.ForecastResponse
// @Failure      503 {object} apierror.APIError
// @Router       /v1/analytics/forecast/{id} [get]
func (h *AnalyticsHandler) Forecast(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	horizon, _ := strconv.Atoi(c.DefaultQuery("horizon", "14"))

	resp, err := h.svc.Forecast(c.Request.Context(), callerID(c), productID, horizon)
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, apierror.New("Forecasting temporarily unavailable"))
			return
		}
		if errors.Is(err, service.ErrProductNotFound) || errors.Is(err, service.ErrForbidden) {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusBadGateway, apierror.New("Forecasting failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
