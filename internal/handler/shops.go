package handler

import (
	"net/http"

	"github.com/StockSmart-AI/stock-smart-backend/internal/apierror"
	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/middleware"
	"github.com/StockSmart-AI/stock-smart-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShopsHandler struct{ svc service.ShopService }

func NewShopsHandler(svc service.ShopService) *ShopsHandler { return &ShopsHandler{svc: svc} }

// Create godoc
// @Summary      Create a shop
// @Tags         shops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateShopRequest true "Shop details"
// @Success      201  {object} dto.ShopResponse
// @Router       /v1/shops [post]
func (h *ShopsHandler) Create(c *gin.Context) {
	var req dto.CreateShopRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	ownerID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Fetch one shop
// @Tags         shops
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Shop UUID"
// @Success      200 {object} dto.ShopResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/shops/{id} [get]
func (h *ShopsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List the caller's shops
// @Tags         shops
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ShopResponse
// @Router       /v1/shops [get]
func (h *ShopsHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	ownerID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a shop
// @Tags         shops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "Shop UUID"
// @Param        body body dto.UpdateShopRequest true "Fields to change"
// @Success      200  {object} dto.ShopResponse
// @Failure      403  {object} apierror.APIError
// @Router       /v1/shops/{id} [put]
func (h *ShopsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateShopRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	ownerID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Update(c.Request.Context(), id, ownerID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Invite godoc
// @Summary      Invite an employee
// @Description  Creates a single-use invitation token and emails a join link.
// @Tags         shops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Shop UUID"
// @Param        body body dto.InviteEmployeeRequest true "Invitee"
// @Success      201  {object} dto.InvitationResponse
// @Failure      403  {object} apierror.APIError
// @Router       /v1/shops/{id}/invitations [post]
func (h *ShopsHandler) Invite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.InviteEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	ownerID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Invite(c.Request.Context(), id, ownerID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListInvitations godoc
// @Summary      List a shop's invitations
// @Tags         shops
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Shop UUID"
// @Success      200 {array} dto.InvitationResponse
// @Router       /v1/shops/{id}/invitations [get]
func (h *ShopsHandler) ListInvitations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.ListInvitations(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
