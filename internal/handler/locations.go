package handler

import (
	"net/http"

	"kitchenops/internal/apierror"
	"kitchenops/internal/dto"
	"kitchenops/internal/service"

	"github.com/gin-gonic/gin"
)

type LocationsHandler struct{ svc service.LocationService }

func NewLocationsHandler(svc service.LocationService) *LocationsHandler {
	return &LocationsHandler{svc: svc}
}

func (h *LocationsHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LocationsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list locations"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateStation godoc
// @Summary Add a station to a location
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location UUID"
// @Param body body dto.CreateStationRequest true "Station definition"
// @Success 201 {object} dto.StationResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/locations/{id}/stations [post]
func (h *LocationsHandler) CreateStation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateStationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateStation(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ── Station count sheet ──────────────────────────────────────────────────────

func (h *LocationsHandler) AssignProduct(c *gin.Context) {
	stationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AssignProduct(c.Request.Context(), stationID, req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LocationsHandler) UnassignProduct(c *gin.Context) {
	stationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	if err := h.svc.UnassignProduct(c.Request.Context(), stationID, productID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StationSheet returns the ordered product list counted at one station.
func (h *LocationsHandler) StationSheet(c *gin.Context) {
	stationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.StationSheet(c.Request.Context(), stationID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
