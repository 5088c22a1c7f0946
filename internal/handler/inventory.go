package handler

import (
	"net/http"
	"time"

	"kitchenops/internal/apierror"
	"kitchenops/internal/dto"
	"kitchenops/internal/middleware"
	"kitchenops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// RecordCount godoc
// @Summary Record an inventory count
// @Description Upserts the count for (station, product, date). Re-submitting the same key overwrites the quantity.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RecordCountRequest true "Count"
// @Success 201 {object} dto.CountResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventory/counts [post]
func (h *InventoryHandler) RecordCount(c *gin.Context) {
	var req dto.RecordCountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	countedBy, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RecordCount(c.Request.Context(), countedBy, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) ListCounts(c *gin.Context) {
	var filter dto.CountFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListCounts(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogProduction godoc
// @Summary Log production output
// @Description Appends a production fact. Entries are never edited; same-day entries are summed when consumption is derived.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.LogProductionRequest true "Production entry"
// @Success 201 {object} dto.ProductionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventory/production [post]
func (h *InventoryHandler) LogProduction(c *gin.Context) {
	var req dto.LogProductionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	loggedBy, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.LogProduction(c.Request.Context(), loggedBy, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) ListProduction(c *gin.Context) {
	stationID, err := uuid.Parse(c.Query("station_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid station_id"))
		return
	}
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid from date, expected YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid to date, expected YYYY-MM-DD"))
		return
	}
	resp, err := h.svc.ListProduction(c.Request.Context(), stationID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
