package handler

import (
	"net/http"
	"strconv"
	"time"

	"kitchenops/internal/apierror"
	"kitchenops/internal/dto"
	"kitchenops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConsumptionHandler struct {
	svc     service.ConsumptionService
	reports service.ReportService
}

func NewConsumptionHandler(svc service.ConsumptionService, reports service.ReportService) *ConsumptionHandler {
	return &ConsumptionHandler{svc: svc, reports: reports}
}

// Calculate godoc
// @Summary Recompute weekly consumption for one location
// @Description Derives consumption = max(0, opening + produced - closing) per (product, station) for the given window. Idempotent: recomputing the same week overwrites prior aggregates.
// @Tags consumption
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CalculateConsumptionRequest true "Location and week window"
// @Success 200 {object} dto.CalculateConsumptionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/consumption/calculate [post]
func (h *ConsumptionHandler) Calculate(c *gin.Context) {
	var req dto.CalculateConsumptionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid location_id"))
		return
	}
	weekStart, _ := time.Parse("2006-01-02", req.WeekStart)
	weekEnd, _ := time.Parse("2006-01-02", req.WeekEnd)
	if !weekEnd.After(weekStart) {
		c.JSON(http.StatusBadRequest, apierror.New("week_end must be after week_start"))
		return
	}

	calculated, err := h.svc.CalculateWeekly(c.Request.Context(), locationID, weekStart, weekEnd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CalculateConsumptionResponse{Calculated: calculated})
}

// CalculateAll godoc
// @Summary Recompute weekly consumption for every active location
// @Description Runs the trailing-week recompute per location. A failing location reports calculated 0 and never aborts its siblings.
// @Tags consumption
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CalculateAllResponse
// @Router /v1/consumption/calculate-all [post]
func (h *ConsumptionHandler) CalculateAll(c *gin.Context) {
	results, err := h.svc.CalculateAllLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.CalculateAllResponse{Results: results})
}

func (h *ConsumptionHandler) ListByLocation(c *gin.Context) {
	locationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	weeks, _ := strconv.Atoi(c.DefaultQuery("weeks", "4"))

	rows, err := h.svc.ListByLocation(c.Request.Context(), locationID, weeks)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	out := make([]dto.ConsumptionEntryResponse, 0, len(rows))
	for _, row := range rows {
		entry := dto.ConsumptionEntryResponse{
			ProductID:   row.ProductID.String(),
			StationID:   row.StationID.String(),
			WeekStart:   row.WeekStart.Format("2006-01-02"),
			WeekEnd:     row.WeekEnd.Format("2006-01-02"),
			Consumption: row.Consumption,
		}
		if row.Product != nil {
			entry.Product = row.Product.Name
		}
		if row.Station != nil {
			entry.Station = row.Station.Name
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}

// ExportXLSX streams the trailing weeks of consumption as a spreadsheet.
func (h *ConsumptionHandler) ExportXLSX(c *gin.Context) {
	locationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	weeks, _ := strconv.Atoi(c.DefaultQuery("weeks", "4"))

	buf, filename, err := h.reports.ConsumptionXLSX(c.Request.Context(), locationID, weeks)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
