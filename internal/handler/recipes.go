package handler

import (
	"net/http"

	"kitchenops/internal/apierror"
	"kitchenops/internal/dto"
	"kitchenops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecipesHandler struct{ svc service.RecipeService }

func NewRecipesHandler(svc service.RecipeService) *RecipesHandler {
	return &RecipesHandler{svc: svc}
}

func (h *RecipesHandler) Create(c *gin.Context) {
	var req dto.CreateRecipeRequest
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

func (h *RecipesHandler) Get(c *gin.Context) {
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

func (h *RecipesHandler) List(c *gin.Context) {
	var locationID *uuid.UUID
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid location_id"))
			return
		}
		locationID = &id
	}
	resp, err := h.svc.List(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list recipes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipesHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cost godoc
// @Summary Cost one recipe batch
// @Description Prices one batch at current product unit costs. Ingredients without a unit cost contribute zero and are flagged.
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipe UUID"
// @Success 200 {object} dto.RecipeCostResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/recipes/{id}/cost [get]
func (h *RecipesHandler) Cost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cost(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
