package handler

import (
	"net/http"
	"os"

	"kitchenops/internal/apierror"
	"kitchenops/internal/dto"
	"kitchenops/internal/infra"
	"kitchenops/internal/middleware"
	"kitchenops/internal/repository"
	"kitchenops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct {
	svc            service.OrderService
	orderRepo      repository.OrderRepository
	pdfStoragePath string
}

func NewOrdersHandler(svc service.OrderService, orderRepo repository.OrderRepository, pdfStoragePath string) *OrdersHandler {
	return &OrdersHandler{svc: svc, orderRepo: orderRepo, pdfStoragePath: pdfStoragePath}
}

// Generate godoc
// @Summary Generate a draft purchase order
// @Description Suggests quantities from 4-week average consumption with a 10% safety reduction against current stock. Products with no need are excluded; an order with zero items is still created.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerateOrderRequest true "Generation parameters"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/orders/generate [post]
func (h *OrdersHandler) Generate(c *gin.Context) {
	var req dto.GenerateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	generatedBy, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Generate(c.Request.Context(), generatedBy, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary Advance or cancel an order
// @Description DRAFT→CONFIRMED→SENT→RECEIVED; DRAFT and CONFIRMED may go to CANCELLED. RECEIVED and CANCELLED are terminal. Illegal jumps are rejected.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order UUID"
// @Param body body dto.UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateItem godoc
// @Summary Override a suggested quantity
// @Description Sets the confirmed quantity on one line. Allowed only while the order is DRAFT; the order's status is checked before the item is looked up.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order UUID"
// @Param itemId path string true "Item UUID"
// @Param body body dto.UpdateOrderItemRequest true "Confirmed quantity"
// @Success 200 {object} dto.OrderItemResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/items/{itemId} [patch]
func (h *OrdersHandler) UpdateItem(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	var req dto.UpdateOrderItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), orderID, itemID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadPDF renders the order as a purchase-order PDF and streams it.
// Generation is on demand; the file also lands in the PDF storage dir,
// where the async notifier picks it up for SENT orders.
func (h *OrdersHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("order not found"))
		return
	}
	path, err := infra.GenerateOrderPDF(order, h.pdfStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to generate PDF"))
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to read PDF"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="order_`+order.ID.String()[:8]+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
