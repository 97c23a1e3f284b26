package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hectorisrael87/fundacion-sys/internal/middleware"
	"github.com/hectorisrael87/fundacion-sys/internal/repository"
	"github.com/hectorisrael87/fundacion-sys/internal/service"
	"github.com/hectorisrael87/fundacion-sys/pkg/pagination"
	"github.com/hectorisrael87/fundacion-sys/pkg/response"
)

type OrderHandler struct {
	orderService service.PaymentOrderService
}

func NewOrderHandler(orderService service.PaymentOrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes binds the payment order endpoints
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders", middleware.RequireAuth())
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.GET("/:id/print", h.Print)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
		orders.POST("/:id/complement", h.CreateComplement)
		orders.POST("/:id/actions/:action", h.Transition)
	}
}

// List handles GET /orders
// @Summary      List payment orders
// @Description  Lists the orders visible to the caller, filterable by status, quote and supplier
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        estado       query     string  false  "Status filter"
// @Param        quote_id     query     string  false  "Owning quote"
// @Param        supplier_id  query     string  false  "Supplier"
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  response.Response
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	p := pagination.Parse(c)

	filter := repository.OrderFilter{
		Estado: c.Query("estado"),
		Page:   p.Page,
		Limit:  p.Limit,
	}
	if v := c.Query("quote_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid quote_id"))
			return
		}
		filter.QuoteID = &id
	}
	if v := c.Query("supplier_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid supplier_id"))
			return
		}
		filter.SupplierID = &id
	}

	orders, total, err := h.orderService.List(c.Request.Context(), actor, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, p.Page, p.Limit, total))
}

// Get handles GET /orders/:id
// @Summary      Get payment order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.PaymentOrder}
// @Failure      404  {object}  response.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Print handles GET /orders/:id/print
// @Summary      Printable payment order
// @Description  Returns the order with its totals and the amount spelled out in words
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderPrintView}
// @Router       /orders/{id}/print [get]
func (h *OrderHandler) Print(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.orderService.PrintView(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}

// Update handles PUT /orders/:id
// @Summary      Update payment order
// @Description  Edits the header of a draft order, including the partial-payment fields
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.UpdateOrderRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.PaymentOrder}
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Delete handles DELETE /orders/:id
// @Summary      Delete draft order
// @Description  Deletes a draft order; refused when a complement derives from it
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "order deleted"}))
}

// CreateComplement handles POST /orders/:id/complement
// @Summary      Create complement order
// @Description  Derives the remainder order of an approved partial payment; returns the existing one when already derived
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Base order ID"
// @Success      201  {object}  response.Response{data=service.ComplementResult}
// @Success      200  {object}  response.Response{data=service.ComplementResult}
// @Failure      422  {object}  response.Response
// @Router       /orders/{id}/complement [post]
func (h *OrderHandler) CreateComplement(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.orderService.CreateComplement(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Existing {
		status = http.StatusOK
	}
	c.JSON(status, response.Success(status, result))
}

// Transition handles POST /orders/:id/actions/:action
// @Summary      Apply workflow action
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Order ID"
// @Param        action  path      string  true  "Action"
// @Success      200     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /orders/{id}/actions/{action} [post]
func (h *OrderHandler) Transition(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	t, ok := transitionActions[c.Param("action")]
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown action: "+c.Param("action")))
		return
	}

	if err := h.orderService.ApplyTransition(c.Request.Context(), actor, id, t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "transition applied"}))
}
