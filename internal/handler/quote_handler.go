package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hectorisrael87/fundacion-sys/internal/middleware"
	"github.com/hectorisrael87/fundacion-sys/internal/model"
	"github.com/hectorisrael87/fundacion-sys/internal/repository"
	"github.com/hectorisrael87/fundacion-sys/internal/service"
	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
	"github.com/hectorisrael87/fundacion-sys/pkg/pagination"
	"github.com/hectorisrael87/fundacion-sys/pkg/response"
)

// transitionActions maps the URL action segment onto workflow transitions.
var transitionActions = map[string]workflow.Transition{
	"submit":           workflow.TransitionSubmit,
	"mark-reviewed":    workflow.TransitionMarkReviewed,
	"return-to-review": workflow.TransitionReturnToReview,
	"approve":          workflow.TransitionApprove,
	"reject":           workflow.TransitionReject,
	"return-to-draft":  workflow.TransitionReturnToDraft,
}

type QuoteHandler struct {
	quoteService service.QuoteService
}

func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// RegisterRoutes binds the comparative quote endpoints
func (h *QuoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/quotes", middleware.RequireAuth())
	{
		quotes.POST("", middleware.RequireCapability(workflow.CapCreator), h.Create)
		quotes.GET("", h.List)
		quotes.GET("/:id", h.Get)
		quotes.GET("/:id/print", h.Print)
		quotes.PUT("/:id", h.UpdateHeader)
		quotes.DELETE("/:id", h.Delete)

		quotes.POST("/:id/items", h.AddItem)
		quotes.PUT("/:id/items/:itemID", h.UpdateItem)
		quotes.DELETE("/:id/items/:itemID", h.DeleteItem)

		quotes.POST("/:id/suppliers", h.AddSupplier)
		quotes.PUT("/:id/suppliers/:supID", h.UpdateSupplier)
		quotes.DELETE("/:id/suppliers/:supID", h.DeleteSupplier)

		quotes.PUT("/:id/prices", h.SetPrices)
		quotes.PUT("/:id/winner", h.SelectWinner)
		quotes.POST("/:id/orders", h.GenerateOrders)

		quotes.POST("/:id/attachments", h.AddAttachment)
		quotes.DELETE("/:id/attachments/:attID", h.DeleteAttachment)

		quotes.POST("/:id/actions/:action", h.Transition)
	}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id: "+c.Param(param)))
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /quotes
// @Summary      Create comparative quote
// @Description  Opens a new draft quote and allocates its CC number
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateQuoteRequest  true  "Quote header"
// @Success      201      {object}  response.Response{data=model.ComparativeQuote}
// @Failure      400      {object}  response.Response
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quote))
}

// List handles GET /quotes
// @Summary      List comparative quotes
// @Description  Lists the quotes visible to the caller, optionally filtered by status
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        estado  query     string  false  "Status filter"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	p := pagination.Parse(c)

	filter := repository.QuoteFilter{
		Estado: c.Query("estado"),
		Page:   p.Page,
		Limit:  p.Limit,
	}
	quotes, total, err := h.quoteService.List(c.Request.Context(), actor, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, quotes, p.Page, p.Limit, total))
}

// Get handles GET /quotes/:id
// @Summary      Get comparative quote
// @Description  Returns the full quote aggregate plus per-supplier comparison totals
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	quote, totals, err := h.quoteService.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"quote":           quote,
		"supplier_totals": totals,
	}))
}

// Print handles GET /quotes/:id/print
// @Summary      Printable comparison sheet
// @Description  The quote laid out as a price matrix with per-supplier totals
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Quote ID"
// @Success      200  {object}  response.Response{data=service.QuotePrintView}
// @Failure      404  {object}  response.Response
// @Router       /quotes/{id}/print [get]
func (h *QuoteHandler) Print(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.quoteService.PrintView(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}

// UpdateHeader handles PUT /quotes/:id
// @Summary      Update quote header
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Quote ID"
// @Param        payload  body      service.UpdateQuoteHeaderRequest  true  "Header fields"
// @Success      200      {object}  response.Response{data=model.ComparativeQuote}
// @Router       /quotes/{id} [put]
func (h *QuoteHandler) UpdateHeader(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateQuoteHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateHeader(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// Delete handles DELETE /quotes/:id
// @Summary      Delete draft quote
// @Description  Deletes a draft quote; refused when payment orders reference it
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quoteService.Delete(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "quote deleted"}))
}

// AddItem handles POST /quotes/:id/items
// @Summary      Add quote item
// @Description  Adds a product line; adding an existing product accumulates its quantity
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Quote ID"
// @Param        payload  body      service.QuoteItemRequest  true  "Item"
// @Success      200      {object}  response.Response
// @Router       /quotes/{id}/items [post]
func (h *QuoteHandler) AddItem(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.QuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.quoteService.AddItem(c.Request.Context(), actor, id, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "item added"}))
}

// UpdateItem handles PUT /quotes/:id/items/:itemID
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemID")
	if !ok {
		return
	}

	var req service.QuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.quoteService.UpdateItem(c.Request.Context(), actor, id, itemID, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "item updated"}))
}

// DeleteItem handles DELETE /quotes/:id/items/:itemID; the item's price
// cells go with it.
func (h *QuoteHandler) DeleteItem(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemID")
	if !ok {
		return
	}

	if err := h.quoteService.DeleteItem(c.Request.Context(), actor, id, itemID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "item deleted"}))
}

// AddSupplier handles POST /quotes/:id/suppliers
func (h *QuoteHandler) AddSupplier(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.QuoteSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.quoteService.AddSupplier(c.Request.Context(), actor, id, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "supplier added"}))
}

// UpdateSupplier handles PUT /quotes/:id/suppliers/:supID
func (h *QuoteHandler) UpdateSupplier(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	supID, ok := parseID(c, "supID")
	if !ok {
		return
	}

	var req struct {
		Detalle string `json:"detalle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.quoteService.UpdateSupplier(c.Request.Context(), actor, id, supID, req.Detalle); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "supplier updated"}))
}

// DeleteSupplier handles DELETE /quotes/:id/suppliers/:supID; the supplier's
// price column and a winner selection pointing at it are removed too.
func (h *QuoteHandler) DeleteSupplier(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	supID, ok := parseID(c, "supID")
	if !ok {
		return
	}

	if err := h.quoteService.DeleteSupplier(c.Request.Context(), actor, id, supID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "supplier removed"}))
}

// SetPrices handles PUT /quotes/:id/prices
// @Summary      Set price matrix cells
// @Description  Upserts a batch of supplier×product unit prices
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Quote ID"
// @Param        payload  body      []service.PriceCellRequest  true  "Cells"
// @Success      200      {object}  response.Response
// @Router       /quotes/{id}/prices [put]
func (h *QuoteHandler) SetPrices(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var cells []service.PriceCellRequest
	if err := c.ShouldBindJSON(&cells); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.quoteService.SetPrices(c.Request.Context(), actor, id, cells); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "prices saved"}))
}

// SelectWinner handles PUT /quotes/:id/winner
func (h *QuoteHandler) SelectWinner(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.SelectWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.quoteService.SelectWinner(c.Request.Context(), actor, id, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "winner selected"}))
}

// GenerateOrders handles POST /quotes/:id/orders
// @Summary      Generate payment orders
// @Description  Creates one draft payment order per assigned supplier from the price matrix
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Quote ID"
// @Param        payload  body      service.GenerateOrdersRequest  true  "Item assignments"
// @Success      201      {object}  response.Response{data=[]model.PaymentOrder}
// @Failure      400      {object}  response.Response
// @Router       /quotes/{id}/orders [post]
func (h *QuoteHandler) GenerateOrders(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.GenerateOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	orders, err := h.quoteService.GenerateOrders(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, orders))
}

// AddAttachment handles POST /quotes/:id/attachments (multipart upload)
func (h *QuoteHandler) AddAttachment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing file"))
		return
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to prepare upload directory"))
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(uploadDir, storedName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to store file"))
		return
	}

	att := &model.QuoteAttachment{
		Filename: file.Filename,
		Path:     dst,
		Size:     file.Size,
	}
	if err := h.quoteService.AddAttachment(c.Request.Context(), actor, id, att); err != nil {
		_ = os.Remove(dst)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, att))
}

// DeleteAttachment handles DELETE /quotes/:id/attachments/:attID
func (h *QuoteHandler) DeleteAttachment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	attID, ok := parseID(c, "attID")
	if !ok {
		return
	}

	att, err := h.quoteService.DeleteAttachment(c.Request.Context(), actor, id, attID)
	if err != nil {
		writeError(c, err)
		return
	}
	_ = os.Remove(att.Path)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "attachment deleted"}))
}

// Transition handles POST /quotes/:id/actions/:action
// @Summary      Apply workflow action
// @Description  Applies one of submit, mark-reviewed, return-to-review, approve, reject, return-to-draft
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Quote ID"
// @Param        action  path      string  true  "Action"
// @Success      200     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Failure      422     {object}  response.Response
// @Router       /quotes/{id}/actions/{action} [post]
func (h *QuoteHandler) Transition(c *gin.Context) {
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

	if err := h.quoteService.ApplyTransition(c.Request.Context(), actor, id, t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "transition applied"}))
}
