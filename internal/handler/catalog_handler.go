package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hectorisrael87/fundacion-sys/internal/middleware"
	"github.com/hectorisrael87/fundacion-sys/internal/service"
	"github.com/hectorisrael87/fundacion-sys/pkg/pagination"
	"github.com/hectorisrael87/fundacion-sys/pkg/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes binds the supplier and product master endpoints
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	suppliers := router.Group("/suppliers", middleware.RequireAuth())
	{
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplier)
		suppliers.POST("", h.CreateSupplier)
		suppliers.PUT("/:id", h.UpdateSupplier)
		suppliers.DELETE("/:id", h.DeleteSupplier)
	}

	products := router.Group("/products", middleware.RequireAuth())
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// ListSuppliers handles GET /suppliers
// @Summary      List suppliers
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        active  query     bool  false  "Only active entries"
// @Param        page    query     int   false  "Page number"
// @Param        limit   query     int   false  "Page size"
// @Success      200     {object}  response.Response
// @Router       /suppliers [get]
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	p := pagination.Parse(c)
	onlyActive := c.Query("active") == "true"

	suppliers, total, err := h.catalogService.ListSuppliers(c.Request.Context(), onlyActive, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, suppliers, p.Page, p.Limit, total))
}

// GetSupplier handles GET /suppliers/:id
func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sup, err := h.catalogService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sup))
}

// CreateSupplier handles POST /suppliers
// @Summary      Create supplier
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SupplierRequest  true  "Supplier"
// @Success      201      {object}  response.Response{data=model.Supplier}
// @Router       /suppliers [post]
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sup, err := h.catalogService.CreateSupplier(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sup))
}

// UpdateSupplier handles PUT /suppliers/:id
func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sup, err := h.catalogService.UpdateSupplier(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sup))
}

// DeleteSupplier handles DELETE /suppliers/:id
// @Summary      Delete supplier
// @Description  Refused when the supplier appears on any quote or order; deactivate instead
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /suppliers/{id} [delete]
func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteSupplier(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "supplier deleted"}))
}

// ListProducts handles GET /products
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        active  query     bool  false  "Only active entries"
// @Param        page    query     int   false  "Page number"
// @Param        limit   query     int   false  "Page size"
// @Success      200     {object}  response.Response
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	p := pagination.Parse(c)
	onlyActive := c.Query("active") == "true"

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), onlyActive, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, products, p.Page, p.Limit, total))
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p))
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	p, err := h.catalogService.CreateProduct(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, p))
}

// UpdateProduct handles PUT /products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	p, err := h.catalogService.UpdateProduct(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p))
}

// DeleteProduct handles DELETE /products/:id
// @Summary      Delete product
// @Description  Refused when the product appears on any quote or order; deactivate instead
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "product deleted"}))
}
