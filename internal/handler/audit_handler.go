package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hectorisrael87/fundacion-sys/internal/middleware"
	"github.com/hectorisrael87/fundacion-sys/internal/service"
	"github.com/hectorisrael87/fundacion-sys/pkg/pagination"
	"github.com/hectorisrael87/fundacion-sys/pkg/response"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// RegisterRoutes binds the audit trail endpoints
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit", middleware.RequireAuth(), h.List)
}

// List handles GET /audit
// @Summary      List audit entries
// @Description  Returns the audit trail, newest first. Approver capability required.
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=[]model.AuditLog}
// @Failure      403    {object}  response.Response
// @Router       /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	p := pagination.Parse(c)

	entries, total, err := h.auditService.List(c.Request.Context(), actor, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, p.Page, p.Limit, total))
}
