package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hectorisrael87/fundacion-sys/internal/middleware"
	"github.com/hectorisrael87/fundacion-sys/internal/service"
	"github.com/hectorisrael87/fundacion-sys/pkg/response"
)

type WorkbenchHandler struct {
	workbenchService service.WorkbenchService
}

func NewWorkbenchHandler(workbenchService service.WorkbenchService) *WorkbenchHandler {
	return &WorkbenchHandler{workbenchService: workbenchService}
}

// RegisterRoutes binds the workbench endpoints
func (h *WorkbenchHandler) RegisterRoutes(router *gin.RouterGroup) {
	wb := router.Group("/workbench", middleware.RequireAuth())
	{
		wb.GET("", h.Workbench)
		wb.GET("/pending-counts", h.PendingCounts)
		wb.GET("/live", h.LiveStatus)
	}
}

// Workbench handles GET /workbench
// @Summary      Workbench buckets
// @Description  Returns the caller's document buckets: own drafts and rejections, pending review/approval queues per capability, and next-order pointers per pending quote
// @Tags         workbench
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.WorkbenchResponse}
// @Router       /workbench [get]
func (h *WorkbenchHandler) Workbench(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	wb, err := h.workbenchService.Workbench(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wb))
}

// PendingCounts handles GET /workbench/pending-counts
// @Summary      Pending counts
// @Description  Lightweight badge counts for polling clients; the websocket pushes the same events
// @Tags         workbench
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.PendingCountsResponse}
// @Router       /workbench/pending-counts [get]
func (h *WorkbenchHandler) PendingCounts(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	counts, err := h.workbenchService.PendingCounts(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, counts))
}

// LiveStatus handles GET /workbench/live
// @Summary      Live document status
// @Description  Current status, bucket and badge label for the requested documents, respecting the caller's visibility
// @Tags         workbench
// @Produce      json
// @Security     BearerAuth
// @Param        kind  query  string  true  "Document kind: cc or op"
// @Param        ids   query  string  true  "Comma-separated document IDs"
// @Success      200  {object}  response.Response{data=service.LiveStatusResponse}
// @Router       /workbench/live [get]
func (h *WorkbenchHandler) LiveStatus(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	kind := strings.TrimSpace(c.Query("kind"))
	var ids []uuid.UUID
	for _, part := range strings.Split(c.Query("ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	live, err := h.workbenchService.LiveStatus(c.Request.Context(), actor, kind, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, live))
}
