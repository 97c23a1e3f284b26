package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
	"github.com/hectorisrael87/fundacion-sys/pkg/response"
)

// writeError maps domain errors onto HTTP statuses and error codes so every
// handler reports the workflow failures the same way. Readiness failures
// carry the full reason list so the client can show all of them at once.
func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	code := response.CodeBadRequest

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status, code = http.StatusNotFound, response.CodeNotFound
	case errors.Is(err, workflow.ErrPermissionDenied):
		status, code = http.StatusForbidden, response.CodePermissionDenied
	case errors.Is(err, workflow.ErrIllegalTransition):
		status, code = http.StatusConflict, response.CodeIllegalTransition
	case errors.Is(err, workflow.ErrProtectedReference):
		status, code = http.StatusConflict, response.CodeProtectedReference
	case errors.Is(err, workflow.ErrReadinessFailed):
		status, code = http.StatusUnprocessableEntity, response.CodeNotReady
	case errors.Is(err, workflow.ErrComplementNotAllowed):
		status, code = http.StatusUnprocessableEntity, response.CodeComplementForbidden
	}

	var readiness *workflow.ReadinessError
	if errors.As(err, &readiness) {
		c.JSON(status, response.Failure(status, code, err.Error(), readiness.Reasons...))
		return
	}
	c.JSON(status, response.Failure(status, code, err.Error()))
}
