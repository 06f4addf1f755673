package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldlogger/internal/repository"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	respond(c, http.StatusOK, data, meta)
}

func Created(c *gin.Context, data any) {
	respond(c, http.StatusCreated, data, nil)
}

func respond(c *gin.Context, status int, data any, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// storageFailure maps a store error to 503 and anything else to 500.
func storageFailure(c *gin.Context, log *zap.Logger, op string, err error) {
	if log != nil {
		log.Warn(op+" failed", zap.Error(err))
	}
	var se *repository.StorageError
	if errors.As(err, &se) && se.Code != "" {
		Error(c, http.StatusServiceUnavailable, repository.ErrStorageUnavailable.Error(), map[string]any{"op": se.Op, "code": se.Code})
		return
	}
	if errors.Is(err, repository.ErrStorageUnavailable) {
		Error(c, http.StatusServiceUnavailable, repository.ErrStorageUnavailable.Error(), nil)
		return
	}
	Error(c, http.StatusInternalServerError, err.Error(), nil)
}
