package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldlogger/internal/inspection"
	"fieldlogger/internal/repository"
	"fieldlogger/internal/service"
)

type InspectionHandler struct {
	Service *service.SubmissionService
	Repo    repository.InspectionRepository
	Logger  *zap.Logger
}

func (h *InspectionHandler) Register(r *gin.Engine) {
	useJSONFieldNames()
	group := r.Group("/api/inspections")
	group.POST("", h.create)
	group.POST("/sync", h.sync)
	group.POST("/sync/batch", h.syncBatch)
	group.GET("", h.list)
	group.GET("/status/:status", h.listByStatus)
	group.GET("/:id", h.get)
}

type createInspectionRequest struct {
	ID         string `json:"id" binding:"required,uuid"`
	Location   string `json:"location" binding:"required,min=3"`
	Technician string `json:"technician" binding:"required,min=2"`
	Findings   string `json:"findings" binding:"required,min=10"`
}

type syncInspectionRequest struct {
	ID         string     `json:"id" binding:"required,uuid"`
	Location   string     `json:"location" binding:"required,min=3"`
	Technician string     `json:"technician" binding:"required,min=2"`
	Findings   string     `json:"findings" binding:"required,min=10"`
	Status     string     `json:"status" binding:"omitempty,oneof=pending synced"`
	CreatedAt  *time.Time `json:"createdAt"`
}

type syncBatchRequest struct {
	Inspections []syncInspectionRequest `json:"inspections" binding:"required,min=1,dive"`
}

func (r syncInspectionRequest) submission() service.Submission {
	return service.Submission{
		ID:         r.ID,
		Location:   r.Location,
		Technician: r.Technician,
		Findings:   r.Findings,
		Status:     inspection.Status(r.Status),
		CreatedAt:  r.CreatedAt,
		Replay:     true,
	}
}

// @Summary Submit an inspection
// @Tags inspections
// @Accept json
// @Param body body createInspectionRequest true "inspection"
// @Success 201 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/inspections [post]
func (h *InspectionHandler) create(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req createInspectionRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.Service.Execute(c.Request.Context(), service.Submission{
		ID:         req.ID,
		Location:   req.Location,
		Technician: req.Technician,
		Findings:   req.Findings,
	})
	if err != nil {
		storageFailure(c, h.Logger, "inspection create", err)
		return
	}
	Created(c, rec.View())
}

// @Summary Replay an inspection recorded offline
// @Description The stored record is always marked synced.
// @Tags inspections
// @Accept json
// @Param body body syncInspectionRequest true "inspection"
// @Success 201 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/inspections/sync [post]
func (h *InspectionHandler) sync(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req syncInspectionRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.Service.Execute(c.Request.Context(), req.submission())
	if err != nil {
		storageFailure(c, h.Logger, "inspection sync", err)
		return
	}
	Created(c, rec.View())
}

// @Summary Replay a queue of offline inspections
// @Tags inspections
// @Accept json
// @Param body body syncBatchRequest true "queue"
// @Success 200 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Router /api/inspections/sync/batch [post]
func (h *InspectionHandler) syncBatch(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req syncBatchRequest
	if !bindJSON(c, &req) {
		return
	}
	subs := make([]service.Submission, 0, len(req.Inspections))
	for _, item := range req.Inspections {
		subs = append(subs, item.submission())
	}
	res := h.Service.SyncBatch(c.Request.Context(), subs)
	Ok(c, res, map[string]any{"synced": res.Synced, "failed": res.Failed})
}

// @Summary List inspections
// @Tags inspections
// @Success 200 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/inspections [get]
func (h *InspectionHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.FindAll(c.Request.Context())
	if err != nil {
		storageFailure(c, h.Logger, "inspection list", err)
		return
	}
	Ok(c, inspection.Views(items), map[string]any{"count": len(items)})
}

// @Summary Get one inspection
// @Tags inspections
// @Param id path string true "inspection id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/inspections/{id} [get]
func (h *InspectionHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	rec, found, err := h.Repo.FindByID(c.Request.Context(), id)
	if err != nil {
		storageFailure(c, h.Logger, "inspection get", err)
		return
	}
	if !found {
		Error(c, http.StatusNotFound, "Inspection not found", map[string]any{"id": id})
		return
	}
	Ok(c, rec.View(), nil)
}

// @Summary List inspections by status
// @Tags inspections
// @Param status path string true "pending|synced"
// @Success 200 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Router /api/inspections/status/{status} [get]
func (h *InspectionHandler) listByStatus(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	status, err := inspection.ParseStatus(c.Param("status"))
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	items, err := h.Repo.FindByStatus(c.Request.Context(), status)
	if err != nil {
		storageFailure(c, h.Logger, "inspection list by status", err)
		return
	}
	Ok(c, inspection.Views(items), map[string]any{"count": len(items), "status": string(status)})
}
