package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/lessonplan-backend/internal/domain"
	"github.com/yungbote/lessonplan-backend/internal/http/response"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
	"github.com/yungbote/lessonplan-backend/internal/services"
)

type CurriculumHandler struct {
	log *logger.Logger
	svc services.CurriculumService
}

func NewCurriculumHandler(log *logger.Logger, svc services.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{log: log.With("handler", "CurriculumHandler"), svc: svc}
}

type upsertLessonsRequest struct {
	Lessons []*types.CurriculumLesson `json:"lessons"`
}

// GET /curriculum
func (h *CurriculumHandler) ListLessons(c *gin.Context) {
	lessons, err := h.svc.ListLessons(c.Request.Context())
	if err != nil {
		h.log.Error("List curriculum failed", "error", err)
		response.RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

// GET /curriculum/:number
func (h *CurriculumHandler) GetLesson(c *gin.Context) {
	lesson, err := h.svc.GetLesson(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

// POST /curriculum
func (h *CurriculumHandler) CreateLesson(c *gin.Context) {
	var lesson types.CurriculumLesson
	if err := c.ShouldBindJSON(&lesson); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err.Error(), nil)
		return
	}
	out, err := h.svc.CreateLesson(c.Request.Context(), &lesson)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lesson": out})
}

// PUT /curriculum
func (h *CurriculumHandler) UpsertLessons(c *gin.Context) {
	var req upsertLessonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err.Error(), nil)
		return
	}
	if len(req.Lessons) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", "Nenhuma aula enviada.", nil)
		return
	}

	lessons, err := h.svc.UpsertLessons(c.Request.Context(), req.Lessons)
	if err != nil {
		h.log.Error("Upsert curriculum failed", "error", err)
		response.RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

// DELETE /curriculum/:number
func (h *CurriculumHandler) DeleteLesson(c *gin.Context) {
	if err := h.svc.DeleteLesson(c.Request.Context(), c.Param("number")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
