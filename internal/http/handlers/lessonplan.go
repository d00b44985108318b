package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/lessonplan-backend/internal/http/middleware"
	"github.com/yungbote/lessonplan-backend/internal/http/response"
	"github.com/yungbote/lessonplan-backend/internal/lessonplan"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
	"github.com/yungbote/lessonplan-backend/internal/services"
)

type LessonPlanHandler struct {
	log *logger.Logger
	svc services.LessonPlanService
}

func NewLessonPlanHandler(log *logger.Logger, svc services.LessonPlanService) *LessonPlanHandler {
	return &LessonPlanHandler{log: log.With("handler", "LessonPlanHandler"), svc: svc}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type chatRequest struct {
	Prompt      string                 `json:"prompt"`
	CurrentPlan *lessonplan.LessonPlan `json:"currentPlan,omitempty"`
	Question    string                 `json:"question,omitempty"`
}

type rawTextResponse struct {
	RawText string `json:"rawText"`
}

type chatPlanResponse struct {
	UpdatedPlan *lessonplan.LessonPlan `json:"updatedPlan"`
}

type failureDetails struct {
	Category   lessonplan.Category `json:"category"`
	Attempts   int                 `json:"attempts"`
	Candidates []string            `json:"candidates,omitempty"`
}

// POST /gemini/generate-lesson-plan
func (h *LessonPlanHandler) GenerateLessonPlan(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", services.ErrEmptyPrompt.Error(), nil)
		return
	}

	res, err := h.svc.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	markResult(c, res)
	if res.IsPlan() {
		response.RespondOK(c, res.Plan)
		return
	}
	response.RespondOK(c, rawTextResponse{RawText: res.RawText})
}

// POST /gemini/chat-with-lesson-plan
func (h *LessonPlanHandler) ChatWithLessonPlan(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", services.ErrEmptyChatPrompt.Error(), nil)
		return
	}

	res, err := h.svc.Chat(c.Request.Context(), services.ChatInput{
		Prompt:      req.Prompt,
		CurrentPlan: req.CurrentPlan,
		Question:    req.Question,
	})
	if err != nil {
		h.respondFailure(c, err)
		return
	}
	markResult(c, res)
	if res.IsPlan() {
		response.RespondOK(c, chatPlanResponse{UpdatedPlan: res.Plan})
		return
	}
	response.RespondOK(c, rawTextResponse{RawText: res.RawText})
}

// markResult exposes the answering candidate to the request logger.
func markResult(c *gin.Context, res *lessonplan.Result) {
	c.Set(httpMW.CtxKeyCandidate, res.Candidate)
	c.Set(httpMW.CtxKeyFallbacks, len(res.Failures))
}

func (h *LessonPlanHandler) respondFailure(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, lessonplan.ErrCanceled) {
		c.AbortWithStatus(response.StatusClientClosedRequest)
		return
	}

	var gerr *lessonplan.GenerationError
	if errors.As(err, &gerr) {
		c.Set(httpMW.CtxKeyFailureCategory, string(gerr.Category))
		response.RespondError(c, http.StatusInternalServerError, string(gerr.Category), gerr.Message, failureDetails{
			Category:   gerr.Category,
			Attempts:   gerr.Attempts,
			Candidates: h.svc.Candidates(),
		})
		return
	}

	response.RespondAPIError(c, err)
}
