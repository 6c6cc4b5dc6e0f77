package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/odin-ai/internal/middleware"
	"github.com/ashwinyue/odin-ai/internal/service"
	"github.com/ashwinyue/odin-ai/internal/service/submission"
)

// SubmissionHandler 代码提交处理器
type SubmissionHandler struct {
	svc *service.Services
}

// NewSubmissionHandler 创建代码提交处理器
func NewSubmissionHandler(svc *service.Services) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Submit 保存代码提交
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req submission.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID := middleware.CurrentUserID(c)

	resp, err := h.svc.Submission.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		if err == submission.ErrEmptyCode {
			badRequest(c, err)
			return
		}
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
