package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/odin-ai/internal/service"
)

// SearchHandler 搜索处理器
type SearchHandler struct {
	svc *service.Services
}

// NewSearchHandler 创建搜索处理器
func NewSearchHandler(svc *service.Services) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// searchRequest 搜索请求
type searchRequest struct {
	Query string `json:"query" binding:"required,min=1"`
}

// Search 网络搜索
// 提供方故障时返回降级结果，状态码仍是 200
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	results, err := h.svc.Search.SearchWeb(c.Request.Context(), req.Query)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{
		"query":   req.Query,
		"results": results,
	})
}
