// Package handler HTTP 处理器
package handler

import (
	"github.com/ashwinyue/odin-ai/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Chat       *ChatHandler
	Auth       *AuthHandler
	Search     *SearchHandler
	Submission *SubmissionHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Chat:       NewChatHandler(svc),
		Auth:       NewAuthHandler(svc),
		Search:     NewSearchHandler(svc),
		Submission: NewSubmissionHandler(svc),
	}
}
