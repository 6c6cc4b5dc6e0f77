package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/odin-ai/internal/middleware"
	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/ashwinyue/odin-ai/internal/service"
	"github.com/ashwinyue/odin-ai/internal/service/chat"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// writeFrame 写一行带前缀的数据帧并立即刷出
func writeFrame(c *gin.Context, prefix string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "%s:%s\n", prefix, raw)
	c.Writer.Flush()
}

// Stream 流式聊天
// 响应为 chunked text/plain，每行一个前缀帧：
//
//	f: 流开始（会话 ID）
//	0: 文本片段
//	9: 工具调用结果
//	3: 错误（终止帧）
//	d: 正常结束
func (h *ChatHandler) Stream(c *gin.Context) {
	var req chat.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.UserID = middleware.CurrentUserID(c)
	req.UserEmail = middleware.CurrentUserEmail(c)

	eventCh, err := h.svc.Chat.Stream(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessages) || errors.Is(err, chat.ErrInvalidRole) {
			badRequest(c, err)
			return
		}
		errorResponse(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Transfer-Encoding", "chunked")
	c.Status(http.StatusOK)

	for event := range eventCh {
		select {
		case <-c.Request.Context().Done():
			return
		default:
		}

		switch event.Type {
		case "start":
			writeFrame(c, "f", gin.H{"sessionId": event.Data})
		case "message":
			writeFrame(c, "0", event.Data)
		case "tool_call":
			writeFrame(c, "9", gin.H{"toolName": event.ToolName, "result": event.Data})
		case "error":
			writeFrame(c, "3", event.Data)
			return
		case "end":
			writeFrame(c, "d", gin.H{"finishReason": "stop"})
			return
		}
	}
}

// historyItem 历史会话条目
type historyItem struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
	Messages  []historyMessage `json:"messages"`
}

// historyMessage 历史消息条目
type historyMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History 列出用户的历史会话
func (h *ChatHandler) History(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	sessions, err := h.svc.Chat.History(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	items := make([]historyItem, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, toHistoryItem(sess))
	}

	success(c, gin.H{"sessions": items})
}

// toHistoryItem 转换会话为响应条目
func toHistoryItem(sess *model.ChatSession) historyItem {
	messages := make([]historyMessage, 0, len(sess.Messages))
	for _, msg := range sess.Messages {
		messages = append(messages, historyMessage{
			ID:      msg.ID,
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return historyItem{
		ID:        sess.ID,
		Title:     sess.Title,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339),
		UpdatedAt: sess.UpdatedAt.Format(time.RFC3339),
		Messages:  messages,
	}
}

// Delete 删除会话
func (h *ChatHandler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	sessionID := c.Param("id")

	err := h.svc.Chat.Delete(c.Request.Context(), userID, sessionID)
	switch err {
	case nil:
		success(c, gin.H{"message": "Chat deleted successfully"})
	case chat.ErrSessionNotFound:
		notFound(c, "Chat not found")
	case chat.ErrNotOwner:
		unauthorized(c, "Not authorized to delete this chat")
	default:
		errorResponse(c, err)
	}
}
