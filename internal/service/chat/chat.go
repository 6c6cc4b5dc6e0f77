// Package chat 提供流式聊天中继
// 每次请求只取最近的消息窗口交给 Agent，回答落盘采用整体替换，可安全重放
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cloudwego/eino/adk"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/ashwinyue/odin-ai/internal/repository"
	"github.com/ashwinyue/odin-ai/internal/service/session"
)

const (
	// 交给模型的最近消息条数
	historyWindow = 10
	// Agent 工具调用轮数上限
	maxIterations = 10
	// 落盘超时，独立于请求生命周期
	persistTimeout = 10 * time.Second
)

var (
	// ErrEmptyMessages 消息列表过滤后为空
	ErrEmptyMessages = errors.New("messages must contain at least one non-empty entry")
	// ErrInvalidRole 消息角色不是 user/assistant
	ErrInvalidRole = errors.New("message role must be user or assistant")
	// ErrSessionNotFound 会话不存在
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotOwner 会话不属于当前用户
	ErrNotOwner = errors.New("session does not belong to user")
)

// ToolProvider 按用户构建工具列表
type ToolProvider interface {
	Tools(userID string) []tool.BaseTool
}

// Service 聊天服务
type Service struct {
	repo     repository.ChatRepository
	sessions *session.Manager
	model    einomodel.ToolCallingChatModel
	tools    ToolProvider
}

// NewService 创建聊天服务
func NewService(repo repository.ChatRepository, sessions *session.Manager, chatModel einomodel.ToolCallingChatModel, tools ToolProvider) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		model:    chatModel,
		tools:    tools,
	}
}

// Message 客户端消息
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamRequest 流式聊天请求
// UserID/UserEmail 由认证中间件注入，不从请求体读取
type StreamRequest struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages" binding:"required"`
	UserID    string    `json:"-"`
	UserEmail string    `json:"-"`
}

// StreamEvent 流式事件
type StreamEvent struct {
	Type     string `json:"type"` // start, message, tool_call, error, end
	Data     string `json:"data"`
	ToolName string `json:"tool_name,omitempty"`
}

// recentWindow 校验角色、过滤空消息并截取最近窗口
// 只接受 user/assistant；system 等其他角色一律拒绝，系统指令不由客户端提供
func recentWindow(messages []Message) ([]*schema.Message, error) {
	filtered := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		role, err := parseRole(msg.Role)
		if err != nil {
			return nil, err
		}
		if msg.Content == "" {
			continue
		}
		filtered = append(filtered, &schema.Message{
			Role:    role,
			Content: msg.Content,
		})
	}
	if len(filtered) > historyWindow {
		filtered = filtered[len(filtered)-historyWindow:]
	}
	return filtered, nil
}

// parseRole 校验并转换消息角色
func parseRole(role string) (schema.RoleType, error) {
	switch role {
	case "user":
		return schema.User, nil
	case "assistant":
		return schema.Assistant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
}

// mergeWindow 将缓存窗口中未出现在本次请求里的消息前置
// 客户端只发增量消息时用缓存补全上下文；重复消息按 (role, content) 去重
func mergeWindow(cached, posted []*schema.Message) []*schema.Message {
	if len(cached) == 0 {
		return posted
	}

	seen := make(map[string]struct{}, len(posted))
	for _, msg := range posted {
		seen[string(msg.Role)+"\x00"+msg.Content] = struct{}{}
	}

	merged := make([]*schema.Message, 0, len(cached)+len(posted))
	for _, msg := range cached {
		if _, ok := seen[string(msg.Role)+"\x00"+msg.Content]; !ok {
			merged = append(merged, msg)
		}
	}
	merged = append(merged, posted...)

	if len(merged) > historyWindow {
		merged = merged[len(merged)-historyWindow:]
	}
	return merged
}

// createAgent 为单次请求创建 eino Agent，工具绑定请求用户
func (s *Service) createAgent(ctx context.Context, userID string) (*adk.ChatModelAgent, error) {
	agentCfg := &adk.ChatModelAgentConfig{
		Name:          "odin",
		Description:   "DSA learning tutor agent",
		Instruction:   systemPrompt(time.Now()),
		Model:         s.model,
		MaxIterations: maxIterations,
	}

	selectedTools := s.tools.Tools(userID)
	if len(selectedTools) > 0 {
		agentCfg.ToolsConfig = adk.ToolsConfig{
			ToolsNodeConfig: compose.ToolsNodeConfig{
				Tools: selectedTools,
			},
		}
	}

	return adk.NewChatModelAgent(ctx, agentCfg)
}

// Stream 流式运行一轮对话
// 返回的通道由内部关闭；取消请求上下文即中止流，已产生的片段照常落盘
func (s *Service) Stream(ctx context.Context, req *StreamRequest) (<-chan StreamEvent, error) {
	window, err := recentWindow(req.Messages)
	if err != nil {
		return nil, err
	}
	if len(window) == 0 {
		return nil, ErrEmptyMessages
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	// 客户端只发增量时用缓存的会话窗口补全上下文
	if req.SessionID != "" && len(window) < historyWindow {
		window = mergeWindow(s.sessions.Get(ctx, sessionID).Messages, window)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	unregister := s.sessions.RegisterStream(sessionID, cancel)

	einoAgent, err := s.createAgent(streamCtx, req.UserID)
	if err != nil {
		unregister()
		cancel()
		return nil, err
	}

	input := make([]adk.Message, 0, len(window))
	for _, msg := range window {
		input = append(input, msg)
	}

	iter := einoAgent.Run(streamCtx, &adk.AgentInput{
		Messages:        input,
		EnableStreaming: true,
	})

	outCh := make(chan StreamEvent, 10)

	go func() {
		defer close(outCh)
		defer unregister()
		defer cancel()

		outCh <- StreamEvent{Type: "start", Data: sessionID}

		var fullAnswer string
		failed := false

	loop:
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}

			if event.Err != nil {
				if errors.Is(event.Err, io.EOF) {
					break
				}
				outCh <- StreamEvent{Type: "error", Data: event.Err.Error()}
				failed = true
				break
			}

			if event.Output != nil && event.Output.MessageOutput != nil {
				msgVar := event.Output.MessageOutput

				if msgVar.IsStreaming && msgVar.MessageStream != nil {
					for {
						chunk, err := msgVar.MessageStream.Recv()
						if err == io.EOF {
							break
						}
						if err != nil {
							outCh <- StreamEvent{Type: "error", Data: err.Error()}
							failed = true
							break loop
						}

						if chunk.Content != "" {
							outCh <- StreamEvent{Type: "message", Data: chunk.Content}
							fullAnswer += chunk.Content
						}
					}
				} else if msgVar.Message != nil {
					if msgVar.Role == schema.Assistant {
						if msgVar.Message.Content != "" {
							outCh <- StreamEvent{Type: "message", Data: msgVar.Message.Content}
							fullAnswer = msgVar.Message.Content
						}
					} else if msgVar.Role == schema.Tool {
						outCh <- StreamEvent{
							Type:     "tool_call",
							ToolName: msgVar.ToolName,
							Data:     msgVar.Message.Content,
						}
					}
				}
			}

			if event.Action != nil && event.Action.Exit {
				break
			}
		}

		// 错误中断时已有片段同样落盘，历史里保留截断的回答
		s.finishTurn(sessionID, req, window, fullAnswer)

		if !failed {
			outCh <- StreamEvent{Type: "end"}
		}
	}()

	return outCh, nil
}

// finishTurn 一轮对话结束后的落盘与缓存
// 使用独立上下文，请求取消不影响落盘
func (s *Service) finishTurn(sessionID string, req *StreamRequest, window []*schema.Message, answer string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	transcript := window
	if answer != "" {
		transcript = append(append([]*schema.Message{}, window...), schema.AssistantMessage(answer, nil))
	}

	title := ""
	if existing, err := s.repo.GetSessionByID(sessionID); err == nil && existing.Title != "" {
		title = existing.Title
	} else {
		title = s.generateTitle(ctx, firstUserContent(window))
	}

	sess := &model.ChatSession{
		ID:             sessionID,
		ExternalUserID: req.UserID,
		UserEmail:      req.UserEmail,
		Title:          title,
	}

	rows := make([]*model.ChatMessage, 0, len(transcript))
	for i, msg := range transcript {
		rows = append(rows, &model.ChatMessage{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Seq:       i + 1,
			Role:      string(msg.Role),
			Content:   msg.Content,
		})
	}

	if err := s.repo.ReplaceTranscript(sess, rows); err != nil {
		log.Printf("failed to persist transcript for session %s: %v", sessionID, err)
	}

	s.sessions.Remember(ctx, sessionID, transcript)
}

// firstUserContent 窗口中第一条用户消息
func firstUserContent(window []*schema.Message) string {
	for _, msg := range window {
		if msg.Role == schema.User {
			return msg.Content
		}
	}
	if len(window) > 0 {
		return window[0].Content
	}
	return ""
}

// History 按用户列出会话，最近更新在前
func (s *Service) History(ctx context.Context, userID string) ([]*model.ChatSession, error) {
	return s.repo.ListSessionsByUser(userID)
}

// Delete 删除用户自己的会话
func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	sess, err := s.repo.GetSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if sess.ExternalUserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.DeleteSession(sessionID); err != nil {
		return err
	}
	s.sessions.Forget(ctx, sessionID)
	return nil
}
