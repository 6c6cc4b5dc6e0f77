package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"
)

// 标题最大长度（按字符计）
const maxTitleLen = 50

// systemPrompt Odin 导师人设
func systemPrompt(now time.Time) string {
	return fmt.Sprintf(`You are Odin, a friendly and knowledgeable DSA (Data Structures and Algorithms) tutor embedded in a coding practice assistant. Today's date is %s.

Your role:
- Help learners understand data structures and algorithms concepts with clear, approachable explanations.
- Guide users toward solutions with hints and questions rather than handing over full answers immediately.
- When asked about the user's progress, use the get_user_progress_overview tool.
- When asked to recommend practice problems, use the get_filtered_questions tool with relevant topic tags.
- When asked about current events or information beyond your knowledge, use the web_search tool.

Style:
- Be encouraging and concise. Use code snippets when they clarify a point.
- Adapt difficulty to the user's demonstrated level.
- If a question is unrelated to programming or DSA, politely steer the conversation back.`, now.Format("January 2, 2006"))
}

// titleInstruction 标题生成提示
const titleInstruction = `Generate a short title (at most 6 words) summarizing the user's question. Respond with JSON only: {"title": "..."}`

// titlePayload 模型返回的标题结构
type titlePayload struct {
	Title string `json:"title"`
}

// generateTitle 用模型为新会话生成标题
// 模型输出可能是不完整 JSON，先修复再解析；失败时回退为消息截断
func (s *Service) generateTitle(ctx context.Context, firstMessage string) string {
	if firstMessage == "" {
		return "New Chat"
	}

	msg, err := s.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(titleInstruction),
		schema.UserMessage(firstMessage),
	})
	if err != nil {
		return fallbackTitle(firstMessage)
	}

	repaired, err := jsonrepair.JSONRepair(msg.Content)
	if err != nil {
		return fallbackTitle(firstMessage)
	}

	var payload titlePayload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil || strings.TrimSpace(payload.Title) == "" {
		return fallbackTitle(firstMessage)
	}

	return truncateTitle(strings.TrimSpace(payload.Title))
}

// fallbackTitle 以首条消息截断作为标题
func fallbackTitle(message string) string {
	title := strings.TrimSpace(message)
	if title == "" {
		return "New Chat"
	}
	return truncateTitle(title)
}

// truncateTitle 按字符截断标题
func truncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleLen {
		return title
	}
	runes := []rune(title)
	return string(runes[:maxTitleLen]) + "..."
}
