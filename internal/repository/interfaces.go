// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import (
	"time"

	"github.com/ashwinyue/odin-ai/internal/model"
)

// ChatRepository 聊天数据访问接口
type ChatRepository interface {
	GetSessionByID(id string) (*model.ChatSession, error)
	ListSessionsByUser(externalUserID string) ([]*model.ChatSession, error)
	// ReplaceTranscript 以单事务落盘整个会话：会话行 upsert，消息整体替换。
	// 以 session id 为键可重复执行，结果一致。
	ReplaceTranscript(session *model.ChatSession, messages []*model.ChatMessage) error
	DeleteSession(id string) error
}

// SubmissionRepository 代码提交数据访问接口
type SubmissionRepository interface {
	GetByUserAndSlug(externalUserID, questionSlug string) (*model.CodeSubmission, error)
	// Upsert 以 (external_user_id, question_slug) 为键的原子写入（ON CONFLICT）
	Upsert(sub *model.CodeSubmission) error
	ListByUserSince(externalUserID string, since time.Time) ([]*model.CodeSubmission, error)
	ListSlugsByUser(externalUserID string) ([]string, error)
}

// QuestionRepository 题库数据访问接口
type QuestionRepository interface {
	ListAll() ([]*model.Question, error)
	// ListByTopics 返回命中任一主题的题目，保持题库录入顺序
	ListByTopics(topics []string) ([]*model.Question, error)
}

// AuthRepository 用户数据访问接口
type AuthRepository interface {
	GetUserByEmail(email string) (*model.User, error)
	TouchUser(id string) error
}

// 确保实现满足接口
var (
	_ ChatRepository       = (*chatRepositoryImpl)(nil)
	_ SubmissionRepository = (*submissionRepositoryImpl)(nil)
	_ QuestionRepository   = (*questionRepositoryImpl)(nil)
	_ AuthRepository       = (*authRepositoryImpl)(nil)
)
