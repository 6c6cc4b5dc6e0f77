package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/ashwinyue/odin-ai/internal/model"
)

// NewQuestion 创建测试题目
func NewQuestion(seq int, title, slug, difficulty, topic string) *model.Question {
	return &model.Question{
		ID:         uuid.New().String(),
		Seq:        seq,
		Title:      title,
		Slug:       slug,
		Difficulty: difficulty,
		Topic:      topic,
		CreatedAt:  time.Now(),
	}
}

// NewSubmission 创建测试提交
func NewSubmission(userID, slug, title string) *model.CodeSubmission {
	now := time.Now()
	return &model.CodeSubmission{
		ID:               uuid.New().String(),
		ExternalUserID:   userID,
		QuestionSlug:     slug,
		ProblemTitle:     title,
		Code:             "func solve() {}",
		Language:         "go",
		SubmissionStatus: "accepted",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewChatSession 创建测试会话
func NewChatSession(userID, title string) *model.ChatSession {
	now := time.Now()
	return &model.ChatSession{
		ID:             uuid.New().String(),
		ExternalUserID: userID,
		UserEmail:      userID + "@example.com",
		Title:          title,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
