// Package submission 提供代码提交的保存与覆盖
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/ashwinyue/odin-ai/internal/repository"
)

// ErrEmptyCode 代码不能为空
var ErrEmptyCode = errors.New("code cannot be empty")

// Service 提交服务
type Service struct {
	repo repository.SubmissionRepository
}

// NewService 创建提交服务
func NewService(repo repository.SubmissionRepository) *Service {
	return &Service{repo: repo}
}

// SubmitRequest 提交请求
type SubmitRequest struct {
	Slug         string `json:"slug" binding:"required"`
	Code         string `json:"code" binding:"required"`
	Language     string `json:"language" binding:"required"`
	Timestamp    string `json:"timestamp" binding:"required"`
	ProblemTitle string `json:"problemTitle"`
}

// SubmitResponse 提交响应
type SubmitResponse struct {
	Success        bool   `json:"success"`
	ExternalUserID string `json:"externalUserId"`
	Message        string `json:"message"`
	SubmissionID   string `json:"submissionId"`
	IsUpdate       bool   `json:"isUpdate"`
}

// Submit 保存或覆盖用户在某题上的提交
// (user, slug) 对应唯一记录，写入经由 ON CONFLICT 原子完成
func (s *Service) Submit(ctx context.Context, externalUserID string, req *SubmitRequest) (*SubmitResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	sub := &model.CodeSubmission{
		ExternalUserID:   externalUserID,
		QuestionSlug:     req.Slug,
		Code:             code,
		Language:         req.Language,
		ProblemTitle:     req.ProblemTitle,
		SubmissionStatus: "accepted",
	}

	// isUpdate 仅用于响应文案；写入本身不依赖这次读取
	// 只有明确的"不存在"才当首次提交，其他读错误直接上抛
	isUpdate := false
	existing, err := s.repo.GetByUserAndSlug(externalUserID, req.Slug)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub.ID = uuid.New().String()
	case err != nil:
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	default:
		isUpdate = true
		sub.ID = existing.ID
	}

	if err := s.repo.Upsert(sub); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	message := "Code submission saved successfully"
	if isUpdate {
		message = "Code submission updated successfully"
	}

	return &SubmitResponse{
		Success:        true,
		ExternalUserID: externalUserID,
		Message:        message,
		SubmissionID:   sub.ID,
		IsUpdate:       isUpdate,
	}, nil
}
