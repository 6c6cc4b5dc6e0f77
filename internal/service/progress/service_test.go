// Package progress 进度服务单元测试
package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/ashwinyue/odin-ai/internal/testutil"
)

// mockQuestionRepository Mock Question Repository
type mockQuestionRepository struct {
	questions []*model.Question
	listError error
}

func (m *mockQuestionRepository) ListAll() ([]*model.Question, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.questions, nil
}

func (m *mockQuestionRepository) ListByTopics(topics []string) ([]*model.Question, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	wanted := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		wanted[topic] = struct{}{}
	}
	result := make([]*model.Question, 0)
	for _, q := range m.questions {
		if _, ok := wanted[q.Topic]; ok {
			result = append(result, q)
		}
	}
	return result, nil
}

// mockSubmissionRepository Mock Submission Repository
type mockSubmissionRepository struct {
	submissions []*model.CodeSubmission
	listError   error
}

func (m *mockSubmissionRepository) GetByUserAndSlug(userID, slug string) (*model.CodeSubmission, error) {
	for _, sub := range m.submissions {
		if sub.ExternalUserID == userID && sub.QuestionSlug == slug {
			return sub, nil
		}
	}
	return nil, errors.New("submission not found")
}

func (m *mockSubmissionRepository) Upsert(sub *model.CodeSubmission) error {
	m.submissions = append(m.submissions, sub)
	return nil
}

func (m *mockSubmissionRepository) ListByUserSince(userID string, since time.Time) ([]*model.CodeSubmission, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	result := make([]*model.CodeSubmission, 0)
	for _, sub := range m.submissions {
		if sub.ExternalUserID != userID {
			continue
		}
		if !since.IsZero() && sub.UpdatedAt.Before(since) {
			continue
		}
		result = append(result, sub)
	}
	return result, nil
}

func (m *mockSubmissionRepository) ListSlugsByUser(userID string) ([]string, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	slugs := make([]string, 0)
	for _, sub := range m.submissions {
		if sub.ExternalUserID == userID {
			slugs = append(slugs, sub.QuestionSlug)
		}
	}
	return slugs, nil
}

func submission(userID, slug, status string, updatedAt time.Time) *model.CodeSubmission {
	sub := testutil.NewSubmission(userID, slug, slug)
	sub.SubmissionStatus = status
	sub.UpdatedAt = updatedAt
	return sub
}

func catalog() *mockQuestionRepository {
	return &mockQuestionRepository{questions: []*model.Question{
		testutil.NewQuestion(1, "Two Sum", "two-sum", "easy", "arrays"),
		testutil.NewQuestion(2, "Valid Parentheses", "valid-parentheses", "easy", "stacks"),
		testutil.NewQuestion(3, "3Sum", "3sum", "medium", "arrays"),
		testutil.NewQuestion(4, "Trapping Rain Water", "trapping-rain-water", "hard", "two-pointers"),
	}}
}

func TestGetOverview(t *testing.T) {
	questions := catalog()
	now := time.Now()
	subs := &mockSubmissionRepository{submissions: []*model.CodeSubmission{
		submission("user-1", "two-sum", "accepted", now),
		submission("user-1", "3sum", "accepted", now),
		submission("user-1", "valid-parentheses", "pending", now),
		submission("user-2", "two-sum", "accepted", now),
	}}
	svc := NewService(questions, subs)

	overview, err := svc.GetOverview(context.Background(), "user-1", "all")
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}

	if overview.TotalProblems != 4 {
		t.Errorf("Expected 4 total problems, got %d", overview.TotalProblems)
	}
	// 只统计 accepted
	if overview.SolvedProblems != 2 {
		t.Errorf("Expected 2 solved problems, got %d", overview.SolvedProblems)
	}
	if overview.DifficultyBreakdown["easy"] != 1 || overview.DifficultyBreakdown["medium"] != 1 {
		t.Errorf("Unexpected breakdown: %v", overview.DifficultyBreakdown)
	}
	if len(overview.Topics) != 3 {
		t.Errorf("Expected 3 topics, got %v", overview.Topics)
	}
	if len(overview.RecentActivity) != 2 {
		t.Errorf("Expected 2 activities, got %d", len(overview.RecentActivity))
	}
}

func TestGetOverviewTimeRange(t *testing.T) {
	questions := catalog()
	now := time.Now()
	subs := &mockSubmissionRepository{submissions: []*model.CodeSubmission{
		submission("user-1", "two-sum", "accepted", now),
		submission("user-1", "3sum", "accepted", now.AddDate(0, 0, -30)),
	}}
	svc := NewService(questions, subs)

	overview, err := svc.GetOverview(context.Background(), "user-1", "week")
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}
	if overview.SolvedProblems != 1 {
		t.Errorf("Expected 1 solved within week, got %d", overview.SolvedProblems)
	}
}

func TestGetOverviewInvalidTimeRange(t *testing.T) {
	svc := NewService(catalog(), &mockSubmissionRepository{})

	if _, err := svc.GetOverview(context.Background(), "user-1", "decade"); err == nil {
		t.Fatal("Expected error for invalid time range")
	}
}

func TestGetFilteredQuestionsRequiresTopics(t *testing.T) {
	svc := NewService(catalog(), &mockSubmissionRepository{})

	if _, err := svc.GetFilteredQuestions(context.Background(), "user-1", nil, 50, false); err == nil {
		t.Fatal("Expected error when topics is empty")
	}
}

func TestGetFilteredQuestionsByTopic(t *testing.T) {
	svc := NewService(catalog(), &mockSubmissionRepository{})

	views, err := svc.GetFilteredQuestions(context.Background(), "user-1", []string{"arrays"}, 50, false)
	if err != nil {
		t.Fatalf("GetFilteredQuestions failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("Expected 2 arrays questions, got %d", len(views))
	}
	// 保持题库录入顺序
	if views[0].Slug != "two-sum" || views[1].Slug != "3sum" {
		t.Errorf("Unexpected order: %s, %s", views[0].Slug, views[1].Slug)
	}
}

func TestGetFilteredQuestionsLimit(t *testing.T) {
	svc := NewService(catalog(), &mockSubmissionRepository{})

	views, err := svc.GetFilteredQuestions(context.Background(), "user-1", []string{"arrays"}, 1, false)
	if err != nil {
		t.Fatalf("GetFilteredQuestions failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected exactly 1 question, got %d", len(views))
	}
	if views[0].Slug != "two-sum" {
		t.Errorf("Expected two-sum first, got %s", views[0].Slug)
	}
}

func TestGetFilteredQuestionsUnsolvedOnly(t *testing.T) {
	subs := &mockSubmissionRepository{submissions: []*model.CodeSubmission{
		submission("user-1", "two-sum", "accepted", time.Now()),
	}}
	svc := NewService(catalog(), subs)

	views, err := svc.GetFilteredQuestions(context.Background(), "user-1", []string{"arrays"}, 50, true)
	if err != nil {
		t.Fatalf("GetFilteredQuestions failed: %v", err)
	}
	if len(views) != 1 || views[0].Slug != "3sum" {
		t.Fatalf("Expected only unsolved 3sum, got %+v", views)
	}

	// 不过滤时带 isSolved 标记
	all, err := svc.GetFilteredQuestions(context.Background(), "user-1", []string{"arrays"}, 50, false)
	if err != nil {
		t.Fatalf("GetFilteredQuestions failed: %v", err)
	}
	if !all[0].IsSolved || all[1].IsSolved {
		t.Errorf("Unexpected solved flags: %+v", all)
	}
}
