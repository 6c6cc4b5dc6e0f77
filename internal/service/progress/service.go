// Package progress 提供学习进度统计与题目筛选
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/ashwinyue/odin-ai/internal/repository"
)

// Service 进度服务
type Service struct {
	questions   repository.QuestionRepository
	submissions repository.SubmissionRepository
}

// NewService 创建进度服务
func NewService(questions repository.QuestionRepository, submissions repository.SubmissionRepository) *Service {
	return &Service{questions: questions, submissions: submissions}
}

// Activity 最近一次解题活动
type Activity struct {
	Problem    string `json:"problem"`
	Difficulty string `json:"difficulty"`
	SolvedAt   string `json:"solvedAt"`
}

// Overview 进度总览
type Overview struct {
	TotalProblems       int            `json:"totalProblems"`
	SolvedProblems      int            `json:"solvedProblems"`
	DifficultyBreakdown map[string]int `json:"difficultyBreakdown"`
	Topics              []string       `json:"topics"`
	RecentActivity      []Activity     `json:"recentActivity"`
}

// timeRangeCutoff 时间窗口起点；all 返回零值
func timeRangeCutoff(timeRange string, now time.Time) (time.Time, error) {
	switch timeRange {
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "all", "":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("invalid time range: %s", timeRange)
	}
}

// GetOverview 统计用户在指定时间窗口内的进度
func (s *Service) GetOverview(ctx context.Context, userID, timeRange string) (*Overview, error) {
	cutoff, err := timeRangeCutoff(timeRange, time.Now())
	if err != nil {
		return nil, err
	}

	catalog, err := s.questions.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load question catalog: %w", err)
	}

	subs, err := s.submissions.ListByUserSince(userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	bySlug := make(map[string]*model.Question, len(catalog))
	topicSet := make(map[string]struct{})
	topics := make([]string, 0)
	for _, q := range catalog {
		bySlug[q.Slug] = q
		if _, ok := topicSet[q.Topic]; !ok {
			topicSet[q.Topic] = struct{}{}
			topics = append(topics, q.Topic)
		}
	}

	breakdown := map[string]int{"easy": 0, "medium": 0, "hard": 0}
	solved := 0
	activity := make([]Activity, 0, len(subs))
	for _, sub := range subs {
		if sub.SubmissionStatus != "accepted" {
			continue
		}
		solved++

		difficulty := "medium"
		title := sub.ProblemTitle
		if q, ok := bySlug[sub.QuestionSlug]; ok {
			difficulty = q.Difficulty
			if title == "" {
				title = q.Title
			}
		}
		breakdown[difficulty]++

		if len(activity) < 5 {
			activity = append(activity, Activity{
				Problem:    title,
				Difficulty: difficulty,
				SolvedAt:   sub.UpdatedAt.Format(time.RFC3339),
			})
		}
	}

	return &Overview{
		TotalProblems:       len(catalog),
		SolvedProblems:      solved,
		DifficultyBreakdown: breakdown,
		Topics:              topics,
		RecentActivity:      activity,
	}, nil
}

// GetFilteredQuestions 按主题筛选题目
// 结果保持题库录入顺序并截断到 limit；unsolvedOnly 时排除用户已提交的题目
func (s *Service) GetFilteredQuestions(ctx context.Context, userID string, topics []string, limit int, unsolvedOnly bool) ([]model.QuestionView, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("at least one topic is required")
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	questions, err := s.questions.ListByTopics(topics)
	if err != nil {
		return nil, fmt.Errorf("failed to filter questions: %w", err)
	}

	solvedSet := make(map[string]struct{})
	if userID != "" {
		slugs, err := s.submissions.ListSlugsByUser(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load solved slugs: %w", err)
		}
		for _, slug := range slugs {
			solvedSet[slug] = struct{}{}
		}
	}

	views := make([]model.QuestionView, 0, len(questions))
	for _, q := range questions {
		_, isSolved := solvedSet[q.Slug]
		if unsolvedOnly && isSolved {
			continue
		}
		views = append(views, model.QuestionView{
			ID:         q.ID,
			Title:      q.Title,
			Slug:       q.Slug,
			Difficulty: q.Difficulty,
			Topic:      q.Topic,
			IsSolved:   isSolved,
		})
		if len(views) >= limit {
			break
		}
	}

	return views, nil
}
