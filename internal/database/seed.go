package database

import (
	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultQuestions 内置题库种子
// Seq 决定题目在筛选结果中的顺序
var defaultQuestions = []model.Question{
	{Seq: 1, Title: "Two Sum", Slug: "two-sum", Difficulty: "easy", Topic: "arrays"},
	{Seq: 2, Title: "Valid Parentheses", Slug: "valid-parentheses", Difficulty: "easy", Topic: "stacks"},
	{Seq: 3, Title: "Binary Tree Inorder Traversal", Slug: "binary-tree-inorder-traversal", Difficulty: "medium", Topic: "trees"},
	{Seq: 4, Title: "Best Time to Buy and Sell Stock", Slug: "best-time-to-buy-and-sell-stock", Difficulty: "easy", Topic: "arrays"},
	{Seq: 5, Title: "Valid Anagram", Slug: "valid-anagram", Difficulty: "easy", Topic: "strings"},
	{Seq: 6, Title: "Reverse Linked List", Slug: "reverse-linked-list", Difficulty: "easy", Topic: "linked-lists"},
	{Seq: 7, Title: "Longest Substring Without Repeating Characters", Slug: "longest-substring-without-repeating-characters", Difficulty: "medium", Topic: "sliding-window"},
	{Seq: 8, Title: "Course Schedule", Slug: "course-schedule", Difficulty: "medium", Topic: "graphs"},
	{Seq: 9, Title: "Coin Change", Slug: "coin-change", Difficulty: "medium", Topic: "dynamic-programming"},
	{Seq: 10, Title: "Trapping Rain Water", Slug: "trapping-rain-water", Difficulty: "hard", Topic: "two-pointers"},
}

// seedQuestions 题库为空时写入种子题目
func seedQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	questions := make([]model.Question, 0, len(defaultQuestions))
	for _, q := range defaultQuestions {
		q.ID = uuid.New().String()
		questions = append(questions, q)
	}

	return db.Create(&questions).Error
}
