package model

import "time"

// Question 题目
// Seq 保持题库录入顺序，筛选结果按该顺序返回
type Question struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Seq        int       `gorm:"index;not null" json:"-"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Slug       string    `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Difficulty string    `gorm:"size:20;not null" json:"difficulty"` // easy, medium, hard
	Topic      string    `gorm:"index;size:100;not null" json:"topic"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
}

// TableName 指定表名
func (Question) TableName() string {
	return "questions"
}

// QuestionView 题目视图（携带用户态标记）
type QuestionView struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Difficulty   string `json:"difficulty"`
	Topic        string `json:"topic"`
	IsSolved     bool   `json:"isSolved"`
	IsBookmarked bool   `json:"isBookmarked"`
}
