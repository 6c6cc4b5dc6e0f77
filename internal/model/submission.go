package model

import "time"

// CodeSubmission 代码提交
// (external_user_id, question_slug) 唯一，重复提交原地覆盖
type CodeSubmission struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	ExternalUserID   string    `gorm:"size:255;not null;uniqueIndex:idx_user_question" json:"external_user_id"`
	QuestionSlug     string    `gorm:"size:255;not null;uniqueIndex:idx_user_question" json:"question_slug"`
	Code             string    `gorm:"type:text;not null" json:"code"`
	Language         string    `gorm:"size:50;not null;default:python" json:"language"`
	ProblemTitle     string    `gorm:"size:500" json:"problem_title,omitempty"`
	SubmissionStatus string    `gorm:"size:50;not null;default:accepted" json:"submission_status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`
}

// TableName 指定表名
func (CodeSubmission) TableName() string {
	return "code_submissions"
}
