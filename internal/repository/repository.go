package repository

import "gorm.io/gorm"

// Repositories 仓库集合
type Repositories struct {
	Chat       ChatRepository
	Submission SubmissionRepository
	Question   QuestionRepository
	Auth       AuthRepository
}

// NewRepositories 创建所有仓库
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Chat:       NewChatRepository(db),
		Submission: NewSubmissionRepository(db),
		Question:   NewQuestionRepository(db),
		Auth:       NewAuthRepository(db),
	}
}
