package repository

import (
	"github.com/ashwinyue/odin-ai/internal/model"
	"gorm.io/gorm"
)

// questionRepositoryImpl 题库数据访问
type questionRepositoryImpl struct {
	db *gorm.DB
}

// NewQuestionRepository 创建题库仓库
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepositoryImpl{db: db}
}

// ListAll 列出全部题目，保持录入顺序
func (r *questionRepositoryImpl) ListAll() ([]*model.Question, error) {
	var questions []*model.Question
	err := r.db.Order("seq ASC").Find(&questions).Error
	return questions, err
}

// ListByTopics 按主题筛选，保持录入顺序
func (r *questionRepositoryImpl) ListByTopics(topics []string) ([]*model.Question, error) {
	var questions []*model.Question
	err := r.db.Where("topic IN ?", topics).Order("seq ASC").Find(&questions).Error
	return questions, err
}
