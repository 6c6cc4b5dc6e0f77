package repository

import (
	"time"

	"github.com/ashwinyue/odin-ai/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// submissionRepositoryImpl 代码提交数据访问
type submissionRepositoryImpl struct {
	db *gorm.DB
}

// NewSubmissionRepository 创建提交仓库
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepositoryImpl{db: db}
}

// GetByUserAndSlug 获取用户在某题上的提交
func (r *submissionRepositoryImpl) GetByUserAndSlug(externalUserID, questionSlug string) (*model.CodeSubmission, error) {
	var sub model.CodeSubmission
	err := r.db.Where("external_user_id = ? AND question_slug = ?", externalUserID, questionSlug).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert 原子写入，冲突时原地覆盖（last write wins）
func (r *submissionRepositoryImpl) Upsert(sub *model.CodeSubmission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_user_id"}, {Name: "question_slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"code", "language", "problem_title", "submission_status", "updated_at",
		}),
	}).Create(sub).Error
}

// ListByUserSince 列出用户自某时间起的提交，最近的在前
func (r *submissionRepositoryImpl) ListByUserSince(externalUserID string, since time.Time) ([]*model.CodeSubmission, error) {
	var subs []*model.CodeSubmission
	query := r.db.Where("external_user_id = ?", externalUserID)
	if !since.IsZero() {
		query = query.Where("updated_at >= ?", since)
	}
	err := query.Order("updated_at DESC").Find(&subs).Error
	return subs, err
}

// ListSlugsByUser 列出用户已提交的题目 slug
func (r *submissionRepositoryImpl) ListSlugsByUser(externalUserID string) ([]string, error) {
	var slugs []string
	err := r.db.Model(&model.CodeSubmission{}).
		Where("external_user_id = ?", externalUserID).
		Pluck("question_slug", &slugs).Error
	return slugs, err
}
