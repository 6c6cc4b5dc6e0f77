package repository

import (
	"github.com/ashwinyue/odin-ai/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// chatRepositoryImpl 聊天数据访问
type chatRepositoryImpl struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天仓库
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepositoryImpl{db: db}
}

// GetSessionByID 获取会话（含消息，按会话内顺序）
func (r *chatRepositoryImpl) GetSessionByID(id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessionsByUser 列出用户会话，最近更新的在前
func (r *chatRepositoryImpl) ListSessionsByUser(externalUserID string) ([]*model.ChatSession, error) {
	var sessions []*model.ChatSession
	err := r.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).Where("external_user_id = ?", externalUserID).
		Order("updated_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// ReplaceTranscript 单事务落盘整个会话
func (r *chatRepositoryImpl) ReplaceTranscript(session *model.ChatSession, messages []*model.ChatMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"external_user_id", "user_email", "title", "updated_at",
			}),
		}).Create(session).Error; err != nil {
			return err
		}

		if err := tx.Delete(&model.ChatMessage{}, "session_id = ?", session.ID).Error; err != nil {
			return err
		}

		if len(messages) == 0 {
			return nil
		}
		return tx.Create(messages).Error
	})
}

// DeleteSession 删除会话及其消息
func (r *chatRepositoryImpl) DeleteSession(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ChatMessage{}, "session_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatSession{}, "id = ?", id).Error
	})
}
