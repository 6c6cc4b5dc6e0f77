package repository

import (
	"time"

	"github.com/ashwinyue/odin-ai/internal/model"
	"gorm.io/gorm"
)

// authRepositoryImpl 用户数据访问
type authRepositoryImpl struct {
	db *gorm.DB
}

// NewAuthRepository 创建用户仓库
func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepositoryImpl{db: db}
}

// GetUserByEmail 按邮箱获取用户
func (r *authRepositoryImpl) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchUser 登录成功后刷新 updated_at
func (r *authRepositoryImpl) TouchUser(id string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}
