// Package auth 提供登录与令牌签发
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ashwinyue/odin-ai/internal/config"
	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/ashwinyue/odin-ai/internal/repository"
)

var (
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken 令牌无效或已过期
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Service 认证服务
type Service struct {
	repo repository.AuthRepository
	cfg  *config.AuthConfig

	secretOnce sync.Once
	secret     string
}

// NewService 创建认证服务
func NewService(repo repository.AuthRepository, cfg *config.AuthConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// jwtSecret 获取签名密钥；未配置时生成随机密钥（进程内有效）
func (s *Service) jwtSecret() string {
	s.secretOnce.Do(func() {
		if secret := strings.TrimSpace(s.cfg.JWTSecret); secret != "" {
			s.secret = secret
			return
		}

		randomBytes := make([]byte, 32)
		if _, err := rand.Read(randomBytes); err != nil {
			panic(fmt.Sprintf("failed to generate JWT secret: %v", err))
		}
		s.secret = base64.StdEncoding.EncodeToString(randomBytes)
	})

	return s.secret
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Token   string          `json:"token,omitempty"`
	User    *model.UserInfo `json:"user,omitempty"`
}

// Login 用户登录
// dev 模式下任意非空凭据均可登录（开发桩）；production 模式校验 bcrypt 密码
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// 刷新最近登录时间，失败不影响登录
	_ = s.repo.TouchUser(user.ID)

	return &LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    user,
	}, nil
}

// authenticate 校验凭据
func (s *Service) authenticate(ctx context.Context, email, password string) (*model.UserInfo, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if s.cfg.IsDev() {
		// 开发桩：任意凭据映射到固定的开发用户
		return &model.UserInfo{
			ID:       s.cfg.DevUserID,
			Email:    s.cfg.DevEmail,
			Username: s.cfg.DevUsername,
		}, nil
	}

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user.ToUserInfo(), nil
}

// generateToken 签发 30 天有效的访问令牌
func (s *Service) generateToken(user *model.UserInfo) (string, error) {
	now := time.Now()
	ttl := time.Duration(s.cfg.TokenTTLDay) * 24 * time.Hour

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret()))
}

// ValidateToken 验证令牌并还原用户信息
// 令牌自包含，不回查数据库
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*model.UserInfo, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret()), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	username, _ := claims["username"].(string)

	return &model.UserInfo{
		ID:       userID,
		Email:    email,
		Username: username,
	}, nil
}
