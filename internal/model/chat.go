package model

import "time"

// ChatSession 聊天会话
// 一个浏览器端会话对应一条记录，消息以行存储并按 seq 排序
type ChatSession struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	ExternalUserID string        `gorm:"index;size:255;not null" json:"external_user_id"`
	UserEmail      string        `gorm:"size:255" json:"user_email,omitempty"`
	Title          string        `gorm:"size:255" json:"title,omitempty"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime;index" json:"updated_at"`
	Messages       []ChatMessage `gorm:"foreignKey:SessionID" json:"messages"`
}

// ChatMessage 聊天消息
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	SessionID string    `gorm:"index;size:36" json:"session_id"`
	Seq       int       `gorm:"index" json:"seq"` // 会话内顺序
	Role      string    `gorm:"size:20" json:"role"` // user, assistant
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
