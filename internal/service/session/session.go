// Package session 提供会话窗口缓存与活跃流控制
// 内存为主，Redis 写穿；同一会话同一时刻只允许一个活跃流
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const (
	// 会话在 Redis 中的过期时间
	sessionTTL = 24 * time.Hour
	// Redis key 前缀
	sessionKeyPrefix = "session:"
	// 缓存的消息窗口大小
	windowSize = 10
)

// Manager 会话管理器
type Manager struct {
	mu            sync.RWMutex
	memory        map[string]*Session
	activeStreams map[string]streamEntry
	nextStreamID  uint64
	redis         *redis.Client
}

// streamEntry 活跃流登记项
type streamEntry struct {
	id     uint64
	cancel context.CancelFunc
}

// Session 会话窗口
type Session struct {
	ID        string
	Messages  []*schema.Message
	UpdatedAt time.Time
}

// sessionData 会话数据（用于 Redis 存储）
type sessionData struct {
	ID        string        `json:"id"`
	Messages  []messageData `json:"messages"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// messageData 消息数据（用于 Redis 存储）
type messageData struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewManager 创建会话管理器
func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{
		memory:        make(map[string]*Session),
		activeStreams: make(map[string]streamEntry),
		redis:         redisClient,
	}
}

// Get 获取会话窗口；内存未命中时尝试 Redis，再未命中返回空会话
func (m *Manager) Get(ctx context.Context, sessionID string) *Session {
	m.mu.RLock()
	sess, ok := m.memory[sessionID]
	m.mu.RUnlock()
	if ok {
		return sess
	}

	if m.redis != nil {
		if sess := m.loadFromRedis(ctx, sessionID); sess != nil {
			m.mu.Lock()
			m.memory[sessionID] = sess
			m.mu.Unlock()
			return sess
		}
	}

	sess = &Session{ID: sessionID, Messages: []*schema.Message{}, UpdatedAt: time.Now()}
	m.mu.Lock()
	m.memory[sessionID] = sess
	m.mu.Unlock()
	return sess
}

// Remember 记录会话的最近消息窗口
// 超出窗口大小的旧消息被丢弃；Redis 写失败只影响缓存，不影响调用方
func (m *Manager) Remember(ctx context.Context, sessionID string, messages []*schema.Message) {
	if len(messages) > windowSize {
		messages = messages[len(messages)-windowSize:]
	}

	sess := &Session{
		ID:        sessionID,
		Messages:  messages,
		UpdatedAt: time.Now(),
	}

	m.mu.Lock()
	m.memory[sessionID] = sess
	m.mu.Unlock()

	if m.redis != nil {
		m.saveToRedis(ctx, sess)
	}
}

// Forget 删除会话窗口
func (m *Manager) Forget(ctx context.Context, sessionID string) {
	m.mu.Lock()
	delete(m.memory, sessionID)
	m.mu.Unlock()

	if m.redis != nil {
		m.redis.Del(ctx, sessionKeyPrefix+sessionID)
	}
}

// RegisterStream 注册会话的活跃流
// 同一会话已有活跃流时先取消旧流；返回流结束时的注销函数
func (m *Manager) RegisterStream(sessionID string, cancel context.CancelFunc) func() {
	m.mu.Lock()
	if prev, ok := m.activeStreams[sessionID]; ok {
		prev.cancel()
	}
	m.nextStreamID++
	id := m.nextStreamID
	m.activeStreams[sessionID] = streamEntry{id: id, cancel: cancel}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// 只注销自己注册的流，避免误删后续流
		if entry, ok := m.activeStreams[sessionID]; ok && entry.id == id {
			delete(m.activeStreams, sessionID)
		}
	}
}

// ActiveStreamCount 当前活跃流数量
func (m *Manager) ActiveStreamCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.activeStreams)
}

// loadFromRedis 从 Redis 加载会话
func (m *Manager) loadFromRedis(ctx context.Context, sessionID string) *Session {
	raw, err := m.redis.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return nil
	}

	var data sessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}

	messages := make([]*schema.Message, 0, len(data.Messages))
	for _, msg := range data.Messages {
		messages = append(messages, &schema.Message{
			Role:    roleToSchema(msg.Role),
			Content: msg.Content,
		})
	}

	return &Session{ID: data.ID, Messages: messages, UpdatedAt: data.UpdatedAt}
}

// saveToRedis 写入 Redis，带 TTL
func (m *Manager) saveToRedis(ctx context.Context, sess *Session) {
	data := sessionData{
		ID:        sess.ID,
		UpdatedAt: sess.UpdatedAt,
		Messages:  make([]messageData, 0, len(sess.Messages)),
	}
	for _, msg := range sess.Messages {
		data.Messages = append(data.Messages, messageData{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	m.redis.Set(ctx, sessionKeyPrefix+sess.ID, raw, sessionTTL)
}

// roleToSchema 将字符串角色转换为 schema.RoleType
func roleToSchema(role string) schema.RoleType {
	switch role {
	case "system":
		return schema.System
	case "assistant":
		return schema.Assistant
	default:
		return schema.User
	}
}
