// Package session 会话管理器单元测试
package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestGetReturnsEmptySessionForUnknownID(t *testing.T) {
	m := NewManager(nil)

	sess := m.Get(context.Background(), "missing")
	if sess == nil {
		t.Fatal("Expected session, got nil")
	}
	if sess.ID != "missing" || len(sess.Messages) != 0 {
		t.Errorf("Unexpected session: %+v", sess)
	}
}

func TestRememberAndGet(t *testing.T) {
	m := NewManager(nil)

	messages := []*schema.Message{
		schema.UserMessage("hello"),
		schema.AssistantMessage("hi there", nil),
	}
	m.Remember(context.Background(), "s1", messages)

	sess := m.Get(context.Background(), "s1")
	if len(sess.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(sess.Messages))
	}
	if sess.Messages[0].Content != "hello" {
		t.Errorf("Unexpected first message: %+v", sess.Messages[0])
	}
}

func TestRememberTrimsToWindow(t *testing.T) {
	m := NewManager(nil)

	messages := make([]*schema.Message, 0, 15)
	for i := 0; i < 15; i++ {
		messages = append(messages, schema.UserMessage(fmt.Sprintf("msg-%d", i)))
	}
	m.Remember(context.Background(), "s1", messages)

	sess := m.Get(context.Background(), "s1")
	if len(sess.Messages) != windowSize {
		t.Fatalf("Expected %d messages, got %d", windowSize, len(sess.Messages))
	}
	// 保留最新的窗口
	if sess.Messages[0].Content != "msg-5" {
		t.Errorf("Expected oldest kept message msg-5, got %s", sess.Messages[0].Content)
	}
	if sess.Messages[windowSize-1].Content != "msg-14" {
		t.Errorf("Expected newest message msg-14, got %s", sess.Messages[windowSize-1].Content)
	}
}

func TestForget(t *testing.T) {
	m := NewManager(nil)

	m.Remember(context.Background(), "s1", []*schema.Message{schema.UserMessage("hello")})
	m.Forget(context.Background(), "s1")

	sess := m.Get(context.Background(), "s1")
	if len(sess.Messages) != 0 {
		t.Errorf("Expected empty session after Forget, got %d messages", len(sess.Messages))
	}
}

func TestRegisterStreamCancelsPrevious(t *testing.T) {
	m := NewManager(nil)

	firstCanceled := false
	unregister1 := m.RegisterStream("s1", func() { firstCanceled = true })
	defer unregister1()

	if m.ActiveStreamCount() != 1 {
		t.Fatalf("Expected 1 active stream, got %d", m.ActiveStreamCount())
	}

	unregister2 := m.RegisterStream("s1", func() {})
	defer unregister2()

	if !firstCanceled {
		t.Error("Expected first stream to be canceled by second registration")
	}
	if m.ActiveStreamCount() != 1 {
		t.Errorf("Expected 1 active stream after supersede, got %d", m.ActiveStreamCount())
	}
}

func TestUnregisterOnlyRemovesOwnEntry(t *testing.T) {
	m := NewManager(nil)

	unregister1 := m.RegisterStream("s1", func() {})
	unregister2 := m.RegisterStream("s1", func() {})

	// 旧流注销不能影响新流的登记
	unregister1()
	if m.ActiveStreamCount() != 1 {
		t.Fatalf("Expected 1 active stream, got %d", m.ActiveStreamCount())
	}

	unregister2()
	if m.ActiveStreamCount() != 0 {
		t.Errorf("Expected 0 active streams, got %d", m.ActiveStreamCount())
	}
}

func TestStreamsOnDifferentSessionsAreIndependent(t *testing.T) {
	m := NewManager(nil)

	canceled := false
	unregister1 := m.RegisterStream("s1", func() { canceled = true })
	defer unregister1()
	unregister2 := m.RegisterStream("s2", func() {})
	defer unregister2()

	if canceled {
		t.Error("Stream on another session should not be canceled")
	}
	if m.ActiveStreamCount() != 2 {
		t.Errorf("Expected 2 active streams, got %d", m.ActiveStreamCount())
	}
}
