// Package service 组装业务服务
package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/odin-ai/internal/config"
	"github.com/ashwinyue/odin-ai/internal/repository"
	"github.com/ashwinyue/odin-ai/internal/service/auth"
	"github.com/ashwinyue/odin-ai/internal/service/chat"
	"github.com/ashwinyue/odin-ai/internal/service/progress"
	"github.com/ashwinyue/odin-ai/internal/service/search"
	"github.com/ashwinyue/odin-ai/internal/service/session"
	"github.com/ashwinyue/odin-ai/internal/service/submission"
)

// Services 服务集合
type Services struct {
	Chat       *chat.Service
	Auth       *auth.Service
	Submission *submission.Service
	Search     *search.Service
	Progress   *progress.Service
	Sessions   *session.Manager
	Toolbox    *Toolbox
}

// NewServices 创建所有服务
func NewServices(ctx context.Context, repos *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	searchProvider, err := search.NewDuckDuckGoProvider(ctx, cfg.Search.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to init search provider: %w", err)
	}
	searchSvc := search.NewService(searchProvider)

	progressSvc := progress.NewService(repos.Question, repos.Submission)
	toolbox := NewToolbox(progressSvc, searchSvc)
	sessions := session.NewManager(redisClient)

	chatModel, err := newToolCallingChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init chat model: %w", err)
	}

	return &Services{
		Chat:       chat.NewService(repos.Chat, sessions, chatModel, toolbox),
		Auth:       auth.NewService(repos.Auth, &cfg.Auth),
		Submission: submission.NewService(repos.Submission),
		Search:     searchSvc,
		Progress:   progressSvc,
		Sessions:   sessions,
		Toolbox:    toolbox,
	}, nil
}

// newToolCallingChatModel 按配置创建支持工具调用的 ChatModel
func newToolCallingChatModel(ctx context.Context, cfg *config.Config) (einomodel.ToolCallingChatModel, error) {
	aiCfg := cfg.AI

	var apiKey, baseURL, modelName string

	switch aiCfg.Provider {
	case "openai":
		apiKey = aiCfg.OpenAI.APIKey
		baseURL = aiCfg.OpenAI.BaseURL
		modelName = aiCfg.OpenAI.Model
	case "deepseek":
		apiKey = aiCfg.DeepSeek.APIKey
		baseURL = aiCfg.DeepSeek.BaseURL
		modelName = aiCfg.DeepSeek.Model
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", aiCfg.Provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for provider: %s", aiCfg.Provider)
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	temperature := float32(0.7)

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       modelName,
		Temperature: &temperature,
	})
}
