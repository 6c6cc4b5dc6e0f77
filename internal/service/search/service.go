// Package search 提供网络搜索
// 提供方失败时返回降级结果而不是错误，搜索失败不应中断对话
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino/components/tool"
)

// Result 搜索结果
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Provider 搜索提供方
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Service 网络搜索服务
type Service struct {
	provider Provider
}

// NewService 创建搜索服务
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// SearchWeb 执行搜索
// 提供方错误被就地吸收，调用方总能拿到一个结构完整的结果列表
func (s *Service) SearchWeb(ctx context.Context, query string) ([]Result, error) {
	results, err := s.provider.Search(ctx, query)
	if err != nil {
		log.Printf("search provider error: %v", err)
		return []Result{
			{
				Title:   "Search temporarily unavailable",
				Snippet: "Please try again later or rephrase your query.",
				URL:     "#",
			},
		}, nil
	}
	return results, nil
}

// ========== DuckDuckGo 提供方 ==========

// duckduckgoProvider 基于 eino-ext duckduckgo 工具的提供方
type duckduckgoProvider struct {
	tool tool.InvokableTool
}

// NewDuckDuckGoProvider 创建 DuckDuckGo 提供方
func NewDuckDuckGoProvider(ctx context.Context, maxResults int) (Provider, error) {
	searchTool, err := duckduckgo.NewTextSearchTool(ctx, &duckduckgo.Config{
		ToolName:   "web_search",
		ToolDesc:   "Search the web for current information using DuckDuckGo.",
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create duckduckgo tool: %w", err)
	}
	return &duckduckgoProvider{tool: searchTool}, nil
}

// textSearchOutput duckduckgo 工具的输出结构
type textSearchOutput struct {
	Message string `json:"message"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Summary string `json:"summary"`
	} `json:"results"`
}

// Search 调用 DuckDuckGo 文本搜索
func (p *duckduckgoProvider) Search(ctx context.Context, query string) ([]Result, error) {
	args, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	raw, err := p.tool.InvokableRun(ctx, string(args))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search failed: %w", err)
	}

	var out textSearchOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode search output: %w", err)
	}

	results := make([]Result, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, Result{
			Title:   r.Title,
			Snippet: r.Summary,
			URL:     r.URL,
		})
	}
	return results, nil
}
