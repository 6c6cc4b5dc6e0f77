package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"github.com/ashwinyue/odin-ai/internal/model"
	"github.com/ashwinyue/odin-ai/internal/service/progress"
	"github.com/ashwinyue/odin-ai/internal/service/search"
)

// ProgressSource 进度数据来源
type ProgressSource interface {
	GetOverview(ctx context.Context, userID, timeRange string) (*progress.Overview, error)
	GetFilteredQuestions(ctx context.Context, userID string, topics []string, limit int, unsolvedOnly bool) ([]model.QuestionView, error)
}

// SearchSource 搜索数据来源
type SearchSource interface {
	SearchWeb(ctx context.Context, query string) ([]search.Result, error)
}

// Toolbox 模型可调用的工具集
// 工具按请求绑定用户后交给 Agent；执行失败一律降级为结构完整的 JSON 结果
type Toolbox struct {
	progress ProgressSource
	search   SearchSource
}

// NewToolbox 创建工具集
func NewToolbox(progress ProgressSource, search SearchSource) *Toolbox {
	return &Toolbox{progress: progress, search: search}
}

// ========== 参数结构 ==========

// ProgressOverviewInput get_user_progress_overview 输入参数
type ProgressOverviewInput struct {
	IncludeStats *bool  `json:"include_stats,omitempty" jsonschema_description:"Include detailed statistics (default true)"`
	TimeRange    string `json:"time_range,omitempty" jsonschema_description:"Time range for progress data: week, month or all (default all)"`
}

// Validate 校验参数
func (in *ProgressOverviewInput) Validate() error {
	switch in.TimeRange {
	case "", "week", "month", "all":
		return nil
	default:
		return fmt.Errorf("time_range must be one of week, month, all")
	}
}

// FilteredQuestionsInput get_filtered_questions 输入参数
type FilteredQuestionsInput struct {
	Topics       []string `json:"topics" jsonschema_description:"List of topic tags to filter questions by"`
	Limit        int      `json:"limit,omitempty" jsonschema_description:"Maximum number of questions to fetch, 1-100 (default 50)"`
	UnsolvedOnly bool     `json:"unsolved_only,omitempty" jsonschema_description:"If true, only return unsolved questions for the user"`
}

// Validate 校验参数并填充默认值
func (in *FilteredQuestionsInput) Validate() error {
	if len(in.Topics) == 0 {
		return fmt.Errorf("topics must contain at least one tag")
	}
	if in.Limit == 0 {
		in.Limit = 50
	}
	if in.Limit < 1 || in.Limit > 100 {
		return fmt.Errorf("limit must be between 1 and 100")
	}
	return nil
}

// WebSearchInput web_search 输入参数
type WebSearchInput struct {
	Query string `json:"query" jsonschema_description:"Search query to look up on the web"`
}

// Validate 校验参数
func (in *WebSearchInput) Validate() error {
	if in.Query == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}

// ========== 执行器 ==========

// toolError 参数或执行错误的降级结果
func toolError(err error) string {
	raw, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(raw)
}

// runProgressOverview 执行进度总览工具
func (tb *Toolbox) runProgressOverview(ctx context.Context, userID string, in *ProgressOverviewInput) (string, error) {
	if err := in.Validate(); err != nil {
		return toolError(err), nil
	}

	timeRange := in.TimeRange
	if timeRange == "" {
		timeRange = "all"
	}

	overview, err := tb.progress.GetOverview(ctx, userID, timeRange)
	if err != nil {
		log.Printf("progress overview tool error: %v", err)
		return toolError(fmt.Errorf("progress data is temporarily unavailable")), nil
	}

	// include_stats=false 时只保留计数
	if in.IncludeStats != nil && !*in.IncludeStats {
		trimmed := *overview
		trimmed.DifficultyBreakdown = nil
		trimmed.RecentActivity = nil
		overview = &trimmed
	}

	raw, err := json.Marshal(overview)
	if err != nil {
		return toolError(err), nil
	}
	return string(raw), nil
}

// filteredQuestionsOutput get_filtered_questions 输出
type filteredQuestionsOutput struct {
	Message   string               `json:"message"`
	Questions []model.QuestionView `json:"questions"`
}

// runFilteredQuestions 执行题目筛选工具
func (tb *Toolbox) runFilteredQuestions(ctx context.Context, userID string, in *FilteredQuestionsInput) (string, error) {
	if err := in.Validate(); err != nil {
		return toolError(err), nil
	}

	questions, err := tb.progress.GetFilteredQuestions(ctx, userID, in.Topics, in.Limit, in.UnsolvedOnly)
	if err != nil {
		log.Printf("filtered questions tool error: %v", err)
		return toolError(fmt.Errorf("question catalog is temporarily unavailable")), nil
	}

	out := filteredQuestionsOutput{
		Message:   fmt.Sprintf("Found %d questions", len(questions)),
		Questions: questions,
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return toolError(err), nil
	}
	return string(raw), nil
}

// webSearchOutput web_search 输出
type webSearchOutput struct {
	Message string            `json:"message"`
	Results []rankedSearchHit `json:"results"`
}

// rankedSearchHit 带名次的搜索结果
type rankedSearchHit struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// runWebSearch 执行网络搜索工具
// 提供方失败已在 search.Service 内降级，这里不会向模型抛错
func (tb *Toolbox) runWebSearch(ctx context.Context, in *WebSearchInput) (string, error) {
	if err := in.Validate(); err != nil {
		return toolError(err), nil
	}

	results, err := tb.search.SearchWeb(ctx, in.Query)
	if err != nil {
		log.Printf("web search tool error: %v", err)
		results = nil
	}

	out := webSearchOutput{Results: []rankedSearchHit{}}
	if len(results) == 0 {
		out.Message = fmt.Sprintf("No search results found for: %s", in.Query)
	} else {
		out.Message = fmt.Sprintf("Found %d search results for: %s", len(results), in.Query)
		for i, r := range results {
			out.Results = append(out.Results, rankedSearchHit{
				Rank:    i + 1,
				Title:   r.Title,
				Snippet: r.Snippet,
				URL:     r.URL,
			})
		}
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return toolError(err), nil
	}
	return string(raw), nil
}

// ========== 工具注册 ==========

// Tools 构建绑定到指定用户的工具列表
func (tb *Toolbox) Tools(userID string) []tool.BaseTool {
	tools := make([]tool.BaseTool, 0, 3)

	progressTool, err := utils.InferTool(
		"get_user_progress_overview",
		"Get comprehensive overview of the user's DSA learning progress including total problems solved, difficulty breakdown, and overall statistics",
		func(ctx context.Context, in *ProgressOverviewInput) (string, error) {
			return tb.runProgressOverview(ctx, userID, in)
		},
	)
	if err != nil {
		log.Printf("Warning: failed to create progress overview tool: %v", err)
	} else {
		tools = append(tools, progressTool)
	}

	questionsTool, err := utils.InferTool(
		"get_filtered_questions",
		"Fetch a curated list of DSA questions based on selected topic tags, along with user-specific metadata like solved status",
		func(ctx context.Context, in *FilteredQuestionsInput) (string, error) {
			return tb.runFilteredQuestions(ctx, userID, in)
		},
	)
	if err != nil {
		log.Printf("Warning: failed to create filtered questions tool: %v", err)
	} else {
		tools = append(tools, questionsTool)
	}

	searchTool, err := utils.InferTool(
		"web_search",
		"Search the web for current information, latest news, or real-time data that might not be in the AI's training data",
		func(ctx context.Context, in *WebSearchInput) (string, error) {
			return tb.runWebSearch(ctx, in)
		},
	)
	if err != nil {
		log.Printf("Warning: failed to create web search tool: %v", err)
	} else {
		tools = append(tools, searchTool)
	}

	return tools
}
