package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixiansicong/xhs-intel/xiaohongshu"
)

const (
	aiMaxRetries     = 2
	aiRetryBackoff   = 2 * time.Second
	aiAttemptTimeout = 60 * time.Second
	aiMaxNotes       = 6
	aiMaxTokens      = 1000
)

// Analyzer DeepSeek 智能分析客户端。
// 整条链路都是尽力而为：没配 API Key 就跳过，调用失败重试两次后
// 返回占位文案，任何情况下都不把错误抛给采集主流程。
type Analyzer struct {
	APIBase string
	APIKey  string
	Model   string

	client *http.Client
}

// NewAnalyzerFromEnv 从环境变量构建分析器。
// DEEPSEEK_API_KEY 为空时返回的分析器只生成占位文案。
func NewAnalyzerFromEnv() *Analyzer {
	base := os.Getenv("DEEPSEEK_BASE_URL")
	if base == "" {
		base = "https://api.deepseek.com"
	}
	model := os.Getenv("DEEPSEEK_MODEL")
	if model == "" {
		model = "deepseek-reasoner"
	}
	return &Analyzer{
		APIBase: base,
		APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		Model:   model,
		client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	Stream    bool          `json:"stream"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateReport 为采集结果生成 AI 分析段落。永远返回可用的 Markdown，
// API 不可用时是占位文案而不是错误。
func (a *Analyzer) GenerateReport(ctx context.Context, notes []*xiaohongshu.NoteInfo) string {
	if len(notes) == 0 {
		return "今日未采集到有效内容。"
	}
	if a.APIKey == "" {
		logrus.Info("[AI] 未配置 API Key，跳过 AI 分析")
		return a.placeholder(len(notes))
	}

	logrus.Info("[AI] 正在生成智能分析...")
	result, err := a.call(ctx, buildAnalysisPrompt(notes))
	if err != nil || result == "" {
		logrus.Warnf("[AI] 分析失败: %v", err)
		return a.placeholder(len(notes))
	}

	logrus.Info("[AI] 分析完成")
	return result
}

func (a *Analyzer) placeholder(noteCount int) string {
	return fmt.Sprintf("*[AI 分析待补充]*\n\n本次采集了 %d 篇笔记，请人工查看数据库文件进行分析。", noteCount)
}

// buildAnalysisPrompt 拼提示词：前几篇笔记的标题+摘要，OCR 段单独带上
func buildAnalysisPrompt(notes []*xiaohongshu.NoteInfo) string {
	limit := len(notes)
	if limit > aiMaxNotes {
		limit = aiMaxNotes
	}

	var summaries []string
	for i, n := range notes[:limit] {
		summary := fmt.Sprintf("【%d】%s\n内容: %s", i+1, n.Title, truncate(n.Content, 200))
		if idx := strings.Index(n.FullContent, xiaohongshu.OCRMarker); idx >= 0 {
			ocrPart := n.FullContent[idx+len(xiaohongshu.OCRMarker):]
			summary += "\n图片文字: " + truncate(strings.TrimSpace(ocrPart), 200)
		}
		summaries = append(summaries, summary)
	}

	return fmt.Sprintf(`分析以下 %d 篇小红书面试笔记，生成简洁报告：

%s

请用 Markdown 格式输出：
1. **核心面试题** (提取2-3个具体问题)
2. **技术热点** (涉及的技术栈)
3. **复习建议** (1-2条)

控制在 200 字以内，直接输出内容。`, len(notes), strings.Join(summaries, "\n\n"))
}

// call 调 chat/completions，固定间隔重试
func (a *Analyzer) call(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= aiMaxRetries; attempt++ {
		if attempt > 0 {
			logrus.Infof("[AI] 重试 %d/%d...", attempt, aiMaxRetries)
			select {
			case <-time.After(aiRetryBackoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := a.doRequest(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (a *Analyzer) doRequest(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, aiAttemptTimeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:     a.Model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		Stream:    false,
		MaxTokens: aiMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "序列化请求失败")
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost,
		a.APIBase+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "构造请求失败")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "请求失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("API 返回 %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "解析响应失败")
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("响应中没有内容")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
