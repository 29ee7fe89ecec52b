package configs

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SafetyConfig 拟人化行为参数，集中定义便于统一调整。
// 核心原则：像真人一样操作，不要太快也不要太慢。
// 所有字段均可通过 YAML 文件覆盖；测试中注入零抖动配置可得到确定性行为。
type SafetyConfig struct {
	// 页面加载等待（模拟真人等待加载）
	PageLoadWaitMin time.Duration `yaml:"page_load_wait_min"`
	PageLoadWaitMax time.Duration `yaml:"page_load_wait_max"`

	// 滚动行为
	ScrollIntervalMin time.Duration `yaml:"scroll_interval_min"`
	ScrollIntervalMax time.Duration `yaml:"scroll_interval_max"`
	ScrollTimesMin    int           `yaml:"scroll_times_min"`
	ScrollTimesMax    int           `yaml:"scroll_times_max"`

	// Engagement-Aware 阅读延迟：
	// 总时长 = 基础时间 + 评论数*TimePerComment + 字数*TimePerChar，封顶 MaxReadTime
	BaseReadTimeMin time.Duration `yaml:"base_read_time_min"`
	BaseReadTimeMax time.Duration `yaml:"base_read_time_max"`
	TimePerComment  time.Duration `yaml:"time_per_comment"`
	TimePerChar     time.Duration `yaml:"time_per_char"`
	MaxReadTime     time.Duration `yaml:"max_read_time"`
	// 阅读延迟的随机抖动比例（0.1 = ±10%），测试时设为 0
	ReadJitterRatio float64 `yaml:"read_jitter_ratio"`

	// 翻看图片概率（0-1）
	PaginationProbability float64 `yaml:"pagination_probability"`
	// 采集时自动点赞概率（0-1）；点赞会改变平台侧状态，可按需关闭
	LikeProbability float64 `yaml:"like_probability"`

	// 关键词搜索间隔
	KeywordIntervalMin time.Duration `yaml:"keyword_interval_min"`
	KeywordIntervalMax time.Duration `yaml:"keyword_interval_max"`

	// 笔记间隔（模拟翻阅）
	NoteIntervalMin time.Duration `yaml:"note_interval_min"`
	NoteIntervalMax time.Duration `yaml:"note_interval_max"`

	// 打字速度（模拟真人打字）
	TypingDelayMin time.Duration `yaml:"typing_delay_min"`
	TypingDelayMax time.Duration `yaml:"typing_delay_max"`

	// 每次采集上限（不要贪心）
	MaxNotesPerKeyword    int `yaml:"max_notes_per_keyword"`
	MaxKeywordsPerSession int `yaml:"max_keywords_per_session"`

	// OCR 触发阈值：正文字数低于该值时尝试识别图片
	MinContentLength int           `yaml:"min_content_length"`
	OCRTimeout       time.Duration `yaml:"ocr_timeout"`
}

// DefaultSafety 返回默认安全配置
func DefaultSafety() SafetyConfig {
	return SafetyConfig{
		PageLoadWaitMin: 2 * time.Second,
		PageLoadWaitMax: 4 * time.Second,

		ScrollIntervalMin: 800 * time.Millisecond,
		ScrollIntervalMax: 2 * time.Second,
		ScrollTimesMin:    2,
		ScrollTimesMax:    4,

		BaseReadTimeMin: 5 * time.Second,
		BaseReadTimeMax: 8 * time.Second,
		TimePerComment:  1500 * time.Millisecond,
		TimePerChar:     8 * time.Millisecond,
		MaxReadTime:     80 * time.Second,
		ReadJitterRatio: 0.1,

		PaginationProbability: 0.7,
		LikeProbability:       0.4,

		KeywordIntervalMin: 20 * time.Second,
		KeywordIntervalMax: 40 * time.Second,

		NoteIntervalMin: 5 * time.Second,
		NoteIntervalMax: 10 * time.Second,

		TypingDelayMin: 50 * time.Millisecond,
		TypingDelayMax: 150 * time.Millisecond,

		MaxNotesPerKeyword:    3,
		MaxKeywordsPerSession: 5,

		MinContentLength: 50,
		OCRTimeout:       10 * time.Second,
	}
}

// LoadSafety 从 YAML 文件加载安全配置，文件中未出现的字段保持默认值
func LoadSafety(path string) (SafetyConfig, error) {
	cfg := DefaultSafety()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read safety config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse safety config")
	}
	return cfg, nil
}
