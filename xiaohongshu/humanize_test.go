package xiaohongshu

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lixiansicong/xhs-intel/configs"
)

// fixedSafety 返回无抖动、基础时间固定的配置，让阅读时长可精确断言
func fixedSafety() configs.SafetyConfig {
	cfg := configs.DefaultSafety()
	cfg.BaseReadTimeMin = 10 * time.Second
	cfg.BaseReadTimeMax = 10 * time.Second
	cfg.ReadJitterRatio = 0
	return cfg
}

func noteWith(comments int, contentLen int) *NoteInfo {
	n := &NoteInfo{
		Title:       "测试笔记",
		FullContent: strings.Repeat("字", contentLen),
	}
	for i := 0; i < comments; i++ {
		n.Comments = append(n.Comments, CommentInfo{Content: "评论"})
	}
	return n
}

func TestReadDelayFor(t *testing.T) {
	h := NewHumanizerWithSeed(fixedSafety(), 1)

	tests := []struct {
		name     string
		note     *NoteInfo
		expected time.Duration
	}{
		{"无互动只有基础时间", noteWith(0, 0), 10 * time.Second},
		{"每条评论加1.5秒", noteWith(4, 0), 10*time.Second + 4*1500*time.Millisecond},
		{"每个字加8毫秒", noteWith(0, 100), 10*time.Second + 800*time.Millisecond},
		{"评论与字数叠加", noteWith(2, 50), 10*time.Second + 3*time.Second + 400*time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.ReadDelayFor(tt.note))
		})
	}
}

func TestReadDelayForCeiling(t *testing.T) {
	h := NewHumanizerWithSeed(fixedSafety(), 1)

	// 海量互动也不能超过 MaxReadTime
	got := h.ReadDelayFor(noteWith(500, 100000))
	assert.Equal(t, configs.DefaultSafety().MaxReadTime, got)
}

func TestReadDelayForMonotonic(t *testing.T) {
	h := NewHumanizerWithSeed(fixedSafety(), 1)

	// 零抖动下，互动量增加时长不减
	prev := time.Duration(0)
	for _, comments := range []int{0, 1, 3, 10, 20} {
		got := h.ReadDelayFor(noteWith(comments, 0))
		assert.GreaterOrEqual(t, got, prev, "评论数 %d", comments)
		prev = got
	}

	prev = 0
	for _, chars := range []int{0, 50, 200, 1000, 3000} {
		got := h.ReadDelayFor(noteWith(0, chars))
		assert.GreaterOrEqual(t, got, prev, "字数 %d", chars)
		prev = got
	}
}

func TestReadDelayForUsesContentFallback(t *testing.T) {
	h := NewHumanizerWithSeed(fixedSafety(), 1)

	// FullContent 为空时按摘要 Content 计算
	n := &NoteInfo{Content: strings.Repeat("字", 100)}
	assert.Equal(t, 10*time.Second+800*time.Millisecond, h.ReadDelayFor(n))
}

func TestReadDelayForJitterBounded(t *testing.T) {
	cfg := fixedSafety()
	cfg.ReadJitterRatio = 0.1
	h := NewHumanizerWithSeed(cfg, 42)

	note := noteWith(3, 200)
	base := 10*time.Second + 3*1500*time.Millisecond + 200*8*time.Millisecond

	for i := 0; i < 100; i++ {
		got := h.ReadDelayFor(note)
		assert.InDelta(t, float64(base), float64(got), float64(base)*0.1+1)
	}
}

func TestRandomDuration(t *testing.T) {
	h := NewHumanizerWithSeed(configs.DefaultSafety(), 7)

	t.Run("区间内取值", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			d := h.randomDuration(time.Second, 3*time.Second)
			assert.GreaterOrEqual(t, d, time.Second)
			assert.LessOrEqual(t, d, 3*time.Second)
		}
	})

	t.Run("上界不大于下界时返回下界", func(t *testing.T) {
		assert.Equal(t, 2*time.Second, h.randomDuration(2*time.Second, 2*time.Second))
		assert.Equal(t, 2*time.Second, h.randomDuration(2*time.Second, time.Second))
	})
}

func TestBezierPoint(t *testing.T) {
	// 端点必须精确落在起点和终点上
	x, y := bezierPoint(0, 10, 20, 50, 60, 100, 120, 200, 240)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)

	x, y = bezierPoint(1, 10, 20, 50, 60, 100, 120, 200, 240)
	assert.Equal(t, 200.0, x)
	assert.Equal(t, 240.0, y)
}
