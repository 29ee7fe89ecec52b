package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixiansicong/xhs-intel/storage"
	"github.com/lixiansicong/xhs-intel/xiaohongshu"
)

func reportNote(title string) *xiaohongshu.NoteInfo {
	return &xiaohongshu.NoteInfo{
		Keyword:    "搜索算法",
		Title:      title,
		Author:     "作者甲",
		AuthorLink: "https://www.xiaohongshu.com/user/profile/abc",
		Likes:      "1.2万",
		Content:    "第一行摘要\n第二行摘要",
		Tags:       []string{"#算法", "#面经"},
		Comments: []xiaohongshu.CommentInfo{
			{Author: "评论者", Content: "求更多细节", Likes: "8"},
			{Author: "路人", Content: "收藏了慢慢看", Likes: "0"},
		},
	}
}

func TestDailyReport(t *testing.T) {
	md := DailyReport([]*xiaohongshu.NoteInfo{reportNote("字节搜索一面复盘")})

	assert.Contains(t, md, "搜广推情报日报")
	assert.Contains(t, md, "共收录 1 篇笔记")
	assert.Contains(t, md, "## 🔥 关键词: 搜索算法")
	assert.Contains(t, md, "### 📌 字节搜索一面复盘")
	assert.Contains(t, md, "[作者甲](https://www.xiaohongshu.com/user/profile/abc)")
	assert.Contains(t, md, "| 👍 点赞 | 1.2万 |")
	assert.Contains(t, md, "#算法 #面经")
	// 多行摘要逐行转成引用块
	assert.Contains(t, md, "> 第一行摘要\n> 第二行摘要")
	assert.Contains(t, md, "- **评论者** (👍8): 求更多细节")
	// 零赞评论不带点赞后缀
	assert.Contains(t, md, "- **路人**: 收藏了慢慢看")
}

func TestDailyReportEmptyComments(t *testing.T) {
	note := reportNote("无热评笔记")
	note.Comments = nil
	md := DailyReport([]*xiaohongshu.NoteInfo{note})
	assert.Contains(t, md, "_暂无热评_")
}

func TestWriteDailyReport(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDailyReport(dir, "# 测试日报")
	require.NoError(t, err)
	assert.FileExists(t, path)

	latest, err := os.ReadFile(filepath.Join(dir, "daily_trends.md"))
	require.NoError(t, err)
	assert.Equal(t, "# 测试日报", string(latest))
}

func TestBuildSyncBundle(t *testing.T) {
	items := []storage.NoteItem{
		{ID: "a", Title: "字节搜索面经", Summary: "推荐系统相关", Tags: []string{"#算法", "#面经"}},
		{ID: "b", Title: "腾讯实习记录", Summary: "广告模型", Tags: []string{"#算法"}},
		{ID: "c", Title: "美团推荐一面", Summary: "", Tags: nil},
	}

	bundle := BuildSyncBundle(items, 2)

	assert.Equal(t, 3, bundle.Total)
	require.Len(t, bundle.Recent, 2)
	assert.Equal(t, "b", bundle.Recent[0].ID)
	assert.Equal(t, "c", bundle.Recent[1].ID)

	// 标签统计去掉 # 前缀
	assert.Equal(t, 2, bundle.TagCounts["算法"])
	assert.Equal(t, 1, bundle.TagCounts["面经"])

	assert.Equal(t, 2, bundle.TopicCounts["推荐"])
	assert.Equal(t, 1, bundle.TopicCounts["搜索"])

	assert.Equal(t, 1, bundle.CompanyMentions["字节"])
	assert.Equal(t, 1, bundle.CompanyMentions["腾讯"])
	assert.Equal(t, 1, bundle.CompanyMentions["美团"])
}

func TestBuildSyncBundleRecentOverflow(t *testing.T) {
	items := []storage.NoteItem{{ID: "a"}}
	bundle := BuildSyncBundle(items, 10)
	assert.Len(t, bundle.Recent, 1)
}

func TestWriteSyncBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sync_bundle.json")
	err := WriteSyncBundle(path, BuildSyncBundle(nil, 5))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestAnalyzerWithoutKey(t *testing.T) {
	a := &Analyzer{APIBase: "https://api.deepseek.com", Model: "deepseek-reasoner", client: http.DefaultClient}

	got := a.GenerateReport(context.Background(), []*xiaohongshu.NoteInfo{reportNote("测试")})
	assert.Contains(t, got, "[AI 分析待补充]")
}

func TestAnalyzerEmptyNotes(t *testing.T) {
	a := &Analyzer{client: http.DefaultClient}
	assert.Equal(t, "今日未采集到有效内容。", a.GenerateReport(context.Background(), nil))
}

func TestAnalyzerCall(t *testing.T) {
	t.Run("成功返回内容", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			w.Write([]byte(`{"choices":[{"message":{"content":"## 分析结果"}}]}`))
		}))
		defer srv.Close()

		a := &Analyzer{APIBase: srv.URL, APIKey: "test-key", Model: "deepseek-reasoner", client: srv.Client()}
		got := a.GenerateReport(context.Background(), []*xiaohongshu.NoteInfo{reportNote("测试")})
		assert.Equal(t, "## 分析结果", got)
	})

	t.Run("重试后成功", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"choices":[{"message":{"content":"重试成功"}}]}`))
		}))
		defer srv.Close()

		a := &Analyzer{APIBase: srv.URL, APIKey: "test-key", Model: "deepseek-reasoner", client: srv.Client()}
		got, err := a.call(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "重试成功", got)
		assert.Equal(t, 2, calls)
	})

	t.Run("重试耗尽返回占位文案", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		a := &Analyzer{APIBase: srv.URL, APIKey: "test-key", Model: "deepseek-reasoner", client: srv.Client()}
		got := a.GenerateReport(context.Background(), []*xiaohongshu.NoteInfo{reportNote("测试")})
		assert.Contains(t, got, "[AI 分析待补充]")
	})

	t.Run("OCR段落并入提示词", func(t *testing.T) {
		note := reportNote("图片笔记")
		note.FullContent = "短正文\n\n" + xiaohongshu.OCRMarker + "\n识别出来的图片文字"
		prompt := buildAnalysisPrompt([]*xiaohongshu.NoteInfo{note})
		assert.Contains(t, prompt, "图片文字: 识别出来的图片文字")
	})
}
