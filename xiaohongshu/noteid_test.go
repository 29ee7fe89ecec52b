package xiaohongshu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNoteID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "explore 路径",
			url:      "https://www.xiaohongshu.com/explore/68e66fef0000000004023fdb?xsec_token=abc",
			expected: "68e66fef0000000004023fdb",
		},
		{
			name:     "discovery 路径",
			url:      "https://www.xiaohongshu.com/discovery/item/68ebe520000000000702039c",
			expected: "68ebe520000000000702039c",
		},
		{
			name:     "search_result 路径",
			url:      "/search_result/68ea423d0000000004013ff3",
			expected: "68ea423d0000000004013ff3",
		},
		{
			name:     "note 路径",
			url:      "/note/68e495f20000000004014d47",
			expected: "68e495f20000000004014d47",
		},
		{
			name:     "查询参数 noteId",
			url:      "https://www.xiaohongshu.com/page?noteId=68e495f20000000004014d47",
			expected: "68e495f20000000004014d47",
		},
		{
			name:     "兜底：未知路径下的长十六进制段",
			url:      "https://www.xiaohongshu.com/whatever/68e495f20000000004014d",
			expected: "68e495f20000000004014d",
		},
		{
			name:     "非笔记 URL",
			url:      "https://www.xiaohongshu.com/explore",
			expected: "",
		},
		{
			name:     "十六进制段太短",
			url:      "/explore/abc123",
			expected: "",
		},
		{
			name:     "空字符串",
			url:      "",
			expected: "",
		},
		{
			name:     "任意非 URL 文本",
			url:      "不是链接",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractNoteID(tt.url))
		})
	}
}

func TestMakeSearchURL(t *testing.T) {
	got := MakeSearchURL("推荐系统 召回")

	assert.Contains(t, got, "https://www.xiaohongshu.com/search_result?")
	assert.Contains(t, got, "source=web_explore_feed")
	// 关键词必须做 URL 编码
	assert.NotContains(t, got, " ")
}

func TestMakeDetailURL(t *testing.T) {
	t.Run("带 token", func(t *testing.T) {
		got := MakeDetailURL("68e66fef0000000004023fdb", "ABc9=")
		assert.Equal(t,
			"https://www.xiaohongshu.com/explore/68e66fef0000000004023fdb?xsec_token=ABc9=&xsec_source=pc_feed",
			got)
	})

	t.Run("无 token", func(t *testing.T) {
		got := MakeDetailURL("68e66fef0000000004023fdb", "")
		assert.Equal(t, "https://www.xiaohongshu.com/explore/68e66fef0000000004023fdb", got)
	})

	t.Run("无 ID 返回空", func(t *testing.T) {
		assert.Equal(t, "", MakeDetailURL("", "token"))
	})
}

func TestParseNoteURL(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		expectedNoteID string
		expectedToken  string
	}{
		{
			name:           "完整 URL",
			url:            "/explore/68e66fef0000000004023fdb?xsec_token=ABc9MCVTGMXqvxLT8H-fHb_6DodO8iEoHByoltzPex20I=&xsec_source=",
			expectedNoteID: "68e66fef0000000004023fdb",
			expectedToken:  "ABc9MCVTGMXqvxLT8H-fHb_6DodO8iEoHByoltzPex20I=",
		},
		{
			name:           "带 pc_feed 的 URL",
			url:            "/explore/68ebe520000000000702039c?xsec_token=ABrYg9Jn28WjYaI1Kj4cUtUTQnwSJB92pzKDI8V_47CIo=&xsec_source=pc_feed",
			expectedNoteID: "68ebe520000000000702039c",
			expectedToken:  "ABrYg9Jn28WjYaI1Kj4cUtUTQnwSJB92pzKDI8V_47CIo=",
		},
		{
			name:           "没有查询参数的 URL",
			url:            "/explore/68e495f20000000004014d47",
			expectedNoteID: "68e495f20000000004014d47",
			expectedToken:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noteID, token := parseNoteURL(tt.url)
			assert.Equal(t, tt.expectedNoteID, noteID)
			assert.Equal(t, tt.expectedToken, token)
		})
	}
}

func TestCardNoteRef(t *testing.T) {
	tests := []struct {
		name      string
		link      string
		wantID    string
		wantToken string
	}{
		{
			name:      "explore 链接带 token",
			link:      "https://www.xiaohongshu.com/explore/68e66fef0000000004023fdb?xsec_token=ABc9=&xsec_source=pc_feed",
			wantID:    "68e66fef0000000004023fdb",
			wantToken: "ABc9=",
		},
		{
			name:      "search_result 链接也保留 token",
			link:      "/search_result/68ea423d0000000004013ff3?xsec_token=XYm1=",
			wantID:    "68ea423d0000000004013ff3",
			wantToken: "XYm1=",
		},
		{
			name:      "无 token 的链接",
			link:      "/explore/68e495f20000000004014d47",
			wantID:    "68e495f20000000004014d47",
			wantToken: "",
		},
		{
			name:      "ID 不合法时返回空",
			link:      "/explore/abc123?xsec_token=T=",
			wantID:    "",
			wantToken: "T=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noteID, token := cardNoteRef(tt.link)
			assert.Equal(t, tt.wantID, noteID)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestSeenTitles(t *testing.T) {
	seen := NewSeenTitles()

	assert.False(t, seen.Seen("双塔模型负采样"))
	assert.True(t, seen.Seen("双塔模型负采样"))
	// 大小写不敏感、去首尾空白
	assert.True(t, seen.Seen("  双塔模型负采样  "))
	assert.False(t, seen.Seen("另一篇"))
	// 空标题不计入
	assert.False(t, seen.Seen(""))
	assert.False(t, seen.Seen("   "))
}
