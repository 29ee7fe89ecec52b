package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/lixiansicong/xhs-intel/xiaohongshu"
)

func TestAppendSearchResult(t *testing.T) {
	base := []*xiaohongshu.NoteInfo{{NoteID: "a1b2c3d4e5f6a7b8c9d0e1f2"}}

	t.Run("成功结果并入总列表", func(t *testing.T) {
		got := appendSearchResult(base, []*xiaohongshu.NoteInfo{{NoteID: "b1b2c3d4e5f6a7b8c9d0e1f2"}}, "搜索算法", nil)
		assert.Len(t, got, 2)
	})

	t.Run("中途登录要求按空结果跳过不中止", func(t *testing.T) {
		got := appendSearchResult(base, nil, "搜索算法", xiaohongshu.ErrLoginRequired)
		assert.Len(t, got, 1)
	})

	t.Run("包装过的登录错误同样跳过", func(t *testing.T) {
		wrapped := errors.Wrap(xiaohongshu.ErrLoginRequired, "打开搜索页失败")
		got := appendSearchResult(base, nil, "搜索算法", wrapped)
		assert.Len(t, got, 1)
	})

	t.Run("Feed流来源同样适用", func(t *testing.T) {
		got := appendSearchResult(base, nil, xiaohongshu.FeedKeyword, xiaohongshu.ErrLoginRequired)
		assert.Len(t, got, 1)
	})

	t.Run("其它错误只丢弃本关键词", func(t *testing.T) {
		got := appendSearchResult(base, nil, "搜索算法", errors.New("等待搜索页加载失败"))
		assert.Len(t, got, 1)
	})
}
