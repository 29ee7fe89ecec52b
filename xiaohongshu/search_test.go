package xiaohongshu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyProfile(t *testing.T) {
	profile := &UserProfileResponse{
		UserBasicInfo: &UserBasicInfo{
			Nickname: "主页昵称",
			RedID:    "redid123",
		},
	}

	t.Run("补全空缺的作者字段", func(t *testing.T) {
		note := &NoteInfo{}
		applyProfile(note, profile)
		assert.Equal(t, "主页昵称", note.Author)
		assert.Equal(t, "redid123", note.AuthorID)
		assert.Equal(t, "https://www.xiaohongshu.com/user/profile/redid123", note.AuthorLink)
	})

	t.Run("占位作者名被主页昵称替换", func(t *testing.T) {
		note := &NoteInfo{Author: "未知作者"}
		applyProfile(note, profile)
		assert.Equal(t, "主页昵称", note.Author)
	})

	t.Run("已有值不被覆盖", func(t *testing.T) {
		note := &NoteInfo{
			Author:     "详情页作者",
			AuthorID:   "uid-1",
			AuthorLink: "https://www.xiaohongshu.com/user/profile/uid-1",
		}
		applyProfile(note, profile)
		assert.Equal(t, "详情页作者", note.Author)
		assert.Equal(t, "uid-1", note.AuthorID)
		assert.Equal(t, "https://www.xiaohongshu.com/user/profile/uid-1", note.AuthorLink)
	})

	t.Run("资料缺失时不动笔记", func(t *testing.T) {
		note := &NoteInfo{Author: "原作者"}
		applyProfile(note, nil)
		applyProfile(note, &UserProfileResponse{})
		assert.Equal(t, "原作者", note.Author)
	})
}
