package xiaohongshu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMeaninglessComment(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    bool
	}{
		{"空字符串", "", true},
		{"纯空白", "   ", true},
		{"单字灌水-接", "接", true},
		{"单字灌水-蹲", "蹲", true},
		{"单字灌水-赞", "赞", true},
		{"英文mark", "mark", true},
		{"英文mark大写", "Mark", true},
		{"单字母m", "m", true},
		{"接好运开头", "接好运！", true},
		{"加油开头", "加油加油", true},
		{"厉害开头", "厉害了", true},
		{"牛开头", "牛啊", true},
		{"纯标点", "！！！？？？", true},
		{"纯数字", "666666", true},
		{"纯表情符号", "👍👍👍", true},
		{"短但有内容", "已上岸求问", false},
		{"正常评论", "请问楼主是什么时候开始准备的？", false},
		{"长评论一律保留", strings.Repeat("这条评论很长", 10), false},
		{"长评论即使加油开头也保留", "加油！我也在准备字节的算法岗，已经刷了三个月题了", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMeaninglessComment(tt.comment))
		})
	}
}

func TestIsBoilerplate(t *testing.T) {
	assert.True(t, isBoilerplate("沪ICP备12345号"))
	assert.True(t, isBoilerplate("本站营业执照信息"))
	assert.False(t, isBoilerplate("搜索算法面经分享"))
	assert.False(t, isBoilerplate(""))
}

func TestMineHashtags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"中文话题", "今天分享 #搜索算法 的面经", []string{"#搜索算法"}},
		{"多个话题", "#推荐系统 #机器学习 #大厂面试", []string{"#推荐系统", "#机器学习", "#大厂面试"}},
		{"中英混合", "关于 #Feed流 和 #ranking 的思考", []string{"#Feed流", "#ranking"}},
		{"重复去重", "#算法 很重要 #算法 真的", []string{"#算法"}},
		{"无话题", "普通的一段文字", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mineHashtags(tt.text))
		})
	}
}

func TestDedupTags(t *testing.T) {
	t.Run("保持顺序去重", func(t *testing.T) {
		got := dedupTags([]string{"#b", "#a", "#b", "#c", "#a"})
		assert.Equal(t, []string{"#b", "#a", "#c"}, got)
	})

	t.Run("剔除空白项", func(t *testing.T) {
		got := dedupTags([]string{"#a", "", "  ", "#b"})
		assert.Equal(t, []string{"#a", "#b"}, got)
	})
}

func TestOrHint(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		hint    string
		want    string
	}{
		{"详情页有值优先", "1.2万", "999", "1.2万"},
		{"详情页为空退回卡片值", "", "999", "999"},
		{"详情页取到默认0退回卡片值", "0", "999", "999"},
		{"卡片也是0不退回", "0", "0", "0"},
		{"两边都空返回空", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orHint(tt.primary, tt.hint))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "你好世", truncateRunes("你好世界啊", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "", truncateRunes("", 5))
}

func TestTruncateTitle(t *testing.T) {
	// 中文按显示宽度 2 计算
	got := truncateTitle("这是一个很长很长的标题", 10)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "短标题", truncateTitle("  短标题  ", 20))
}
