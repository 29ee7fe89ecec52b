// Package report 生成采集结果的日报、同步数据包与 AI 分析。
// 这里的产物都是派生物，可以随时从库里重新生成，不是数据源。
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lixiansicong/xhs-intel/xiaohongshu"
)

// DailyReport 生成 Markdown 日报：每篇笔记一节，
// 含作者/点赞/标签信息表、内容摘要引用块和社区热评。
func DailyReport(notes []*xiaohongshu.NoteInfo) string {
	now := time.Now()

	var b strings.Builder
	fmt.Fprintf(&b, "# 📅 %s 搜广推情报日报\n\n", now.Format("2006/01/02"))
	fmt.Fprintf(&b, "> 🕐 生成时间: %s\n", now.Format("15:04:05"))
	fmt.Fprintf(&b, "> 📊 共收录 %d 篇笔记\n\n", len(notes))
	b.WriteString("---\n\n")

	for _, note := range notes {
		fmt.Fprintf(&b, "## 🔥 关键词: %s\n\n", note.Keyword)
		fmt.Fprintf(&b, "### 📌 %s\n\n", note.Title)

		b.WriteString("| 项目 | 信息 |\n")
		b.WriteString("|------|------|\n")
		if note.AuthorLink != "" {
			fmt.Fprintf(&b, "| 👤 作者 | [%s](%s) |\n", note.Author, note.AuthorLink)
		} else {
			fmt.Fprintf(&b, "| 👤 作者 | %s |\n", note.Author)
		}
		fmt.Fprintf(&b, "| 👍 点赞 | %s |\n", note.Likes)
		if len(note.Tags) > 0 {
			fmt.Fprintf(&b, "| 🏷️ 标签 | %s |\n", strings.Join(note.Tags, " "))
		}
		b.WriteString("\n")

		if note.Content != "" {
			b.WriteString("#### 📝 内容摘要\n\n")
			fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(note.Content, "\n", "\n> "))
		}

		b.WriteString("#### 💬 社区热议\n\n")
		if len(note.Comments) > 0 {
			for _, c := range note.Comments {
				likesInfo := ""
				if c.Likes != "0" && c.Likes != "" {
					likesInfo = fmt.Sprintf(" (👍%s)", c.Likes)
				}
				fmt.Fprintf(&b, "- **%s**%s: %s\n", c.Author, likesInfo, c.Content)
			}
			b.WriteString("\n")
		} else {
			b.WriteString("_暂无热评_\n\n")
		}

		b.WriteString("#### 💡 拆解角度\n\n")
		b.WriteString("_结合评论区追问，思考: 大家最关心的细节是什么？可以针对性解答。_\n\n")
		b.WriteString("---\n\n")
	}

	b.WriteString("## 🎯 今日行动建议\n\n")
	b.WriteString("1. **精读正文**: 仔细阅读内容摘要，提取核心知识点\n")
	b.WriteString("2. **关注热评**: 评论区的追问往往是高价值的面试考点\n")
	b.WriteString("3. **拆题输出**: 针对评论区的问题展开拆解\n\n")

	return b.String()
}

// WriteDailyReport 把日报写到带日期的文件，同时覆盖固定文件名的最新版
func WriteDailyReport(dir, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "创建报告目录失败")
	}

	dated := filepath.Join(dir, fmt.Sprintf("daily_trends_%s.md", time.Now().Format("2006-01-02")))
	if err := os.WriteFile(dated, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "写入日报失败")
	}

	latest := filepath.Join(dir, "daily_trends.md")
	if err := os.WriteFile(latest, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "写入最新日报失败")
	}
	return dated, nil
}
