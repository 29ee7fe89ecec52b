package xiaohongshu

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FeedKeyword Feed 流采集的来源标记，落库时代替搜索关键词
const FeedKeyword = "[Feed流]"

// BrowseFeed 浏览发现页推荐流并采集 1-2 篇笔记。
// 起始位置在前几条里随机选，避免每次都从第一条开始、访问模式固定。
// 流程与搜索采集同构：状态优先，DOM 兜底。
func (a *Agent) BrowseFeed(ctx context.Context, page *rod.Page) ([]*NoteInfo, error) {
	page = page.Context(ctx)

	logrus.Info("开始浏览 Feed 流...")
	if err := page.Navigate("https://www.xiaohongshu.com/explore"); err != nil {
		return nil, errors.Wrap(err, "打开发现页失败")
	}
	if err := page.WaitLoad(); err != nil {
		return nil, errors.Wrap(err, "等待发现页加载失败")
	}
	a.h.Sleep(1800*time.Millisecond, 2600*time.Millisecond)

	if IsLoginRequired(page) {
		return nil, ErrLoginRequired
	}

	// 先像真人一样刷两轮
	a.h.Scroll(page)
	a.h.Sleep(900*time.Millisecond, 1300*time.Millisecond)
	a.h.Scroll(page)

	count := 1 + a.h.rng.Intn(2)

	feeds, err := GetFeedsList(page)
	if err != nil {
		logrus.Warnf("Feed 流状态解析失败，回退 DOM: %v", err)
	}
	if len(feeds) > 0 {
		logrus.Infof("Feed 流（state）：准备采集 %d 篇笔记", count)

		// 随机窗口：从前几条里挑一个起点
		window := len(feeds)
		if window > 5 {
			window = 5
		}
		start := a.h.rng.Intn(window)

		var notes []*NoteInfo
		for i := start; i < len(feeds) && len(notes) < count; i++ {
			feed := &feeds[i]
			if feed.IsVideo() {
				logrus.Debugf("跳过视频笔记: %s", feed.ID)
				continue
			}
			if feed.NoteCard != nil && feed.NoteCard.DisplayTitle != "" &&
				a.seen.Seen(feed.NoteCard.DisplayTitle) {
				continue
			}

			note := a.collectByDetail(page, feed, FeedKeyword)
			if note == nil {
				a.h.NoteInterval()
				continue
			}
			notes = append(notes, note)
			logrus.Infof("Feed 采集完成: %s", truncateTitle(note.Title, 30))
			a.h.EngagementSleep(note)
			a.maybeVisitAuthor(page, note)
		}

		if len(notes) > 0 {
			logrus.Infof("Feed 流采集完成(state): %d 篇", len(notes))
			return notes, nil
		}
		logrus.Warn("state feed 采集为空，回退 DOM 流程")
	}

	return a.collectByDOM(page, FeedKeyword, count), nil
}
