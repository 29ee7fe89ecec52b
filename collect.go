package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixiansicong/xhs-intel/browser"
	"github.com/lixiansicong/xhs-intel/configs"
	"github.com/lixiansicong/xhs-intel/report"
	"github.com/lixiansicong/xhs-intel/storage"
	"github.com/lixiansicong/xhs-intel/xiaohongshu"
)

// CollectOptions 一次采集运行的全部参数
type CollectOptions struct {
	Keywords   []string
	Safety     configs.SafetyConfig
	Store      *storage.Store
	ReportDir  string
	BundlePath string
	LikeNotes  bool
}

// runCollection 完整采集流水线：热身 → 登录预检查 → 关键词轮询 →
// Feed 流补充 → 日报 + AI 分析 → 同步包 → 增量入库。
// 浏览器页面在 defer 里释放，无论成功失败都会还给 Manager。
func runCollection(ctx context.Context, opts CollectOptions) error {
	manager := browser.GetGlobalManager()
	manager.SetConfig(configs.IsHeadless(), configs.GetBinPath())

	page, release := manager.NewPageWithRelease()
	defer release()
	page = page.Context(ctx)

	agent := xiaohongshu.NewAgent(opts.Safety, opts.LikeNotes)

	// 先访问首页热身，顺便做登录态预检查，Cookie 失效时尽早退出
	logrus.Info("访问首页热身...")
	if err := page.Navigate("https://www.xiaohongshu.com/explore"); err != nil {
		return errors.Wrap(err, "打开首页失败")
	}
	if err := page.WaitLoad(); err != nil {
		return errors.Wrap(err, "等待首页加载失败")
	}
	time.Sleep(2 * time.Second)

	if xiaohongshu.IsLoginRequired(page) {
		return errors.New("Cookie 已失效，请重新登录后再运行")
	}
	logrus.Info("登录状态正常，开始搜集情报...")

	var allNotes []*xiaohongshu.NoteInfo

	for i, keyword := range opts.Keywords {
		if ctx.Err() != nil {
			logrus.Warn("收到取消信号，停止采集")
			break
		}

		notes, err := agent.SearchNotes(ctx, page, keyword)
		allNotes = appendSearchResult(allNotes, notes, keyword, err)

		if i < len(opts.Keywords)-1 {
			agent.WaitKeywordInterval(ctx)
		}
	}

	// 搜索完后刷一会 Feed 流，让访问模式更像日常使用
	if ctx.Err() == nil {
		logrus.Info("搜索完毕，切换到 Feed 流...")
		feedNotes, err := agent.BrowseFeed(ctx, page)
		allNotes = appendSearchResult(allNotes, feedNotes, xiaohongshu.FeedKeyword, err)
	}

	logrus.Infof("共阅读 %d 篇有效笔记", len(allNotes))

	// 日报 + AI 分析
	md := report.DailyReport(allNotes)
	analyzer := report.NewAnalyzerFromEnv()
	md += "\n\n---\n\n## 🧠 AI 智能分析\n\n" + analyzer.GenerateReport(ctx, allNotes)

	reportPath, err := report.WriteDailyReport(opts.ReportDir, md)
	if err != nil {
		return err
	}

	// 增量入库
	result, err := opts.Store.Merge(allNotes)
	if err != nil {
		return err
	}

	// 从合并后的全库聚合同步包
	if err := report.WriteSyncBundle(opts.BundlePath, report.BuildSyncBundle(opts.Store.Load(), 20)); err != nil {
		logrus.Warnf("写入同步包失败: %v", err)
	}

	logrus.Info("情报搜集完成！")
	logrus.Infof("  日报: %s", reportPath)
	logrus.Infof("  数据库: 新增 %d 条 / 跳过 %d 条 / 总计 %d 条", result.NewCount, result.Skipped, result.Total)
	return nil
}

// appendSearchResult 把单个关键词（或 Feed 流）的采集结果并入总列表。
// 中途检测到登录要求按空结果跳过，其余错误也只记录，
// 单个关键词的失败不中止整个会话。
func appendSearchResult(all, notes []*xiaohongshu.NoteInfo, keyword string, err error) []*xiaohongshu.NoteInfo {
	switch {
	case errors.Is(err, xiaohongshu.ErrLoginRequired):
		logrus.Warnf("采集 %q 时页面要求登录，按空结果跳过", keyword)
		return all
	case err != nil:
		logrus.Errorf("采集 %q 失败: %v", keyword, err)
		return all
	}
	return append(all, notes...)
}
