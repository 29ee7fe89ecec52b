package xiaohongshu

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixiansicong/xhs-intel/configs"
)

// ErrLoginRequired 页面要求登录。调用方把当前关键词按空结果处理并继续，
// 只有启动时的登录预检查失败才中止会话。
var ErrLoginRequired = errors.New("页面要求登录")

const (
	contentSummaryLength = 500
	maxHotComments       = 3
	detailWaitTimeout    = 8 * time.Second

	// 顺路逛作者主页的概率，补全作者信息之余让访问轨迹更发散
	authorVisitProbability = 0.15
)

// Agent 单页面串行采集代理。
// 站点对自动化访问很敏感，所有笔记在一个页面上顺序处理，
// 动作之间由 Humanizer 插入拟人化节奏，不做并行。
type Agent struct {
	h           *Humanizer
	cfg         configs.SafetyConfig
	likeEnabled bool
	seen        SeenTitles
}

// NewAgent 创建采集代理。seen 集合贯穿整个会话，跨关键词去重。
func NewAgent(cfg configs.SafetyConfig, likeEnabled bool) *Agent {
	return &Agent{
		h:           NewHumanizer(cfg),
		cfg:         cfg,
		likeEnabled: likeEnabled,
		seen:        NewSeenTitles(),
	}
}

// SearchNotes 按关键词搜索并采集笔记。
// 优先走页面状态抽取，拿不到时整体回退 DOM 点击弹窗方案。
// 检测到登录要求返回 ErrLoginRequired，调用方按本关键词空结果跳过；
// 其余失败返回空列表不报错。
func (a *Agent) SearchNotes(ctx context.Context, page *rod.Page, keyword string) ([]*NoteInfo, error) {
	page = page.Context(ctx)

	logrus.Infof("开始搜索: %q", keyword)
	a.h.Sleep(time.Second, 3*time.Second)

	if err := page.Navigate(MakeSearchURL(keyword)); err != nil {
		return nil, errors.Wrapf(err, "打开搜索页失败: %s", keyword)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, errors.Wrap(err, "等待搜索页加载失败")
	}
	a.h.PageLoadWait()

	if IsLoginRequired(page) {
		return nil, ErrLoginRequired
	}

	// 模拟真人先浏览一下结果页
	a.h.Scroll(page)
	a.h.MouseMoveTo(page, 300+a.h.rng.Float64()*600, 200+a.h.rng.Float64()*400)

	max := a.cfg.MaxNotesPerKeyword
	if max <= 0 {
		max = 3
	}

	feeds, err := GetSearchFeeds(page)
	if err != nil {
		logrus.Warnf("页面状态解析失败，回退 DOM 方案: %v", err)
	}
	if len(feeds) > 0 {
		logrus.Infof("使用页面状态抽取搜索结果 (%d 条)", len(feeds))
		notes := a.collectFromFeeds(page, feeds, keyword, max)
		if len(notes) > 0 {
			return notes, nil
		}
		logrus.Warn("页面状态未得到有效详情，回退 DOM 方案")
	}

	return a.collectByDOM(page, keyword, max), nil
}

// WaitKeywordInterval 关键词之间的长休息，模拟慢用户。可被 ctx 提前取消。
func (a *Agent) WaitKeywordInterval(ctx context.Context) {
	d := a.h.KeywordInterval()
	logrus.Infof("切换到下一个关键词，休息 %.0fs (模拟慢用户)...", d.Seconds())
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// collectFromFeeds 沿状态给出的笔记列表逐条打开详情页采集
func (a *Agent) collectFromFeeds(page *rod.Page, feeds []Feed, keyword string, max int) []*NoteInfo {
	var notes []*NoteInfo
	for i := range feeds {
		if len(notes) >= max {
			break
		}
		feed := &feeds[i]

		if feed.IsVideo() {
			logrus.Debugf("跳过视频笔记: %s", feed.ID)
			continue
		}
		if feed.NoteCard != nil && feed.NoteCard.DisplayTitle != "" &&
			a.seen.Seen(feed.NoteCard.DisplayTitle) {
			logrus.Debugf("本次会话已采集过: %s", truncateTitle(feed.NoteCard.DisplayTitle, 30))
			continue
		}

		note := a.collectByDetail(page, feed, keyword)
		if note == nil {
			a.h.NoteInterval()
			continue
		}

		notes = append(notes, note)
		logrus.Infof("采集完成: %s (%d 条评论)", truncateTitle(note.Title, 30), len(note.Comments))
		a.h.EngagementSleep(note)
		a.maybeVisitAuthor(page, note)
	}
	return notes
}

// maybeVisitAuthor 小概率顺路访问作者主页，从主页状态补全作者字段。
// 下一条笔记走 URL 导航，逛完不需要回到搜索页。
func (a *Agent) maybeVisitAuthor(page *rod.Page, note *NoteInfo) {
	if note.AuthorLink == "" || a.h.rng.Float64() >= authorVisitProbability {
		return
	}

	logrus.Debugf("顺路访问作者主页: %s", note.Author)
	if err := page.Navigate(note.AuthorLink); err != nil {
		logrus.Debugf("打开作者主页失败: %v", err)
		return
	}
	_ = page.WaitLoad()
	a.h.PageLoadWait()

	profile, err := GetUserProfile(page)
	if err != nil || profile == nil {
		return
	}
	applyProfile(note, profile)
	a.h.Scroll(page)
}

// applyProfile 用主页资料补全笔记的作者字段，只填空缺不覆盖已有值
func applyProfile(note *NoteInfo, profile *UserProfileResponse) {
	if note == nil || profile == nil || profile.UserBasicInfo == nil {
		return
	}

	info := profile.UserBasicInfo
	if (note.Author == "" || note.Author == "未知作者") && info.Nickname != "" {
		note.Author = info.Nickname
	}
	if note.AuthorID == "" && info.RedID != "" {
		note.AuthorID = info.RedID
	}
	if note.AuthorLink == "" && info.RedID != "" {
		note.AuthorLink = "https://www.xiaohongshu.com/user/profile/" + info.RedID
	}
}

// collectByDetail 打开单条笔记的详情页，先读状态，失败退回 DOM
func (a *Agent) collectByDetail(page *rod.Page, feed *Feed, keyword string) *NoteInfo {
	if feed.ID == "" {
		return nil
	}

	titleHint := fmt.Sprintf("笔记%s", lastN(feed.ID, 4))
	if feed.NoteCard != nil && feed.NoteCard.DisplayTitle != "" {
		titleHint = feed.NoteCard.DisplayTitle
	}

	logrus.Infof("进入详情: %s", truncateTitle(titleHint, 30))
	if err := page.Navigate(MakeDetailURL(feed.ID, feed.XsecToken)); err != nil {
		logrus.Warnf("打开详情页失败: %v", err)
		return nil
	}
	_ = page.WaitLoad()
	a.h.PageLoadWait()

	detail, err := GetFeedDetail(page, feed.ID)
	if err != nil || detail == nil {
		logrus.Warn("状态详情为空，尝试 DOM 抽取")
		return a.collectDetailDOM(page, feed.ID, feed.XsecToken, titleHint, keyword)
	}

	note := a.mapDetailToNote(detail, feed, keyword)
	if note == nil {
		logrus.Warn("状态详情映射失败，尝试 DOM 抽取")
		return a.collectDetailDOM(page, feed.ID, feed.XsecToken, titleHint, keyword)
	}

	// 状态里没有标签，从 DOM 补齐
	if len(note.Tags) == 0 {
		note.Tags = ExtractDetailTags(page, note.FullContent)
	}
	a.maybeOCR(page, note)
	a.maybeLike(page)
	return note
}

// mapDetailToNote 把状态中的详情映射为采集结果
func (a *Agent) mapDetailToNote(detail *FeedDetailResponse, feed *Feed, keyword string) *NoteInfo {
	base := &detail.Note
	if base.NoteID == "" {
		return nil
	}

	title := base.Title
	if title == "" && feed.NoteCard != nil {
		title = feed.NoteCard.DisplayTitle
	}
	if title == "" {
		title = fmt.Sprintf("笔记%s", lastN(base.NoteID, 4))
	}

	fullContent := strings.TrimSpace(base.Desc)
	if fullContent == "" {
		fullContent = "[图片笔记] " + title
	}

	user := base.User
	if user == nil && feed.NoteCard != nil {
		user = feed.NoteCard.User
	}
	author := user.Name()
	if author == "" {
		author = "未知作者"
	}

	var authorLink string
	if user != nil && user.RedID != "" {
		authorLink = "https://www.xiaohongshu.com/user/profile/" + user.RedID
	}

	likes := "0"
	if base.InteractInfo != nil && base.InteractInfo.LikedCount != "" {
		likes = base.InteractInfo.LikedCount
	} else if feed.NoteCard != nil && feed.NoteCard.InteractInfo != nil &&
		feed.NoteCard.InteractInfo.LikedCount != "" {
		likes = feed.NoteCard.InteractInfo.LikedCount
	}

	var comments []CommentInfo
	for _, c := range detail.Comments.List {
		if len(comments) >= maxHotComments {
			break
		}
		if c == nil || isMeaninglessComment(c.Content) {
			continue
		}
		commentLikes := c.LikeCount
		if commentLikes == "" {
			commentLikes = "0"
		}
		commentAuthor := c.UserInfo.Name()
		if commentAuthor == "" {
			commentAuthor = "未知"
		}
		comments = append(comments, CommentInfo{
			Author:  commentAuthor,
			Content: truncateRunes(strings.TrimSpace(c.Content), maxCommentRunes),
			Likes:   commentLikes,
		})
	}

	xsecToken := base.XsecToken
	if xsecToken == "" {
		xsecToken = feed.XsecToken
	}

	var userID string
	if user != nil {
		userID = user.UserID
	}

	return &NoteInfo{
		Keyword:     keyword,
		Title:       title,
		Author:      author,
		AuthorLink:  authorLink,
		AuthorID:    userID,
		Likes:       likes,
		Link:        "https://www.xiaohongshu.com/explore/" + base.NoteID,
		NoteID:      base.NoteID,
		XsecToken:   xsecToken,
		Content:     truncateRunes(fullContent, contentSummaryLength),
		FullContent: fullContent,
		Tags:        nil,
		Comments:    comments,
	}
}

// collectDetailDOM 详情页已打开但状态读不到时，用 DOM 选择器整页抽取
func (a *Agent) collectDetailDOM(page *rod.Page, feedID, xsecToken, titleHint, keyword string) *NoteInfo {
	if !a.waitDetailContainer(page) {
		logrus.Warn("详情容器未出现，跳过")
		return nil
	}
	a.h.Sleep(1500*time.Millisecond, 2500*time.Millisecond)

	content := ExtractDetailContent(page)
	author := ExtractDetailAuthor(page)
	if author == "" {
		author = "未知作者"
	}

	fullContent := content
	if fullContent == "" {
		fullContent = "[图片笔记] " + titleHint
		if urls := CollectDetailImages(page); len(urls) > 0 {
			fullContent += "\n\n图片: " + strings.Join(urls, "\n")
			logrus.Debugf("找到 %d 张图片", len(urls))
		}
	}

	a.h.ScrollComments(page, 1+a.h.rng.Intn(2))

	note := &NoteInfo{
		Keyword:     keyword,
		Title:       titleHint,
		Author:      author,
		AuthorLink:  ExtractDetailAuthorLink(page),
		Likes:       ExtractDetailLikes(page),
		Link:        "https://www.xiaohongshu.com/explore/" + feedID,
		NoteID:      feedID,
		XsecToken:   xsecToken,
		Content:     truncateRunes(fullContent, contentSummaryLength),
		FullContent: fullContent,
		Tags:        ExtractDetailTags(page, content),
		Comments:    ExtractDetailComments(page, maxHotComments),
	}

	a.maybeOCR(page, note)
	a.maybeLike(page)
	return note
}

// collectByDOM 状态完全不可用时的整体兜底：
// 枚举结果页卡片，逐个点击打开弹窗采集，单卡失败只跳过不中断。
func (a *Agent) collectByDOM(page *rod.Page, keyword string, max int) []*NoteInfo {
	cards := FindNoteCards(page)
	if len(cards) == 0 {
		logrus.Warn("未找到笔记卡片，等待页面加载...")
		time.Sleep(3 * time.Second)
		cards = FindNoteCards(page)
	}
	logrus.Infof("找到 %d 篇笔记卡片", len(cards))

	var notes []*NoteInfo
	for i, card := range cards {
		if len(notes) >= max {
			break
		}

		note := a.collectCard(page, card, i, keyword)
		if note == nil {
			continue
		}
		notes = append(notes, note)

		logrus.Infof("采集完成: %s (%d 条评论)", truncateTitle(note.Title, 30), len(note.Comments))
		a.h.EngagementSleep(note)
		a.closeDetail(page)
	}
	return notes
}

// collectCard 处理单张卡片：点击打开弹窗、抽取、回退关闭。
// 任何一步失败都只记录并返回 nil。
func (a *Agent) collectCard(page *rod.Page, card *rod.Element, idx int, keyword string) *NoteInfo {
	if CardIsVideo(card) {
		logrus.Debugf("卡片 %d 是视频笔记，跳过", idx+1)
		return nil
	}

	title := CardTitle(card)
	if title == "" {
		title = fmt.Sprintf("笔记%d", idx+1)
	}
	if a.seen.Seen(title) {
		logrus.Debugf("本次会话已采集过: %s", truncateTitle(title, 30))
		return nil
	}

	link := CardLink(card)
	if link == "" {
		logrus.Warnf("笔记 %d 无链接，跳过", idx+1)
		return nil
	}
	noteID, xsecToken := cardNoteRef(link)
	if noteID == "" {
		logrus.Warnf("笔记 %d 无法提取ID: %s", idx+1, link)
		return nil
	}

	// 弹窗打开后卡片会被遮挡，先把卡片上的作者与点赞留作兜底
	cardAuthor := CardAuthor(card)
	cardLikes := CardLikes(card)

	// 滚动到卡片再点击，避免点到视口外的元素
	if _, err := card.Eval(`() => this.scrollIntoView({behavior: 'smooth', block: 'center'})`); err == nil {
		time.Sleep(500 * time.Millisecond)
	}

	logrus.Infof("点击进入: %s", truncateTitle(title, 25))
	if err := a.h.Click(page, card); err != nil {
		logrus.Warnf("点击卡片失败: %v", err)
		a.closeDetail(page)
		return nil
	}

	if !a.waitDetailContainer(page) {
		logrus.Warn("详情弹窗未出现，尝试继续...")
	}
	a.h.Sleep(1500*time.Millisecond, 2500*time.Millisecond)

	content := ExtractDetailContent(page)
	author := orHint(ExtractDetailAuthor(page), cardAuthor)
	if author == "" {
		author = "未知作者"
	}
	likes := orHint(ExtractDetailLikes(page), cardLikes)

	fullContent := content
	if fullContent == "" {
		fullContent = "[图片笔记] " + title
		if urls := CollectDetailImages(page); len(urls) > 0 {
			fullContent += "\n\n图片: " + strings.Join(urls, "\n")
		}
	}

	a.h.ScrollComments(page, 1+a.h.rng.Intn(2))

	note := &NoteInfo{
		Keyword:     keyword,
		Title:       title,
		Author:      author,
		AuthorLink:  ExtractDetailAuthorLink(page),
		Likes:       likes,
		Link:        link,
		NoteID:      noteID,
		XsecToken:   xsecToken,
		Content:     truncateRunes(fullContent, contentSummaryLength),
		FullContent: fullContent,
		Tags:        ExtractDetailTags(page, content),
		Comments:    ExtractDetailComments(page, maxHotComments),
	}

	a.h.Paginate(page)
	a.maybeLike(page)
	a.maybeOCR(page, note)
	return note
}

// waitDetailContainer 在限定时间内等待详情容器出现
func (a *Agent) waitDetailContainer(page *rod.Page) bool {
	sel := strings.Join(detailContainerSelectors, ", ")
	el, err := page.Timeout(detailWaitTimeout).Element(sel)
	if err != nil {
		return false
	}
	visible, err := el.Visible()
	return err == nil && visible
}

// maybeOCR 正文过短时翻看图片并做 OCR 兜底补充
func (a *Agent) maybeOCR(page *rod.Page, note *NoteInfo) {
	if len([]rune(note.FullContent)) >= a.cfg.MinContentLength {
		return
	}

	logrus.Info("正文过短，尝试 OCR 识别图片...")
	a.h.Paginate(page)

	if ocrText := ExtractOCRFromImages(page, a.cfg.OCRTimeout); ocrText != "" {
		note.FullContent += ocrText
		note.Content = truncateRunes(note.FullContent, contentSummaryLength)
		logrus.Infof("OCR 识别成功，补充了 %d 字", len([]rune(ocrText)))
	}
}

// maybeLike 按配置概率点赞，积累账号的正常使用信号
func (a *Agent) maybeLike(page *rod.Page) {
	if !a.likeEnabled || a.h.rng.Float64() >= a.cfg.LikeProbability {
		return
	}

	has, likeBtn, err := page.Has(
		`.note-detail-mask .like-wrapper, [class*="note-detail"] .interact-container .like`)
	if err != nil || !has {
		return
	}

	logrus.Info("发现优质笔记，自动点赞...")
	if err := a.h.Click(page, likeBtn); err != nil {
		logrus.Warnf("点赞失败，跳过: %v", err)
		return
	}
	a.h.Sleep(500*time.Millisecond, time.Second)
}

// closeDetail 关闭详情弹窗并把列表页滚回顶部
func (a *Agent) closeDetail(page *rod.Page) {
	if err := page.KeyActions().Press(input.Escape).Do(); err != nil {
		logrus.Debugf("关闭弹窗失败: %v", err)
	}
	a.h.Sleep(time.Second, 2*time.Second)
	_, _ = page.Eval(`() => window.scrollTo({top: 0, behavior: 'smooth'})`)
}

// lastN 取字符串末尾 n 个字符
func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
