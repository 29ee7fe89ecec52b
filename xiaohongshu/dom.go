package xiaohongshu

import (
	"regexp"
	"strings"

	"github.com/go-rod/rod"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
)

// DOM 兜底抽取层。结构化状态读不到时走这里：
// 每个字段按 selectors.go 中的候选列表逐个尝试，任何一步失败都返回空值，
// 绝不让单个字段的抽取失败中断整篇笔记的处理。

const (
	maxContentRunes = 2000
	maxCommentRunes = 100
	maxTagCount     = 5
)

// 页面底部的备案、执照文案会被宽泛的 content 选择器误选中
var boilerplateMarkers = []string{"沪ICP备", "营业执照"}

var hashtagPattern = regexp.MustCompile(`#[\p{Han}a-zA-Z0-9_]+`)

// 灌水评论的常见形态
var (
	meaninglessExact = map[string]struct{}{
		"接": {}, "蹲": {}, "好": {}, "赞": {}, "mark": {}, "m": {},
		"顶": {}, "up": {}, "dd": {}, "滴滴": {},
	}
	meaninglessPrefixes = []string{"接好运", "加油", "厉害", "牛"}
	punctOrDigitOnly    = regexp.MustCompile(`^[\s\p{P}\p{S}\p{N}]+$`)
)

// hasser Page 和 Element 都实现了 Has，统一做非阻塞探测
type hasser interface {
	Has(selector string) (bool, *rod.Element, error)
}

// truncateTitle 按显示宽度截断标题，避免中文日志串行
func truncateTitle(s string, width int) string {
	return runewidth.Truncate(strings.TrimSpace(s), width, "...")
}

// isBoilerplate 判断文本是否为站点底部的备案类样板文案
func isBoilerplate(text string) bool {
	for _, marker := range boilerplateMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// isMeaninglessComment 过滤低信息量评论：长度下限以内的常见灌水词、
// 纯标点/数字/表情。长评论一律保留。
func isMeaninglessComment(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}

	runes := []rune(text)
	if len(runes) > 10 {
		return false
	}

	lower := strings.ToLower(text)
	if _, ok := meaninglessExact[lower]; ok {
		return true
	}
	for _, prefix := range meaninglessPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return punctOrDigitOnly.MatchString(text)
}

// mineHashtags 没有标签元素时，从正文文本里挖掘话题词
func mineHashtags(text string) []string {
	return dedupTags(hashtagPattern.FindAllString(text, -1))
}

// dedupTags 去重并保持原有顺序
func dedupTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// orHint 主值缺失（空或 "0"）时退回列表卡片上的提示值
func orHint(primary, hint string) string {
	if (primary == "" || primary == "0") && hint != "" && hint != "0" {
		return hint
	}
	return primary
}

// truncateRunes 按字符数截断
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// firstText 在 scope 内按优先级逐个尝试选择器，
// 返回第一个满足最小长度且不含样板文案的文本
func firstText(scope hasser, selectors []string, minRunes int) string {
	for _, sel := range selectors {
		has, el, err := scope.Has(sel)
		if err != nil || !has {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if len([]rune(text)) >= minRunes && !isBoilerplate(text) {
			return text
		}
	}
	return ""
}

// findDetailContainer 定位详情容器。详情可能是独立页也可能是弹层，
// 容器本身也走候选列表，全部未命中时返回 nil。
func findDetailContainer(page *rod.Page) *rod.Element {
	for _, sel := range detailContainerSelectors {
		has, el, err := page.Has(sel)
		if err == nil && has {
			return el
		}
	}
	return nil
}

// ExtractDetailContent 抽取详情页正文。
// 先按选择器取整块文本，失败后退回段落扫描兜底。
func ExtractDetailContent(page *rod.Page) string {
	container := findDetailContainer(page)
	if container == nil {
		logrus.Debug("未找到详情容器，跳过 DOM 正文抽取")
		return ""
	}

	if text := firstText(container, detailContentSelectors, 20); text != "" {
		return truncateRunes(text, maxContentRunes)
	}

	// 段落扫描兜底：收集容器内所有较长且不重复的段落
	result, err := container.Eval(`() => {
		const paragraphs = this.querySelectorAll('p, span.content, div.content');
		const texts = [];
		paragraphs.forEach(p => {
			const t = (p.textContent || '').trim();
			if (t.length > 10 && !t.includes('沪ICP备') && !texts.includes(t)) {
				texts.push(t);
			}
		});
		return texts.join('\n');
	}`)
	if err != nil {
		logrus.Debugf("段落扫描失败: %v", err)
		return ""
	}
	return truncateRunes(strings.TrimSpace(result.Value.String()), maxContentRunes)
}

// ExtractDetailAuthor 抽取详情页作者昵称
func ExtractDetailAuthor(page *rod.Page) string {
	container := findDetailContainer(page)
	if container == nil {
		return ""
	}
	return firstText(container, detailAuthorSelectors, 1)
}

// ExtractDetailAuthorLink 抽取作者主页链接
func ExtractDetailAuthorLink(page *rod.Page) string {
	container := findDetailContainer(page)
	if container == nil {
		return ""
	}
	for _, sel := range detailAuthorLinkSelectors {
		has, el, err := container.Has(sel)
		if err != nil || !has {
			continue
		}
		href, err := el.Attribute("href")
		if err != nil || href == nil || *href == "" {
			continue
		}
		link := *href
		if strings.HasPrefix(link, "/") {
			link = "https://www.xiaohongshu.com" + link
		}
		return link
	}
	return ""
}

// ExtractDetailLikes 抽取点赞数，保留站点的缩写文本
func ExtractDetailLikes(page *rod.Page) string {
	container := findDetailContainer(page)
	if container == nil {
		return "0"
	}
	if text := firstText(container, detailLikesSelectors, 1); text != "" {
		return text
	}
	return "0"
}

// ExtractDetailTags 抽取话题标签。
// 标签元素未命中时，退回在正文里挖掘 # 开头的话题词。
func ExtractDetailTags(page *rod.Page, content string) []string {
	container := findDetailContainer(page)

	var tags []string
	if container != nil {
		for _, sel := range detailTagSelectors {
			els, err := container.Elements(sel)
			if err != nil || len(els) == 0 {
				continue
			}
			for _, el := range els {
				text, err := el.Text()
				if err != nil {
					continue
				}
				text = strings.TrimSpace(text)
				if strings.HasPrefix(text, "#") {
					tags = append(tags, text)
				}
			}
			if len(tags) > 0 {
				break
			}
		}
	}

	if len(tags) == 0 && content != "" {
		tags = mineHashtags(content)
	}

	tags = dedupTags(tags)
	if len(tags) > maxTagCount {
		tags = tags[:maxTagCount]
	}
	return tags
}

// ExtractDetailComments 抽取评论，过滤灌水后最多保留 max 条
func ExtractDetailComments(page *rod.Page, max int) []CommentInfo {
	container := findDetailContainer(page)
	if container == nil {
		return nil
	}

	var items []*rod.Element
	for _, sel := range commentItemSelectors {
		els, err := container.Elements(sel)
		if err == nil && len(els) > 0 {
			items = els
			break
		}
	}

	comments := make([]CommentInfo, 0, max)
	for _, item := range items {
		if len(comments) >= max {
			break
		}
		author := firstText(item, commentAuthorSelectors, 1)
		content := firstText(item, commentContentSelectors, 1)
		if author == "" || content == "" || isMeaninglessComment(content) {
			continue
		}
		likes := firstText(item, commentLikesSelectors, 1)
		if likes == "" {
			likes = "0"
		}
		comments = append(comments, CommentInfo{
			Author:  author,
			Content: truncateRunes(content, maxCommentRunes),
			Likes:   likes,
		})
	}
	return comments
}

// CollectDetailImages 收集详情页的图片链接（排除头像、图标），最多 5 张
func CollectDetailImages(page *rod.Page) []string {
	result, err := page.Eval(`() => {
		const imgs = document.querySelectorAll('.note-detail-mask img, [class*="note-detail"] img');
		return Array.from(imgs)
			.map(img => img.src)
			.filter(src => src && src.includes('http') &&
				!src.includes('avatar') && !src.includes('icon'))
			.slice(0, 5);
	}`)
	if err != nil {
		return nil
	}
	var urls []string
	for _, v := range result.Value.Arr() {
		urls = append(urls, v.String())
	}
	return urls
}

// ---- 列表页卡片 ----

// FindNoteCards 按候选列表枚举列表页的笔记卡片元素
func FindNoteCards(page *rod.Page) []*rod.Element {
	for _, sel := range noteCardSelectors {
		cards, err := page.Elements(sel)
		if err == nil && len(cards) > 0 {
			logrus.Debugf("选择器 %q 命中 %d 个笔记卡片", sel, len(cards))
			return cards
		}
	}
	return nil
}

// CardTitle 抽取卡片标题
func CardTitle(card *rod.Element) string {
	return firstText(card, noteTitleSelectors, 1)
}

// CardAuthor 抽取卡片上的作者昵称
func CardAuthor(card *rod.Element) string {
	return firstText(card, noteAuthorSelectors, 1)
}

// CardLikes 抽取卡片上的点赞数
func CardLikes(card *rod.Element) string {
	if text := firstText(card, noteLikesSelectors, 1); text != "" {
		return text
	}
	return "0"
}

// CardLink 抽取卡片指向详情页的链接
func CardLink(card *rod.Element) string {
	for _, sel := range noteLinkSelectors {
		has, el, err := card.Has(sel)
		if err != nil || !has {
			continue
		}
		href, err := el.Attribute("href")
		if err != nil || href == nil || *href == "" {
			continue
		}
		link := *href
		if strings.HasPrefix(link, "/") {
			link = "https://www.xiaohongshu.com" + link
		}
		return link
	}
	return ""
}

// CardIsVideo 判断卡片是否为视频笔记，视频笔记直接跳过不采集
func CardIsVideo(card *rod.Element) bool {
	has, _, err := card.Has(`video, .play-icon, [class*="video"], [class*="play-duration"]`)
	return err == nil && has
}
