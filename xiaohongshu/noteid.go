package xiaohongshu

import (
	"net/url"
	"regexp"
	"strings"
)

// 笔记 ID 是 24 位十六进制串，可能出现在多种路径形态里
var noteIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/explore/([a-f0-9]{24})`),
	regexp.MustCompile(`(?i)/discovery/item/([a-f0-9]{24})`),
	regexp.MustCompile(`(?i)/search_result/([a-f0-9]{24})`),
	regexp.MustCompile(`(?i)/note/([a-f0-9]{24})`),
	regexp.MustCompile(`(?i)[?&]noteId=([a-f0-9]{24})`),
}

// 兜底：路径中任意长度 >=20 的十六进制段
var noteIDFallback = regexp.MustCompile(`(?i)/([a-f0-9]{20,})`)

// ExtractNoteID 从任意形态的 URL 中提取笔记 ID，无法识别时返回空串。
// 纯函数，永不报错。
func ExtractNoteID(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	for _, p := range noteIDPatterns {
		if m := p.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
	}

	if m := noteIDFallback.FindStringSubmatch(rawURL); len(m) > 1 {
		return m[1]
	}
	return ""
}

// MakeSearchURL 构造关键词搜索页 URL
func MakeSearchURL(keyword string) string {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("source", "web_explore_feed")
	return "https://www.xiaohongshu.com/search_result?" + params.Encode()
}

// MakeDetailURL 构造笔记详情页 URL，带上 xsec_token 才能稳定打开详情
func MakeDetailURL(noteID, xsecToken string) string {
	if noteID == "" {
		return ""
	}
	if xsecToken != "" {
		return "https://www.xiaohongshu.com/explore/" + noteID +
			"?xsec_token=" + xsecToken + "&xsec_source=pc_feed"
	}
	return "https://www.xiaohongshu.com/explore/" + noteID
}

// parseNoteURL 从笔记链接中解析 noteID 和 xsecToken。
// URL 格式: /explore/68e66fef0000000004023fdb?xsec_token=ABc9...&xsec_source=pc_feed
func parseNoteURL(urlStr string) (noteID, xsecToken string) {
	if strings.Contains(urlStr, "/explore/") {
		parts := strings.Split(urlStr, "/explore/")
		if len(parts) > 1 {
			pathPart := parts[1]
			if idx := strings.Index(pathPart, "?"); idx > 0 {
				noteID = pathPart[:idx]
			} else {
				noteID = pathPart
			}
		}
	}

	if strings.Contains(urlStr, "xsec_token=") {
		parts := strings.Split(urlStr, "xsec_token=")
		if len(parts) > 1 {
			tokenPart := parts[1]
			if idx := strings.Index(tokenPart, "&"); idx > 0 {
				xsecToken = tokenPart[:idx]
			} else {
				xsecToken = tokenPart
			}
		}
	}

	return noteID, xsecToken
}

// cardNoteRef 从卡片链接中解析笔记 ID 与访问令牌。
// ID 走严格的形态匹配，令牌只要出现在查询参数里就保留，
// 丢了令牌的详情链接往往打不开。
func cardNoteRef(link string) (noteID, xsecToken string) {
	_, xsecToken = parseNoteURL(link)
	noteID = ExtractNoteID(link)
	return noteID, xsecToken
}
