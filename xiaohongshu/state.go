package xiaohongshu

import (
	"encoding/json"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// 本文件统一封装对 window.__INITIAL_STATE__ 的读取。
// 结构化状态是首选数据源，缺失时返回 nil 并由调用方退回 DOM 抽取，
// 所以这里对每一层路径都做存在性判断，绝不让页面脚本抛异常。

// GetFeedsList 从发现页状态中读取推荐流笔记列表
func GetFeedsList(page *rod.Page) ([]Feed, error) {
	result, err := page.Eval(`() => {
		if (window.__INITIAL_STATE__ &&
		    window.__INITIAL_STATE__.feed &&
		    window.__INITIAL_STATE__.feed.feeds &&
		    window.__INITIAL_STATE__.feed.feeds._value) {
			// 只提取需要的字段，避免循环引用
			const feeds = window.__INITIAL_STATE__.feed.feeds._value;
			return JSON.stringify(feeds.map(feed => ({
				id: feed.id,
				type: feed.type,
				xsecToken: feed.xsecToken,
				noteCard: feed.noteCard
			})));
		}
		return "";
	}`)
	if err != nil {
		return nil, errors.Wrap(err, "读取发现页状态失败")
	}

	raw := result.Value.String()
	if raw == "" {
		logrus.Debug("发现页 __INITIAL_STATE__ 中没有 feeds 数据")
		return nil, nil
	}

	var feeds []Feed
	if err := json.Unmarshal([]byte(raw), &feeds); err != nil {
		return nil, errors.Wrap(err, "解析推荐流数据失败")
	}

	logrus.Debugf("从页面状态解析到 %d 条推荐笔记", len(feeds))
	return feeds, nil
}

// GetSearchFeeds 从搜索结果页状态中读取命中的笔记列表
func GetSearchFeeds(page *rod.Page) ([]Feed, error) {
	result, err := page.Eval(`() => {
		if (window.__INITIAL_STATE__ &&
		    window.__INITIAL_STATE__.search &&
		    window.__INITIAL_STATE__.search.feeds &&
		    window.__INITIAL_STATE__.search.feeds._value) {
			const feeds = window.__INITIAL_STATE__.search.feeds._value;
			return JSON.stringify(feeds.map(feed => ({
				id: feed.id,
				type: feed.type,
				xsecToken: feed.xsecToken,
				noteCard: feed.noteCard
			})));
		}
		return "";
	}`)
	if err != nil {
		return nil, errors.Wrap(err, "读取搜索页状态失败")
	}

	raw := result.Value.String()
	if raw == "" {
		logrus.Debug("搜索页 __INITIAL_STATE__ 中没有 feeds 数据")
		return nil, nil
	}

	var feeds []Feed
	if err := json.Unmarshal([]byte(raw), &feeds); err != nil {
		return nil, errors.Wrap(err, "解析搜索结果数据失败")
	}

	logrus.Debugf("从页面状态解析到 %d 条搜索结果", len(feeds))
	return feeds, nil
}

// GetFeedDetail 打开笔记详情后，从 note.noteDetailMap 中读取完整笔记与评论。
// 指定 feedID 时只取该条，否则取 map 中的第一条（详情页通常只有一条）。
func GetFeedDetail(page *rod.Page, feedID string) (*FeedDetailResponse, error) {
	result, err := page.Eval(`(feedID) => {
		if (window.__INITIAL_STATE__ &&
		    window.__INITIAL_STATE__.note &&
		    window.__INITIAL_STATE__.note.noteDetailMap) {
			const detailMap = window.__INITIAL_STATE__.note.noteDetailMap;
			if (feedID && detailMap[feedID]) {
				return JSON.stringify(detailMap[feedID]);
			}
			const keys = Object.keys(detailMap);
			if (!feedID && keys.length > 0) {
				return JSON.stringify(detailMap[keys[0]]);
			}
		}
		return "";
	}`, feedID)
	if err != nil {
		return nil, errors.Wrap(err, "读取笔记详情状态失败")
	}

	raw := result.Value.String()
	if raw == "" {
		logrus.Debugf("详情页状态中没有笔记 %s 的数据", feedID)
		return nil, nil
	}

	var resp FeedDetailResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, errors.Wrap(err, "解析笔记详情失败")
	}
	return &resp, nil
}

// GetUserProfile 从用户主页状态中读取资料与已发布笔记
func GetUserProfile(page *rod.Page) (*UserProfileResponse, error) {
	result, err := page.Eval(`() => {
		if (window.__INITIAL_STATE__ && window.__INITIAL_STATE__.user) {
			const user = window.__INITIAL_STATE__.user;
			const out = {};
			if (user.userPageData && user.userPageData._value) {
				const pd = user.userPageData._value;
				out.userBasicInfo = pd.basicInfo;
				out.interactions = pd.interactions;
			}
			if (user.notes && user.notes._value) {
				// notes._value 按标签页分组，拍平成单个列表
				out.feeds = [].concat(...user.notes._value);
			}
			if (Object.keys(out).length > 0) {
				return JSON.stringify(out);
			}
		}
		return "";
	}`)
	if err != nil {
		return nil, errors.Wrap(err, "读取用户主页状态失败")
	}

	raw := result.Value.String()
	if raw == "" {
		return nil, nil
	}

	var resp UserProfileResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, errors.Wrap(err, "解析用户主页数据失败")
	}
	return &resp, nil
}
