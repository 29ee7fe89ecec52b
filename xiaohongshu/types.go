package xiaohongshu

import "strings"

// ---- window.__INITIAL_STATE__ 中的结构 ----
//
// 这些结构由站点前端注入、随站点版本变化，所有字段都可能缺失。
// 解析失败或路径不存在一律返回零值，由调用方回退到 DOM 方案。

// User 用户信息
type User struct {
	UserID   string `json:"userId,omitempty"`
	NickName string `json:"nickName,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	RedID    string `json:"redId,omitempty"`
}

// Name 返回一个可用的显示名，多个字段挑第一个非空的
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	for _, name := range []string{u.NickName, u.Nickname, u.RedID} {
		if name != "" {
			return name
		}
	}
	return ""
}

// InteractInfo 互动信息
type InteractInfo struct {
	Liked          bool   `json:"liked,omitempty"`
	LikedCount     string `json:"likedCount,omitempty"`
	Collected      bool   `json:"collected,omitempty"`
	CollectedCount string `json:"collectedCount,omitempty"`
	SharedCount    string `json:"sharedCount,omitempty"`
	CommentCount   string `json:"commentCount,omitempty"`
}

// Cover 封面图
type Cover struct {
	URL        string `json:"url,omitempty"`
	URLDefault string `json:"urlDefault,omitempty"`
	URLPre     string `json:"urlPre,omitempty"`
	FileID     string `json:"fileId,omitempty"`
}

// NoteCard 笔记卡片（列表项内嵌）
type NoteCard struct {
	Type         string        `json:"type,omitempty"`
	DisplayTitle string        `json:"displayTitle,omitempty"`
	User         *User         `json:"user,omitempty"`
	InteractInfo *InteractInfo `json:"interactInfo,omitempty"`
	Cover        *Cover        `json:"cover,omitempty"`
	Video        *struct {
		URL string `json:"url,omitempty"`
	} `json:"video,omitempty"`
}

// Feed 列表中的一条笔记
type Feed struct {
	ID        string    `json:"id"`
	XsecToken string    `json:"xsecToken,omitempty"`
	ModelType string    `json:"modelType,omitempty"`
	NoteCard  *NoteCard `json:"noteCard,omitempty"`
	Index     int       `json:"index,omitempty"`
}

// IsVideo 判断该笔记是否为视频笔记（视频笔记跳过采集）
func (f *Feed) IsVideo() bool {
	if f == nil || f.NoteCard == nil {
		return false
	}
	if f.NoteCard.Video != nil {
		return true
	}
	return f.NoteCard.Type == "video"
}

// FeedComment 详情页评论
type FeedComment struct {
	ID          string         `json:"id,omitempty"`
	NoteID      string         `json:"noteId,omitempty"`
	Content     string         `json:"content,omitempty"`
	LikeCount   string         `json:"likeCount,omitempty"`
	CreateTime  int64          `json:"createTime,omitempty"`
	IPLocation  string         `json:"ipLocation,omitempty"`
	UserInfo    *User          `json:"userInfo,omitempty"`
	SubComments []*FeedComment `json:"subComments,omitempty"`
}

// FeedDetail 详情页笔记主体
type FeedDetail struct {
	NoteID       string        `json:"noteId"`
	XsecToken    string        `json:"xsecToken,omitempty"`
	Title        string        `json:"title,omitempty"`
	Desc         string        `json:"desc,omitempty"`
	Type         string        `json:"type,omitempty"`
	Time         int64         `json:"time,omitempty"`
	IPLocation   string        `json:"ipLocation,omitempty"`
	User         *User         `json:"user,omitempty"`
	InteractInfo *InteractInfo `json:"interactInfo,omitempty"`
	ImageList    []struct {
		Width      int    `json:"width,omitempty"`
		Height     int    `json:"height,omitempty"`
		URLDefault string `json:"urlDefault,omitempty"`
		URLPre     string `json:"urlPre,omitempty"`
	} `json:"imageList,omitempty"`
}

// FeedDetailResponse 详情页数据：笔记主体 + 评论列表
type FeedDetailResponse struct {
	Note     FeedDetail       `json:"note"`
	Comments FeedCommentsPage `json:"comments"`
}

// FeedCommentsPage 评论分页
type FeedCommentsPage struct {
	List    []*FeedComment `json:"list"`
	Cursor  string         `json:"cursor,omitempty"`
	HasMore bool           `json:"hasMore,omitempty"`
}

// UserBasicInfo 用户主页的基础资料
type UserBasicInfo struct {
	Gender     int    `json:"gender,omitempty"`
	IPLocation string `json:"ipLocation,omitempty"`
	Desc       string `json:"desc,omitempty"`
	Nickname   string `json:"nickname,omitempty"`
	Images     string `json:"images,omitempty"`
	RedID      string `json:"redId,omitempty"`
}

// UserProfileResponse 用户主页数据
type UserProfileResponse struct {
	UserBasicInfo *UserBasicInfo `json:"userBasicInfo,omitempty"`
	Interactions []struct {
		Type  string `json:"type,omitempty"`
		Name  string `json:"name,omitempty"`
		Count string `json:"count,omitempty"`
	} `json:"interactions,omitempty"`
	Feeds []Feed `json:"feeds,omitempty"`
}

// ---- 采集结果 ----

// CommentInfo 采集到的一条评论
type CommentInfo struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Likes   string `json:"likes"`
}

// NoteInfo 一篇采集完成的笔记。
// Likes 保持站点展示的缩写文本（如 "1.2万"），不解析为数字。
type NoteInfo struct {
	Keyword     string        `json:"keyword"`
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	AuthorLink  string        `json:"author_link"`
	AuthorID    string        `json:"author_id,omitempty"`
	Likes       string        `json:"likes"`
	Link        string        `json:"link"`
	NoteID      string        `json:"note_id"`
	XsecToken   string        `json:"xsec_token,omitempty"`
	Content     string        `json:"content"`
	FullContent string        `json:"full_content"`
	Tags        []string      `json:"tags"`
	Comments    []CommentInfo `json:"comments"`
}

// SeenTitles 单次采集会话内的已读标题集合（大小写不敏感、去首尾空白）。
// 作为显式值由会话持有并传递，不做进程级单例，方便多会话互不影响。
type SeenTitles map[string]struct{}

// NewSeenTitles 创建空的已读集合
func NewSeenTitles() SeenTitles {
	return make(SeenTitles)
}

// Seen 检查标题是否已读，未读则记录并返回 false
func (s SeenTitles) Seen(title string) bool {
	key := strings.ToLower(strings.TrimSpace(title))
	if key == "" {
		return false
	}
	if _, ok := s[key]; ok {
		return true
	}
	s[key] = struct{}{}
	return false
}
