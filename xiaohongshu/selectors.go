package xiaohongshu

// 页面 DOM 选择器集中在这里维护。
// 站点前端的类名经常变化，所以每个字段都是按优先级排列的候选列表，
// 抽取逻辑逐个尝试，命中即止。

// 登录态检测
var (
	loginCheckSelectors = []string{
		".login-container",
		".login-modal",
		".qrcode-login",
	}

	loginURLPatterns = []string{
		"/login",
		"/signin",
	}
)

// 详情页（弹层或独立页均适用）
var (
	detailContainerSelectors = []string{
		".note-detail-mask",
		".note-container",
		`[class*="noteDetail"]`,
		".detail-container",
	}

	detailContentSelectors = []string{
		".note-content",
		"#detail-desc",
		".content",
		".desc",
		`[class*="noteDetail"] [class*="content"]`,
		`[class*="note-detail"]`,
		".detail-content",
		"article",
		".text-content",
	}

	detailTagSelectors = []string{
		"a.tag",
		".hash-tag",
		`a[href*="/search_result"]`,
		`[class*="tag"]`,
	}

	detailAuthorSelectors = []string{
		".author-wrapper .name",
		".user-name",
		".author .username",
		".nickname",
		`[class*="author"] [class*="name"]`,
	}

	detailAuthorLinkSelectors = []string{
		`.author-wrapper a[href*="/user/profile/"]`,
		`.user-info a[href*="/user/"]`,
		`a.author[href*="/user/"]`,
		`[class*="author"] a[href*="/user/"]`,
	}

	detailLikesSelectors = []string{
		".like-wrapper .count",
		".engage-bar-container .like .count",
		`[class*="like"] .count`,
		`[class*="like-count"]`,
	}
)

// 详情页评论区
var (
	commentItemSelectors = []string{
		".comment-item",
		".comment-inner",
		`[class*="commentItem"]`,
		`[class*="comment-item"]`,
	}

	commentAuthorSelectors = []string{
		".author-wrapper .name",
		".user-name",
		".nickname",
		`[class*="author"] [class*="name"]`,
	}

	commentContentSelectors = []string{
		".content",
		".note-text",
		`[class*="content"]`,
	}

	commentLikesSelectors = []string{
		".like .count",
		`[class*="like"] .count`,
	}
)

// 详情页图片轮播
var (
	carouselNextSelectors = []string{
		".carousel-next",
		".swiper-button-next",
		".note-slider-next",
		".image-viewer-next",
		".slider-arrow-right",
		`[aria-label="下一张"]`,
		`[aria-label="next"]`,
		`[aria-label="Next"]`,
		`[class*="next"]`,
		`[class*="arrow-right"]`,
	}

	carouselImageSelector = `.note-slider img, .carousel-image img, .swiper-slide img, [class*="media"] img`

	carouselAreaSelector = `.note-slider, .carousel, .swiper-container, [class*="media"]`
)

// 列表页笔记卡片（发现页和搜索结果页共用）
var (
	noteCardSelectors = []string{
		"section.note-item",
		".note-item",
		".feed-card",
		"[data-note-id]",
		".search-result-item",
	}

	noteTitleSelectors = []string{
		".title span",
		".title",
		".note-title",
		"a.title",
		`[class*="title"]`,
	}

	noteAuthorSelectors = []string{
		".author .name",
		".user-name",
		".nickname",
		".author-name",
		`[class*="author"] [class*="name"]`,
	}

	noteLikesSelectors = []string{
		".like-wrapper .count",
		".like .count",
		".like-count",
		`[class*="like"] [class*="count"]`,
		".engagement .count",
	}

	noteLinkSelectors = []string{
		`a[href*="/explore/"]`,
		`a[href*="/discovery/"]`,
		`a[href*="/search_result/"]`,
		"a.cover",
		`a[href*="xiaohongshu"]`,
	}
)
