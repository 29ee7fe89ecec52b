package xiaohongshu

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
)

// IsLoginRequired 检测当前页面是否处于要求登录的状态。
// 三条独立信号任一命中即判定需要登录：URL 包含登录路径、
// 页面上出现可见的登录弹窗元素、页面标题含"登录"。
// 命中后调用方应放弃当前关键词并报告，而不是继续采集。
func IsLoginRequired(page *rod.Page) bool {
	info, err := page.Info()
	if err != nil {
		logrus.Debugf("读取页面信息失败: %v", err)
		return false
	}

	for _, pattern := range loginURLPatterns {
		if strings.Contains(info.URL, pattern) {
			logrus.Warnf("页面跳转到登录页: %s", info.URL)
			return true
		}
	}

	for _, sel := range loginCheckSelectors {
		has, el, err := page.Has(sel)
		if err != nil || !has {
			continue
		}
		if visible, err := el.Visible(); err == nil && visible {
			logrus.Warnf("检测到登录弹窗: %s", sel)
			return true
		}
	}

	if strings.Contains(info.Title, "登录") {
		logrus.Warnf("页面标题要求登录: %s", info.Title)
		return true
	}

	return false
}
