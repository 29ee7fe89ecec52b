package browser

import (
	"math/rand"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
	"github.com/xpzouying/headless_browser"

	"github.com/lixiansicong/xhs-intel/cookies"
)

type browserConfig struct {
	binPath    string
	cookiePath string
}

type Option func(*browserConfig)

func WithBinPath(binPath string) Option {
	return func(c *browserConfig) {
		c.binPath = binPath
	}
}

// WithCookiesPath 指定新浏览器实例启动时要使用的 cookies 文件路径。
func WithCookiesPath(path string) Option {
	return func(c *browserConfig) {
		c.cookiePath = path
	}
}

// NewBrowser 创建浏览器实例并加载登录态 cookies。
// cookies 加载失败不在这里中断：采集主流程会通过登录态预检查发现并退出。
func NewBrowser(headless bool, options ...Option) *headless_browser.Browser {
	cfg := &browserConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	opts := []headless_browser.Option{
		headless_browser.WithHeadless(headless),
	}
	if cfg.binPath != "" {
		opts = append(opts, headless_browser.WithChromeBinPath(cfg.binPath))
	}

	cookiePath := cfg.cookiePath
	if cookiePath == "" {
		cookiePath = cookies.GetCookiesFilePath()
	}
	cookieLoader := cookies.NewLoadCookie(cookiePath)

	if data, err := cookieLoader.LoadCookies(); err == nil {
		opts = append(opts, headless_browser.WithCookies(string(data)))
		logrus.WithField("cookies_path", cookiePath).Debug("loaded cookies from file successfully")
	} else {
		logrus.WithField("cookies_path", cookiePath).Warnf("failed to load cookies: %v", err)
	}

	return headless_browser.New(opts...)
}

// 常见桌面分辨率，随机挑选并加少量抖动，避免每次启动视口完全一致
var viewportPresets = [][2]int{
	{1366, 768},
	{1440, 900},
	{1536, 864},
	{1600, 900},
	{1920, 1080},
}

// ConfigurePage 配置页面视口，随机化窗口尺寸降低指纹特征
func ConfigurePage(page *rod.Page) {
	preset := viewportPresets[rand.Intn(len(viewportPresets))]
	jitter := func() int { return rand.Intn(81) - 40 } // ±40 抖动

	width := preset[0] + jitter()
	height := preset[1] + jitter()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		logrus.Warnf("failed to set viewport: %v", err)
		return
	}

	logrus.Debugf("页面视口已设置为 %dx%d", width, height)
}
