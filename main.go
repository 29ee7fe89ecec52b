package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lixiansicong/xhs-intel/configs"
	"github.com/lixiansicong/xhs-intel/cookies"
	"github.com/lixiansicong/xhs-intel/storage"
)

func main() {
	var (
		headless    bool
		binPath     string // 浏览器二进制文件路径
		port        string
		serve       bool // 以 HTTP 服务模式运行
		keywordsArg string
		dbPath      string
		reportDir   string
		bundlePath  string
		safetyPath  string
		likeNotes   bool
		verbose     bool
	)
	flag.BoolVar(&headless, "headless", true, "是否无头模式")
	flag.StringVar(&binPath, "bin", "", "浏览器二进制文件路径")
	flag.StringVar(&port, "port", ":18060", "HTTP 服务端口")
	flag.BoolVar(&serve, "serve", false, "以 HTTP 服务模式运行（给外部看板供数）")
	flag.StringVar(&keywordsArg, "keywords", "", "自定义搜索关键词，逗号分隔（默认智能混合轮询）")
	flag.StringVar(&dbPath, "db", "", "数据库 JSON 文件路径")
	flag.StringVar(&reportDir, "reports", "", "日报输出目录")
	flag.StringVar(&bundlePath, "bundle", "", "同步包输出路径")
	flag.StringVar(&safetyPath, "safety", "", "安全节奏配置 YAML，覆盖默认值")
	flag.BoolVar(&likeNotes, "like", true, "是否按概率给笔记点赞")
	flag.BoolVar(&verbose, "verbose", false, "输出调试日志")
	flag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// .env 缺失不是错误，环境变量可能已在外部配置
	_ = godotenv.Load()

	if len(binPath) == 0 {
		binPath = os.Getenv("ROD_BROWSER_BIN")
	}
	configs.InitHeadless(headless)
	configs.SetBinPath(binPath)

	if dbPath == "" {
		dbPath = filepath.Join(configs.DataDir(), "interview_questions.json")
	}
	if reportDir == "" {
		reportDir = configs.ReportsDir()
	}
	if bundlePath == "" {
		bundlePath = filepath.Join(configs.DataDir(), "sync_bundle.json")
	}

	safety := configs.DefaultSafety()
	if safetyPath != "" {
		loaded, err := configs.LoadSafety(safetyPath)
		if err != nil {
			logrus.Fatalf("加载安全配置失败: %v", err)
		}
		safety = loaded
	}

	// Cookie 文件完全缺失或无法解析时直接退出：没有会话不跑任何采集
	if _, err := cookies.NewLoadCookie(cookies.GetCookiesFilePath()).LoadCookies(); err != nil {
		logrus.Fatalf("加载 Cookie 失败: %v（请先完成登录并导出 Cookie）", err)
	}

	keywords := resolveKeywords(keywordsArg)
	if safety.MaxKeywordsPerSession > 0 && len(keywords) > safety.MaxKeywordsPerSession {
		logrus.Warnf("关键词数量超过单次上限，截取前 %d 个", safety.MaxKeywordsPerSession)
		keywords = keywords[:safety.MaxKeywordsPerSession]
	}

	opts := CollectOptions{
		Keywords:   keywords,
		Safety:     safety,
		Store:      storage.NewStore(dbPath, safety.MinContentLength),
		ReportDir:  reportDir,
		BundlePath: bundlePath,
		LikeNotes:  likeNotes,
	}

	if serve {
		if err := NewAppServer(opts).Start(port); err != nil {
			logrus.Fatalf("failed to run server: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.Infof("本次关键词组合: %s", strings.Join(opts.Keywords, " / "))
	if err := runCollection(ctx, opts); err != nil {
		logrus.Fatalf("情报搜集失败: %v", err)
	}
}

// resolveKeywords 命令行指定的关键词优先，否则智能混合轮询
func resolveKeywords(arg string) []string {
	if arg == "" {
		return configs.SmartMixKeywords()
	}

	var keywords []string
	for _, kw := range strings.Split(arg, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return configs.SmartMixKeywords()
	}
	return keywords
}
