package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lixiansicong/xhs-intel/storage"
)

// AppServer 面向外部看板的只读 JSON API，外加一个触发采集的入口。
// 看板 UI 本身由外部项目提供，这里只暴露数据。
type AppServer struct {
	opts    CollectOptions
	running atomic.Bool
}

// NewAppServer 创建应用服务器
func NewAppServer(opts CollectOptions) *AppServer {
	return &AppServer{opts: opts}
}

// Start 启动 HTTP 服务
func (s *AppServer) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/database", s.handleDatabase)
		api.GET("/report", s.handleReport)
		api.GET("/bundle", s.handleBundle)
		api.POST("/collect", s.handleCollect)
	}

	logrus.Infof("HTTP 服务启动: %s", addr)
	return router.Run(addr)
}

// handleStatus 运行状态与库规模
func (s *AppServer) handleStatus(c *gin.Context) {
	items := s.opts.Store.Load()

	var lastCrawledAt string
	if len(items) > 0 {
		lastCrawledAt = items[len(items)-1].CrawledAt
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"collecting":      s.running.Load(),
		"total":           len(items),
		"last_crawled_at": lastCrawledAt,
	})
}

// handleDatabase 返回整库。规模在几千条以内，直接整体返回
func (s *AppServer) handleDatabase(c *gin.Context) {
	items := s.opts.Store.Load()
	if items == nil {
		items = []storage.NoteItem{}
	}
	c.JSON(http.StatusOK, items)
}

// handleReport 返回最新日报的 Markdown 原文
func (s *AppServer) handleReport(c *gin.Context) {
	path := filepath.Join(s.opts.ReportDir, "daily_trends.md")
	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "日报尚未生成"})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", data)
}

// handleBundle 返回最新同步包
func (s *AppServer) handleBundle(c *gin.Context) {
	data, err := os.ReadFile(s.opts.BundlePath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "同步包尚未生成"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// handleCollect 触发一次采集。采集是串行长任务，同一时间只允许一个在跑。
func (s *AppServer) handleCollect(c *gin.Context) {
	if !s.running.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "已有采集任务在运行"})
		return
	}

	go func() {
		defer s.running.Store(false)
		if err := runCollection(context.Background(), s.opts); err != nil {
			logrus.Errorf("采集任务失败: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "采集任务已启动"})
}
