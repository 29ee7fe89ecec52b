package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lixiansicong/xhs-intel/configs"
	"github.com/lixiansicong/xhs-intel/storage"
)

// companyNames 公司提及统计用的朴素词表，命中即计数，不做分词
var companyNames = []string{
	"字节", "腾讯", "阿里", "美团", "百度", "快手",
	"拼多多", "京东", "小红书", "华为", "网易", "滴滴",
}

// SyncBundle 给外部系统消费的同步数据包：
// 最近入库的记录加几组朴素的聚合统计。
type SyncBundle struct {
	GeneratedAt     string             `json:"generated_at"`
	Total           int                `json:"total"`
	Recent          []storage.NoteItem `json:"recent"`
	TagCounts       map[string]int     `json:"tag_counts"`
	TopicCounts     map[string]int     `json:"topic_counts"`
	CompanyMentions map[string]int     `json:"company_mentions"`
}

// BuildSyncBundle 从整库聚合出同步包。recentN 控制随包携带的最近记录数。
func BuildSyncBundle(items []storage.NoteItem, recentN int) *SyncBundle {
	bundle := &SyncBundle{
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Total:           len(items),
		TagCounts:       make(map[string]int),
		TopicCounts:     make(map[string]int),
		CompanyMentions: make(map[string]int),
	}

	for _, item := range items {
		for _, tag := range item.Tags {
			tag = strings.TrimPrefix(tag, "#")
			if tag != "" {
				bundle.TagCounts[tag]++
			}
		}

		text := item.Title + " " + item.Summary
		for _, topic := range configs.RelevanceVocab {
			if strings.Contains(text, topic) {
				bundle.TopicCounts[topic]++
			}
		}
		for _, company := range companyNames {
			if strings.Contains(text, company) {
				bundle.CompanyMentions[company]++
			}
		}
	}

	if recentN > 0 && len(items) > 0 {
		start := len(items) - recentN
		if start < 0 {
			start = 0
		}
		bundle.Recent = items[start:]
	}
	return bundle
}

// WriteSyncBundle 把同步包写成 JSON 文件
func WriteSyncBundle(path string, bundle *SyncBundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "创建同步包目录失败")
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return errors.Wrap(err, "序列化同步包失败")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "写入同步包失败")
	}
	return nil
}
