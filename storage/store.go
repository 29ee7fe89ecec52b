// Package storage 负责采集结果的 JSON 文件存储。
// 整库读入内存、合并去重后原子写回，规模在几千条以内时足够。
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixiansicong/xhs-intel/configs"
	"github.com/lixiansicong/xhs-intel/xiaohongshu"
)

const (
	summaryLength  = 300
	hotCommentsCap = 5

	// StatusPending 新入库，等待外部工具消费
	StatusPending = "pending"
	// StatusImported 已被外部工具导入，本系统只读不写这个状态
	StatusImported = "imported"
)

// NoteItem 持久化 schema。除 status 被外部工具翻转外，入库后不再修改。
type NoteItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Link         string   `json:"link"`
	Tags         []string `json:"tags"`
	Summary      string   `json:"summary"`
	FullText     string   `json:"full_text"`
	HotComments  []string `json:"hot_comments"`
	SourceAuthor string   `json:"source_author"`
	CrawledAt    string   `json:"crawled_at"`
	Status       string   `json:"status"`
}

// SaveResult 一次合并的统计
type SaveResult struct {
	Total    int `json:"total"`
	NewCount int `json:"new_count"`
	Skipped  int `json:"skipped"`
}

// Store 去重存储。Path 指向 JSON 数组文件，文件缺失或损坏都按空库处理。
type Store struct {
	Path             string
	MinContentLength int

	// now 可注入，测试里固定时间
	now func() time.Time
}

// NewStore 创建存储。minContentLength 以下的笔记正文视为无效，不入库。
func NewStore(path string, minContentLength int) *Store {
	return &Store{
		Path:             path,
		MinContentLength: minContentLength,
		now:              time.Now,
	}
}

// ToNoteItem 把采集结果映射为持久化条目。
// 三种情况返回 nil 丢弃：没有 noteId、来源关键词与领域无关、正文太短。
func (s *Store) ToNoteItem(note *xiaohongshu.NoteInfo) *NoteItem {
	if note == nil || note.NoteID == "" {
		return nil
	}
	if !isRelevant(note.Keyword) {
		logrus.Debugf("关键词 %q 与领域无关，丢弃: %s", note.Keyword, note.Title)
		return nil
	}

	fullText := note.FullContent
	if fullText == "" {
		fullText = note.Content
	}
	if len([]rune(fullText)) < s.MinContentLength {
		logrus.Debugf("正文过短 (%d 字)，丢弃: %s", len([]rune(fullText)), note.Title)
		return nil
	}

	link := note.Link
	if link == "" {
		link = "https://www.xiaohongshu.com/explore/" + note.NoteID
	}

	tags := note.Tags
	if len(tags) == 0 {
		tags = []string{note.Keyword}
	}

	hotComments := make([]string, 0, len(note.Comments))
	for _, c := range note.Comments {
		if len(hotComments) >= hotCommentsCap {
			break
		}
		hotComments = append(hotComments, fmt.Sprintf("[👍%s] %s: %s", c.Likes, c.Author, c.Content))
	}

	summary := note.Content
	if summary == "" {
		summary = fullText
	}
	if runes := []rune(summary); len(runes) > summaryLength {
		summary = string(runes[:summaryLength])
	}

	return &NoteItem{
		ID:           note.NoteID,
		Title:        note.Title,
		Link:         link,
		Tags:         tags,
		Summary:      summary,
		FullText:     fullText,
		HotComments:  hotComments,
		SourceAuthor: note.Author,
		CrawledAt:    s.now().UTC().Format(time.RFC3339),
		Status:       StatusPending,
	}
}

// isRelevant 来源关键词必须命中领域词表
func isRelevant(keyword string) bool {
	for _, word := range configs.RelevanceVocab {
		if strings.Contains(keyword, word) {
			return true
		}
	}
	return false
}

// Load 读取现有数据。文件缺失、读取失败、内容不是数组都按空库处理，
// 绝不因为库文件的问题中断采集。
func (s *Store) Load() []NoteItem {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.Warnf("无法读取现有数据，按空库处理: %v", err)
		}
		return nil
	}

	var items []NoteItem
	if err := json.Unmarshal(data, &items); err != nil {
		logrus.Warnf("数据格式错误，按空库处理: %v", err)
		return nil
	}
	return items
}

// Merge 增量合并采集结果。
// 已有 id 直接跳过（不覆盖旧数据），新条目追加到末尾后整库原子写回。
// 同一批输入跑两次，第二次 NewCount 必为 0。
func (s *Store) Merge(notes []*xiaohongshu.NoteInfo) (SaveResult, error) {
	existing := s.Load()
	if existing == nil {
		// 空库也要写出合法的 JSON 数组，外部消费方按数组读取
		existing = []NoteItem{}
	}

	existingIDs := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		existingIDs[item.ID] = struct{}{}
	}

	var newCount, skipped int
	for _, note := range notes {
		item := s.ToNoteItem(note)
		if item == nil {
			continue
		}
		if _, ok := existingIDs[item.ID]; ok {
			skipped++
			continue
		}
		existing = append(existing, *item)
		existingIDs[item.ID] = struct{}{}
		newCount++
		logrus.Infof("新增: %s", item.Title)
	}

	result := SaveResult{Total: len(existing), NewCount: newCount, Skipped: skipped}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return result, errors.Wrap(err, "序列化数据库失败")
	}
	if err := s.writeAtomic(data); err != nil {
		return result, err
	}
	return result, nil
}

// writeAtomic 原子写回：同目录临时文件 + fsync + 备份旧文件 + rename。
// 任何时刻读者看到的都是完整的旧文件或完整的新文件，
// 崩溃最多丢掉本次合并，.bak 留作人工恢复。
func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "创建数据目录失败")
	}

	tmp, err := os.CreateTemp(dir, ".db-*.tmp")
	if err != nil {
		return errors.Wrap(err, "创建临时文件失败")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "写入临时文件失败")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "落盘失败")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "关闭临时文件失败")
	}

	// 备份失败不致命，旧文件还在
	if old, err := os.ReadFile(s.Path); err == nil {
		if err := os.WriteFile(s.Path+".bak", old, 0o644); err != nil {
			logrus.Warnf("备份旧数据失败: %v", err)
		}
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		return errors.Wrap(err, "替换数据库文件失败")
	}
	return nil
}
