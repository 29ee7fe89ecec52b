package cookies

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// GetCookiesFilePath 返回默认 cookies 文件路径。
// 优先使用 XHS_COOKIES_PATH 环境变量，否则放在用户主目录下。
func GetCookiesFilePath() string {
	if path := os.Getenv("XHS_COOKIES_PATH"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "xhs_cookies.json"
	}
	return filepath.Join(home, ".xhs-intel", "cookies.json")
}

// LoadCookie cookies 文件的读写器
type LoadCookie struct {
	path string
}

// NewLoadCookie 创建指定路径的 cookies 读写器
func NewLoadCookie(path string) *LoadCookie {
	return &LoadCookie{path: path}
}

// LoadCookies 读取 cookies 文件内容。
// 文件不存在、为空或不是 JSON 数组都视为错误：没有会话就不应该发起采集。
func (l *LoadCookie) LoadCookies() ([]byte, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, errors.Wrapf(err, "读取 cookies 文件失败: %s", l.path)
	}

	if len(data) == 0 {
		return nil, errors.Errorf("cookies 文件为空: %s", l.path)
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, errors.Wrapf(err, "cookies 文件格式不正确: %s", l.path)
	}
	if len(arr) == 0 {
		return nil, errors.Errorf("cookies 文件中没有任何 cookie: %s", l.path)
	}

	return data, nil
}

// SaveCookies 保存 cookies 到文件，目录不存在时自动创建
func (l *LoadCookie) SaveCookies(data []byte) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "创建 cookies 目录失败: %s", dir)
	}

	if err := os.WriteFile(l.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "写入 cookies 文件失败: %s", l.path)
	}
	return nil
}
