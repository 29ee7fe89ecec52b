package cookies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	t.Run("正常读取", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")
		content := `[{"name":"web_session","value":"abc123","domain":".xiaohongshu.com"}]`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		data, err := NewLoadCookie(path).LoadCookies()
		require.NoError(t, err)
		assert.JSONEq(t, content, string(data))
	})

	t.Run("文件不存在报错", func(t *testing.T) {
		_, err := NewLoadCookie(filepath.Join(t.TempDir(), "missing.json")).LoadCookies()
		assert.Error(t, err)
	})

	t.Run("空文件报错", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		_, err := NewLoadCookie(path).LoadCookies()
		assert.Error(t, err)
	})

	t.Run("非JSON数组报错", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"x"}`), 0o600))
		_, err := NewLoadCookie(path).LoadCookies()
		assert.Error(t, err)
	})

	t.Run("空数组报错", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))
		_, err := NewLoadCookie(path).LoadCookies()
		assert.Error(t, err)
	})
}

func TestSaveCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cookies.json")
	content := []byte(`[{"name":"web_session","value":"abc"}]`)

	loader := NewLoadCookie(path)
	require.NoError(t, loader.SaveCookies(content))

	data, err := loader.LoadCookies()
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestGetCookiesFilePath(t *testing.T) {
	t.Run("环境变量优先", func(t *testing.T) {
		t.Setenv("XHS_COOKIES_PATH", "/tmp/custom_cookies.json")
		assert.Equal(t, "/tmp/custom_cookies.json", GetCookiesFilePath())
	})

	t.Run("默认路径在用户目录下", func(t *testing.T) {
		t.Setenv("XHS_COOKIES_PATH", "")
		assert.Contains(t, GetCookiesFilePath(), ".xhs-intel")
	})
}
