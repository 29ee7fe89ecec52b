package configs

import (
	"os"
	"path/filepath"
)

var (
	headless = true
	binPath  string
)

// InitHeadless 设置是否使用无头模式
func InitHeadless(v bool) {
	headless = v
}

// IsHeadless 返回是否使用无头模式
func IsHeadless() bool {
	return headless
}

// SetBinPath 设置浏览器二进制文件路径
func SetBinPath(path string) {
	binPath = path
}

// GetBinPath 返回浏览器二进制文件路径
func GetBinPath() string {
	return binPath
}

// DataDir 返回数据目录，优先使用 XHS_DATA_DIR 环境变量
func DataDir() string {
	if dir := os.Getenv("XHS_DATA_DIR"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "data"
	}
	return filepath.Join(wd, "data")
}

// ReportsDir 返回日报输出目录
func ReportsDir() string {
	if dir := os.Getenv("XHS_REPORTS_DIR"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "reports"
	}
	return filepath.Join(wd, "reports")
}
