package xiaohongshu

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
)

// OCRMarker 追加到正文末尾的 OCR 段落分隔标记
const OCRMarker = "[OCR Content]"

// minOCRTextLen 识别结果短于这个字符数视为噪声，丢弃
const minOCRTextLen = 10

// ExtractOCRFromImages 对详情页第一张图片截图并做 OCR 识别。
// 正文为空或过短的图片笔记走这条兜底路径。识别结果有效时
// 返回带 OCRMarker 前缀的文本段，任何失败（找不到图、截图失败、
// 识别超时）都返回空串，绝不向上抛错。
func ExtractOCRFromImages(page *rod.Page, timeout time.Duration) string {
	has, img, err := page.Has(carouselImageSelector)
	if err != nil || !has {
		logrus.Debug("[OCR] 未找到图片元素")
		return ""
	}

	buf, err := img.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil || len(buf) == 0 {
		logrus.Warnf("[OCR] 截图失败: %v", err)
		return ""
	}

	text := recognizeWithTimeout(buf, timeout)
	if len([]rune(text)) <= minOCRTextLen {
		logrus.Debug("[OCR] 识别文字太少，跳过")
		return ""
	}

	logrus.Debugf("[OCR] 识别到 %d 字", len([]rune(text)))
	return "\n\n" + OCRMarker + "\n" + text
}

// recognizeWithTimeout 在独立 goroutine 里跑 tesseract，超时则放弃结果。
// 超时后 goroutine 会继续跑完并自行释放 client，只是结果被丢弃。
func recognizeWithTimeout(imageData []byte, timeout time.Duration) string {
	type ocrResult struct {
		text string
		err  error
	}
	done := make(chan ocrResult, 1)

	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage("chi_sim", "eng"); err != nil {
			done <- ocrResult{err: err}
			return
		}
		if err := client.SetImageFromBytes(imageData); err != nil {
			done <- ocrResult{err: err}
			return
		}
		text, err := client.Text()
		done <- ocrResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			logrus.Warnf("[OCR] 识别失败 (非致命): %v", res.err)
			return ""
		}
		return strings.TrimSpace(res.text)
	case <-time.After(timeout):
		logrus.Warnf("[OCR] 超时 (>%s)，跳过此图", timeout)
		return ""
	}
}
