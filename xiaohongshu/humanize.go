package xiaohongshu

import (
	"math/rand"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/lixiansicong/xhs-intel/configs"
)

// Humanizer 拟人化操作原语。所有节奏参数来自 SafetyConfig，
// 测试中注入零抖动配置和固定种子即可得到确定性时长。
type Humanizer struct {
	cfg configs.SafetyConfig
	rng *rand.Rand
}

// NewHumanizer 创建拟人化操作器
func NewHumanizer(cfg configs.SafetyConfig) *Humanizer {
	return &Humanizer{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewHumanizerWithSeed 指定随机种子，测试用
func NewHumanizerWithSeed(cfg configs.SafetyConfig, seed int64) *Humanizer {
	return &Humanizer{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// randomDuration 在 [min, max] 区间内取随机时长
func (h *Humanizer) randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(h.rng.Int63n(int64(max-min)+1))
}

// Sleep 在 [min, max] 区间内随机挂起
func (h *Humanizer) Sleep(min, max time.Duration) {
	time.Sleep(h.randomDuration(min, max))
}

// PageLoadWait 页面加载后的拟人等待
func (h *Humanizer) PageLoadWait() {
	h.Sleep(h.cfg.PageLoadWaitMin, h.cfg.PageLoadWaitMax)
}

// NoteInterval 两篇笔记之间的翻阅间隔
func (h *Humanizer) NoteInterval() {
	h.Sleep(h.cfg.NoteIntervalMin, h.cfg.NoteIntervalMax)
}

// KeywordInterval 切换关键词之间的休息时长
func (h *Humanizer) KeywordInterval() time.Duration {
	return h.randomDuration(h.cfg.KeywordIntervalMin, h.cfg.KeywordIntervalMax)
}

// MouseMoveTo 以三次贝塞尔曲线把鼠标移动到目标点，
// 控制点做随机偏移，步数 10-25，每步插入小抖动延迟。
func (h *Humanizer) MouseMoveTo(page *rod.Page, targetX, targetY float64) {
	startX := 100 + h.rng.Float64()*400
	startY := 100 + h.rng.Float64()*300

	cp1X := startX + (targetX-startX)*0.3 + (h.rng.Float64()-0.5)*100
	cp1Y := startY + (targetY-startY)*0.3 + (h.rng.Float64()-0.5)*80
	cp2X := startX + (targetX-startX)*0.7 + (h.rng.Float64()-0.5)*100
	cp2Y := startY + (targetY-startY)*0.7 + (h.rng.Float64()-0.5)*80

	steps := 10 + h.rng.Intn(16)

	for i := 0; i <= steps; i++ {
		x, y := bezierPoint(float64(i)/float64(steps),
			startX, startY, cp1X, cp1Y, cp2X, cp2Y, targetX, targetY)

		if err := page.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
			// 鼠标事件失败不影响主流程
			return
		}
		time.Sleep(time.Duration(10+h.rng.Intn(21)) * time.Millisecond)
	}
}

// bezierPoint 三次贝塞尔插值
func bezierPoint(t, x0, y0, x1, y1, x2, y2, x3, y3 float64) (float64, float64) {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return a*x0 + b*x1 + c*x2 + d*x3, a*y0 + b*y1 + c*y2 + d*y3
}

// Click 拟人化点击：取元素包围盒内偏离中心的一点，先移动鼠标，
// 停顿后按下-保持-释放。包围盒解析失败时退化为直接点击。
func (h *Humanizer) Click(page *rod.Page, el *rod.Element) error {
	shape, err := el.Shape()
	if err != nil || len(shape.Quads) == 0 {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}

	box := shape.Box()
	offsetX := (h.rng.Float64() - 0.5) * box.Width * 0.6
	offsetY := (h.rng.Float64() - 0.5) * box.Height * 0.6
	targetX := box.X + box.Width/2 + offsetX
	targetY := box.Y + box.Height/2 + offsetY

	h.MouseMoveTo(page, targetX, targetY)
	h.Sleep(100*time.Millisecond, 300*time.Millisecond)

	if err := page.Mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	h.Sleep(50*time.Millisecond, 150*time.Millisecond)
	if err := page.Mouse.Up(proto.InputMouseButtonLeft, 1); err != nil {
		// 按键可能仍处于按下状态，尽力抬起后再退回直接点击
		_ = page.Mouse.Up(proto.InputMouseButtonLeft, 1)
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	return nil
}

// Type 逐字输入文本：每个字符延迟取自配置区间，标点后额外停顿，
// 约 5% 概率插入更长的"思考"停顿。
func (h *Humanizer) Type(page *rod.Page, text string) error {
	for _, ch := range text {
		if err := page.InsertText(string(ch)); err != nil {
			return err
		}

		delay := h.randomDuration(h.cfg.TypingDelayMin, h.cfg.TypingDelayMax)
		if strings.ContainsRune("。，！？.,!?", ch) {
			delay += time.Duration(100+h.rng.Intn(201)) * time.Millisecond
		}
		if h.rng.Float64() < 0.05 {
			time.Sleep(time.Duration(500+h.rng.Intn(801)) * time.Millisecond)
		}
		time.Sleep(delay)
	}
	return nil
}

// Scroll 模拟真人滚动浏览：2-4 次随机距离滚动，
// 约 20% 概率回滚一小段（"回看"），约 50% 概率最后回到顶部。
func (h *Humanizer) Scroll(page *rod.Page) {
	times := h.cfg.ScrollTimesMin
	if h.cfg.ScrollTimesMax > h.cfg.ScrollTimesMin {
		times += h.rng.Intn(h.cfg.ScrollTimesMax - h.cfg.ScrollTimesMin + 1)
	}

	for i := 0; i < times; i++ {
		distance := 150 + h.rng.Intn(451) // 150-600 像素
		if err := page.Mouse.Scroll(0, float64(distance), 3); err != nil {
			logrus.Debugf("滚动失败: %v", err)
			return
		}

		if i > 0 && h.rng.Float64() < 0.2 {
			h.Sleep(500*time.Millisecond, time.Second)
			back := 50 + h.rng.Intn(101)
			_ = page.Mouse.Scroll(0, float64(-back), 2)
		}

		h.Sleep(h.cfg.ScrollIntervalMin, h.cfg.ScrollIntervalMax)
	}

	if h.rng.Float64() < 0.5 {
		_, _ = page.Eval(`() => window.scrollTo({top: 0, behavior: 'smooth'})`)
		h.Sleep(800*time.Millisecond, 1300*time.Millisecond)
	}
}

// ScrollComments 在详情页内滚动看评论区，触发评论懒加载
func (h *Humanizer) ScrollComments(page *rod.Page, scrollTimes int) {
	has, _, err := page.Has(`.comment-item, [class*="comment-item"], .comments-container`)
	if err != nil || !has {
		return
	}

	logrus.Debugf("发现评论区，模拟翻看评论 %d 次", scrollTimes)
	for i := 0; i < scrollTimes; i++ {
		distance := 200 + h.rng.Intn(401)
		_ = page.Mouse.Scroll(0, float64(distance), 3)
		h.Sleep(time.Second, 3*time.Second)
	}
}

// Paginate 按配置概率模拟翻看多图笔记。
// 翻页按钮的类名不稳定，逐个尝试候选选择器；单图笔记只在图片区停留片刻。
func (h *Humanizer) Paginate(page *rod.Page) {
	if h.rng.Float64() > h.cfg.PaginationProbability {
		return
	}

	var nextBtn *rod.Element
	for _, sel := range carouselNextSelectors {
		has, el, err := page.Has(sel)
		if err != nil || !has {
			continue
		}
		if visible, err := el.Visible(); err == nil && visible {
			nextBtn = el
			break
		}
	}

	if nextBtn == nil {
		if has, _, err := page.Has(carouselAreaSelector); err == nil && has {
			h.Sleep(time.Second, 1500*time.Millisecond)
		}
		return
	}

	count := 2 + h.rng.Intn(3)
	logrus.Debugf("模拟翻看图片 (%d 次)", count)
	for k := 0; k < count; k++ {
		if err := nextBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
			break // 已到最后一张
		}
		h.Sleep(time.Second, 2*time.Second)
	}
}

// ReadDelayFor 根据互动量计算拟人化阅读时长：
// 基础时间 + 评论数*单条评论权重 + 字数*单字权重，封顶后加 ±N% 抖动。
// 高质量长内容停留更久，低质量笔记快速划过，让节奏与内容相关而非均匀随机。
func (h *Humanizer) ReadDelayFor(note *NoteInfo) time.Duration {
	base := h.randomDuration(h.cfg.BaseReadTimeMin, h.cfg.BaseReadTimeMax)

	commentBonus := time.Duration(len(note.Comments)) * h.cfg.TimePerComment

	content := note.FullContent
	if content == "" {
		content = note.Content
	}
	contentBonus := time.Duration(len([]rune(content))) * h.cfg.TimePerChar

	total := base + commentBonus + contentBonus
	if total > h.cfg.MaxReadTime {
		total = h.cfg.MaxReadTime
	}

	if h.cfg.ReadJitterRatio > 0 {
		jitter := float64(total) * h.cfg.ReadJitterRatio * (h.rng.Float64()*2 - 1)
		total += time.Duration(jitter)
	}
	return total
}

// EngagementSleep 按 ReadDelayFor 的结果挂起
func (h *Humanizer) EngagementSleep(note *NoteInfo) time.Duration {
	d := h.ReadDelayFor(note)
	logrus.Debugf("拟人阅读: %q 评论数=%d 字数=%d 延迟=%.1fs",
		truncateTitle(note.Title, 30), len(note.Comments), len([]rune(note.FullContent)), d.Seconds())
	time.Sleep(d)
	return d
}
