package browser

import "strings"

// MemoryPage 是 Page 的进程内实现，供无浏览器宿主和测试使用。
type MemoryPage struct {
	UA       string
	Lang     string
	Disp     *Screen
	TZOffset int
	Ref      string
	history  *MemoryHistory
}

// NewMemoryPage 以给定起始地址创建内存页面。
func NewMemoryPage(startURL string) *MemoryPage {
	return &MemoryPage{
		history: NewMemoryHistory(startURL),
	}
}

func (p *MemoryPage) UserAgent() string { return p.UA }

func (p *MemoryPage) Language() string { return p.Lang }

// Screen 在未配置显示信息时返回 ok=false，模拟能力缺失。
func (p *MemoryPage) Screen() (Screen, bool) {
	if p.Disp == nil {
		return Screen{}, false
	}
	return *p.Disp, true
}

func (p *MemoryPage) TimezoneOffsetMinutes() int { return p.TZOffset }

func (p *MemoryPage) Location() string { return p.history.Location() }

func (p *MemoryPage) Referrer() string { return p.Ref }

func (p *MemoryPage) History() History { return p.history }

// MemoryHistory 在内存中维护历史栈并完整实现装饰语义：
// 先入栈，再通知 Hook。
type MemoryHistory struct {
	stack []string
	pos   int
	hook  Hook
}

// NewMemoryHistory 创建只含起始地址的历史栈。
func NewMemoryHistory(startURL string) *MemoryHistory {
	return &MemoryHistory{stack: []string{startURL}}
}

// Push 追加新的历史条目并通知 Hook。
func (h *MemoryHistory) Push(url string) {
	h.stack = append(h.stack[:h.pos+1], url)
	h.pos = len(h.stack) - 1
	if h.hook != nil {
		h.hook.OnPush(url)
	}
}

// Replace 原地替换当前条目并通知 Hook。
func (h *MemoryHistory) Replace(url string) {
	old := h.stack[h.pos]
	h.stack[h.pos] = url
	if h.hook == nil {
		return
	}
	// 仅 hash 部分变化时按 hashchange 通知，贴近宿主行为。
	if hashOnlyChange(old, url) {
		h.hook.OnHashChange(old, url)
		return
	}
	h.hook.OnReplace(url)
}

// Back 回退一个条目并按 popstate 语义通知 Hook。
func (h *MemoryHistory) Back() {
	if h.pos == 0 {
		return
	}
	h.pos--
	if h.hook != nil {
		h.hook.OnPop(h.stack[h.pos])
	}
}

// Navigate 模拟地址栏级别的跳转，hash 变化会触发 hashchange。
func (h *MemoryHistory) Navigate(url string) {
	old := h.stack[h.pos]
	h.stack = append(h.stack[:h.pos+1], url)
	h.pos = len(h.stack) - 1
	if h.hook != nil && hashOnlyChange(old, url) {
		h.hook.OnHashChange(old, url)
	}
}

func (h *MemoryHistory) Location() string { return h.stack[h.pos] }

// SetHook 安装或卸载观察钩子。
func (h *MemoryHistory) SetHook(hook Hook) { h.hook = hook }

// Entries 返回当前历史栈的副本，便于测试断言默认行为仍然发生。
func (h *MemoryHistory) Entries() []string {
	copied := make([]string, len(h.stack))
	copy(copied, h.stack)
	return copied
}

func hashOnlyChange(oldURL, newURL string) bool {
	oldBase, _, _ := strings.Cut(oldURL, "#")
	newBase, _, _ := strings.Cut(newURL, "#")
	return oldBase == newBase && oldURL != newURL
}
