// Package observer 在单页应用里判定“逻辑页面浏览”何时发生。
package observer

import (
	"sync"

	"github.com/pagesight/tracker/browser"
)

// Trigger 标记页面浏览由哪类导航产生。
type Trigger string

const (
	TriggerPush    Trigger = "push"
	TriggerReplace Trigger = "replace"
	TriggerPop     Trigger = "pop"
	TriggerHash    Trigger = "hash"
)

// Pageview 描述一次逻辑页面浏览。hash 导航同时携带变更前地址。
type Pageview struct {
	URL         string
	PreviousURL string
	Trigger     Trigger
}

// Option 调整 Observer 行为。
type Option func(*Observer)

// WithReplacePageviews 控制 replace 类导航是否计为页面浏览。
// 原地替换通常表示状态更新而非新视图，默认不计；
// 这是显式可配置的策略，避免常见的重复计数问题。
func WithReplacePageviews(enabled bool) Option {
	return func(o *Observer) {
		o.replaceEmits = enabled
	}
}

// Observer 装饰宿主历史栈并回调页面浏览。
// 它从不替换默认导航行为，也从不合并快速连续的导航：
// 去抖属于调用方，漏计真实导航比轻微冗余更糟。
type Observer struct {
	mu           sync.Mutex
	history      browser.History
	emit         func(Pageview)
	replaceEmits bool
	closed       bool
	replaceCount int
}

// New 安装观察钩子。emit 在每次判定为页面浏览时被调用。
func New(history browser.History, emit func(Pageview), opts ...Option) *Observer {
	o := &Observer{history: history, emit: emit}
	for _, opt := range opts {
		opt(o)
	}
	history.SetHook(o)
	return o
}

// Close 卸载钩子并停止一切后续回调，已入队的事件不受影响。
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.history.SetHook(nil)
}

// ReplaceCount 返回观察到的 replace 次数，与 push 分开统计。
func (o *Observer) ReplaceCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.replaceCount
}

// OnPush 实现 browser.Hook。
func (o *Observer) OnPush(url string) {
	o.fire(Pageview{URL: url, Trigger: TriggerPush})
}

// OnReplace 实现 browser.Hook。
func (o *Observer) OnReplace(url string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.replaceCount++
	emits := o.replaceEmits
	o.mu.Unlock()

	if emits {
		o.fire(Pageview{URL: url, Trigger: TriggerReplace})
	}
}

// OnPop 实现 browser.Hook。
func (o *Observer) OnPop(url string) {
	o.fire(Pageview{URL: url, Trigger: TriggerPop})
}

// OnHashChange 实现 browser.Hook。
func (o *Observer) OnHashChange(oldURL, newURL string) {
	o.fire(Pageview{URL: newURL, PreviousURL: oldURL, Trigger: TriggerHash})
}

func (o *Observer) fire(view Pageview) {
	o.mu.Lock()
	closed := o.closed
	o.mu.Unlock()
	if closed || o.emit == nil {
		return
	}
	o.emit(view)
}
