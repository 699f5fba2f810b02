// Package browser 把宿主页面暴露的能力收敛成小接口，
// 使指纹与导航观察逻辑可以脱离真实浏览器运行和测试。
package browser

// Screen 描述显示能力。
type Screen struct {
	Width      int
	Height     int
	ColorDepth int
}

// Page 提供采集所需的宿主环境信号，全部为公开、非侵入信息。
// 能力缺失时实现方返回 ok=false 或零值，调用方负责降级。
type Page interface {
	UserAgent() string
	Language() string
	Screen() (Screen, bool)
	TimezoneOffsetMinutes() int
	Location() string
	Referrer() string
	History() History
}

// History 抽象宿主历史栈。
// Push/Replace 必须先完成默认的历史栈副作用，再通知已安装的
// Hook：观察方只做装饰，永远不替换默认行为。
type History interface {
	Push(url string)
	Replace(url string)
	Back()
	Location() string
	SetHook(h Hook)
}

// Hook 接收历史栈变化通知，传 nil 给 SetHook 即卸载。
type Hook interface {
	OnPush(url string)
	OnReplace(url string)
	OnPop(url string)
	OnHashChange(oldURL, newURL string)
}
