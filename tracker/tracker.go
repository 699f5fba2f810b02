// Package tracker 把指纹、导航观察、采集队列与传输串成完整的
// 客户端采集管线，对应嵌入脚本在页面里的生命周期。
package tracker

import (
	"time"

	"github.com/pagesight/event"
	"github.com/pagesight/tracker/browser"
	"github.com/pagesight/tracker/collector"
	"github.com/pagesight/tracker/fingerprint"
	"github.com/pagesight/tracker/observer"
	"github.com/pagesight/tracker/transport"
)

// Options 控制采集管线行为。
type Options struct {
	BatchSize        int
	FlushInterval    time.Duration
	ReplacePageviews bool
	Transport        transport.Transport
	Endpoint         string
}

// Tracker 是一次页面会话的采集实例。
type Tracker struct {
	page      browser.Page
	siteID    string
	token     string
	collector *collector.Collector
	observer  *observer.Observer
}

// Start 完成嵌入脚本加载时的全部动作：派生一次访客令牌、
// 发出首个页面浏览、为页面余下的生命周期接好导航观察。
func Start(page browser.Page, siteID string, opts Options) *Tracker {
	t := opts.Transport
	if t == nil {
		t = transport.NewAuto(opts.Endpoint, nil, nil)
	}

	tr := &Tracker{
		page:   page,
		siteID: siteID,
		token:  fingerprint.Generate(fingerprint.FromPage(page)),
		collector: collector.New(t, collector.Options{
			BatchSize:     opts.BatchSize,
			FlushInterval: opts.FlushInterval,
		}),
	}

	tr.observer = observer.New(page.History(), func(view observer.Pageview) {
		tr.pageview(view.URL, view.PreviousURL)
	}, observer.WithReplacePageviews(opts.ReplacePageviews))

	// 初始页面浏览：referrer 来自页面本身
	tr.pageview(page.Location(), page.Referrer())

	return tr
}

// TrackEvent 上报一条站点自定义事件。
func (t *Tracker) TrackEvent(name, category, value string) {
	t.collector.Add(event.Payload{
		Kind:         string(event.KindCustom),
		SiteID:       t.siteID,
		URL:          t.page.Location(),
		VisitorToken: t.token,
		Name:         name,
		Category:     category,
		Value:        value,
	})
}

// Flush 立即冲刷当前队列。
func (t *Tracker) Flush() {
	t.collector.Flush()
}

// QueueLength 返回尚未投递的事件数。
func (t *Tracker) QueueLength() int {
	return t.collector.QueueLength()
}

// Close 对应页面卸载：先尽力冲刷，再清空队列并卸下观察钩子。
func (t *Tracker) Close() {
	t.observer.Close()
	t.collector.Flush()
	t.collector.Clear()
}

func (t *Tracker) pageview(url, referrer string) {
	payload := event.Payload{
		Kind:         string(event.KindPageview),
		SiteID:       t.siteID,
		URL:          url,
		Referrer:     referrer,
		Language:     t.page.Language(),
		VisitorToken: t.token,
	}
	if screen, ok := t.page.Screen(); ok {
		payload.ScreenWidth = screen.Width
		payload.ScreenHeight = screen.Height
	}
	t.collector.Add(payload)
}
