// Package transport 以“发后不理”的方式向接收端投递事件批次。
// 投递失败在本层静默吞掉，客户端不重试：没有幂等键的重试
// 只会带来重复计数。
package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pagesight/event"
)

// Transport 投递一批事件，无返回值：对调用方而言永远是尽力而为。
type Transport interface {
	Send(batch []event.Payload)
}

// Doer 抽象 HTTP 客户端。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Beacon 是宿主可能提供的、页面卸载后仍可送达的原语。
// Queue 返回 false 表示宿主不支持或拒绝了本次投递。
type Beacon interface {
	Queue(endpoint string, body []byte) bool
}

// Auto 优先使用 Beacon，宿主不支持时回退到异步请求投递。
// 两种策略对调用方完全透明。
type Auto struct {
	endpoint string
	beacon   Beacon
	request  *Request
}

// NewAuto 创建带回退的传输。beacon 可为 nil。
func NewAuto(endpoint string, beacon Beacon, client Doer) *Auto {
	return &Auto{
		endpoint: endpoint,
		beacon:   beacon,
		request:  NewRequest(endpoint, client),
	}
}

// WithDebugLog 在显式调试模式下记录投递失败，默认完全静默。
func (a *Auto) WithDebugLog(logger *log.Logger) *Auto {
	a.request.WithDebugLog(logger)
	return a
}

// Send 实现 Transport。
func (a *Auto) Send(batch []event.Payload) {
	if len(batch) == 0 {
		return
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return
	}

	if a.beacon != nil && a.beacon.Queue(a.endpoint, body) {
		return
	}

	a.request.send(body)
}

// Request 通过异步 JSON POST 投递，响应与错误一律丢弃。
type Request struct {
	endpoint string
	client   Doer
	debug    *log.Logger
}

// NewRequest 创建请求式传输。client 为 nil 时使用默认客户端。
func NewRequest(endpoint string, client Doer) *Request {
	if client == nil {
		client = http.DefaultClient
	}
	return &Request{endpoint: endpoint, client: client}
}

// WithDebugLog 在显式调试模式下记录投递失败，默认完全静默。
func (r *Request) WithDebugLog(logger *log.Logger) *Request {
	r.debug = logger
	return r
}

// Send 实现 Transport。
func (r *Request) Send(batch []event.Payload) {
	if len(batch) == 0 {
		return
	}
	body, err := json.Marshal(batch)
	if err != nil {
		return
	}
	r.send(body)
}

func (r *Request) send(body []byte) {
	go func() {
		req, err := http.NewRequest(http.MethodPost, r.endpoint, bytes.NewReader(body))
		if err != nil {
			r.logFailure(err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			r.logFailure(err)
			return
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
}

func (r *Request) logFailure(err error) {
	if r.debug != nil {
		r.debug.Printf("event delivery failed: %v", err)
	}
}
