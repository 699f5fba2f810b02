// Package collector 持有客户端的出站事件队列，负责分批与定时冲刷。
package collector

import (
	"sync"
	"time"

	"github.com/pagesight/event"
	"github.com/pagesight/tracker/transport"
)

const (
	defaultBatchSize     = 10
	defaultFlushInterval = 3 * time.Second
)

// Options 控制分批行为。两项都是显式参数而非全局常量，
// 测试可以用极小的间隔驱动。
type Options struct {
	BatchSize     int
	FlushInterval time.Duration
	Now           func() time.Time
}

// Collector 维护 FIFO 队列：达到批量阈值立即冲刷，否则由
// 唯一的冲刷定时器兜底。宿主可能是多线程环境，队列由互斥锁保护。
type Collector struct {
	mu        sync.Mutex
	queue     []event.Payload
	timer     *time.Timer
	transport transport.Transport

	batchSize     int
	flushInterval time.Duration
	now           func() time.Time
}

// New 创建 Collector。
func New(t transport.Transport, opts Options) *Collector {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = defaultFlushInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Collector{
		transport:     t,
		batchSize:     opts.BatchSize,
		flushInterval: opts.FlushInterval,
		now:           opts.Now,
	}
}

// Add 入队一条事件，入队时刻即盖上 QueuedAt 时间戳。
// 队列达到批量阈值时立即冲刷，否则确保有一个定时器在走。
func (c *Collector) Add(p event.Payload) {
	c.mu.Lock()
	p.QueuedAt = c.now().UnixMilli()
	c.queue = append(c.queue, p)

	if len(c.queue) >= c.batchSize {
		batch := c.dequeueBatchLocked()
		c.mu.Unlock()
		c.transport.Send(batch)
		return
	}

	c.armTimerLocked()
	c.mu.Unlock()
}

// Flush 取出队首至多一个批次交给传输层；仍有积压时重新上弦，
// 保证后续事件最终送达而无需每次 Add 都新建定时器。
func (c *Collector) Flush() {
	c.mu.Lock()
	if len(c.queue) == 0 {
		c.mu.Unlock()
		return
	}

	batch := c.dequeueBatchLocked()
	c.mu.Unlock()

	c.transport.Send(batch)
}

// Clear 丢弃全部排队事件并撤掉定时器，不做隐式的告别冲刷。
// 需要尽力送完的调用方应先 Flush 再 Clear。
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue = nil
	c.stopTimerLocked()
}

// QueueLength 返回当前排队事件数。
func (c *Collector) QueueLength() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// dequeueBatchLocked 按 FIFO 取出至多一个批次，并维护定时器状态。
func (c *Collector) dequeueBatchLocked() []event.Payload {
	n := len(c.queue)
	if n > c.batchSize {
		n = c.batchSize
	}

	batch := make([]event.Payload, n)
	copy(batch, c.queue[:n])
	c.queue = append(c.queue[:0:0], c.queue[n:]...)

	if len(c.queue) > 0 {
		c.stopTimerLocked()
		c.armTimerLocked()
	} else {
		c.stopTimerLocked()
	}

	return batch
}

// armTimerLocked 确保最多只有一个定时器在走。
func (c *Collector) armTimerLocked() {
	if c.timer != nil {
		return
	}
	c.timer = time.AfterFunc(c.flushInterval, c.onTimer)
}

func (c *Collector) stopTimerLocked() {
	if c.timer == nil {
		return
	}
	c.timer.Stop()
	c.timer = nil
}

func (c *Collector) onTimer() {
	c.mu.Lock()
	c.timer = nil
	c.mu.Unlock()

	c.Flush()
}
