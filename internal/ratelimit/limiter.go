package ratelimit

import (
	"sync"
	"time"
)

const defaultWindow = time.Minute

// Limiter 以固定时间窗口对访客哈希计数限流。
// 键永远是匿名化之后的哈希，过期窗口的计数不保留。
type Limiter struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	counters  map[string]*counter
}

type counter struct {
	windowStart time.Time
	count       int
}

// NewLimiter 创建固定窗口限流器，窗口默认为一分钟。
func NewLimiter(threshold int) *Limiter {
	return &Limiter{
		threshold: threshold,
		window:    defaultWindow,
		counters:  make(map[string]*counter),
	}
}

// WithWindow 允许在测试或特定场景下调整窗口长度。
func (l *Limiter) WithWindow(d time.Duration) *Limiter {
	if d <= 0 {
		return l
	}
	l.window = d
	return l
}

// Allow 判断该访客哈希在当前窗口内是否还允许一次请求。
// 允许时计数加一；并发调用同一哈希时计数不会遗漏。
func (l *Limiter) Allow(visitorHash string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := now.Truncate(l.window)

	c, ok := l.counters[visitorHash]
	if !ok || c.windowStart.Before(windowStart) {
		l.counters[visitorHash] = &counter{windowStart: windowStart, count: 1}
		l.sweepLocked(windowStart)
		return true
	}

	if c.count >= l.threshold {
		return false
	}

	c.count++
	return true
}

// sweepLocked 顺带清理已过期窗口的计数，调用方需持有锁。
func (l *Limiter) sweepLocked(windowStart time.Time) {
	for key, c := range l.counters {
		if c.windowStart.Before(windowStart) {
			delete(l.counters, key)
		}
	}
}
