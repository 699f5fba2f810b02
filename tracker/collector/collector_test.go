package collector

import (
	"sync"
	"testing"
	"time"

	"github.com/pagesight/event"
)

type captureTransport struct {
	mu      sync.Mutex
	batches [][]event.Payload
}

func (c *captureTransport) Send(batch []event.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]event.Payload, len(batch))
	copy(copied, batch)
	c.batches = append(c.batches, copied)
}

func (c *captureTransport) snapshot() [][]event.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]event.Payload, len(c.batches))
	copy(out, c.batches)
	return out
}

func pv(url string) event.Payload {
	return event.Payload{Kind: "pageview", SiteID: "site-1", URL: url}
}

func TestAddStampsQueuedAt(t *testing.T) {
	sink := &captureTransport{}
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New(sink, Options{BatchSize: 10, FlushInterval: time.Hour, Now: func() time.Time { return fixed }})
	defer c.Clear()

	c.Add(pv("https://example.com/"))
	c.Flush()

	batches := sink.snapshot()
	if len(batches) != 1 || len(batches[0]) != 1 {
		t.Fatalf("unexpected batches: %v", batches)
	}
	if got := batches[0][0].QueuedAt; got != fixed.UnixMilli() {
		t.Fatalf("QueuedAt = %d, want %d", got, fixed.UnixMilli())
	}
}

func TestNoSendBeforeFlushInterval(t *testing.T) {
	sink := &captureTransport{}
	c := New(sink, Options{BatchSize: 10, FlushInterval: 80 * time.Millisecond})
	defer c.Clear()

	c.Add(pv("https://example.com/1"))
	c.Add(pv("https://example.com/2"))

	time.Sleep(30 * time.Millisecond)
	if got := len(sink.snapshot()); got != 0 {
		t.Fatalf("expected no send before interval, got %d batches", got)
	}

	time.Sleep(100 * time.Millisecond)
	batches := sink.snapshot()
	if len(batches) != 1 {
		t.Fatalf("expected exactly one timed flush, got %d", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Fatalf("expected both events in one batch, got %d", len(batches[0]))
	}
}

func TestBatchSizeTriggersImmediateFlush(t *testing.T) {
	sink := &captureTransport{}
	c := New(sink, Options{BatchSize: 3, FlushInterval: time.Hour})
	defer c.Clear()

	urls := []string{"/a", "/b", "/c", "/d", "/e", "/f"}
	for _, u := range urls {
		c.Add(pv(u))
	}

	batches := sink.snapshot()
	if len(batches) != 2 {
		t.Fatalf("expected 2 full batches, got %d", len(batches))
	}

	// 所有批次按原始插入顺序拼回
	var got []string
	for _, b := range batches {
		if len(b) > 3 {
			t.Fatalf("batch exceeds size limit: %d", len(b))
		}
		for _, p := range b {
			got = append(got, p.URL)
		}
	}
	for i, u := range urls {
		if got[i] != u {
			t.Fatalf("order broken at %d: got %v", i, got)
		}
	}

	if c.QueueLength() != 0 {
		t.Fatalf("queue should be empty, length=%d", c.QueueLength())
	}
}

func TestFlushDrainsBacklogOverTime(t *testing.T) {
	sink := &captureTransport{}
	c := New(sink, Options{BatchSize: 2, FlushInterval: 40 * time.Millisecond})
	defer c.Clear()

	// 手动塞入 5 条：前两批由批量阈值触发，剩余 1 条靠定时器兜底
	for _, u := range []string{"/1", "/2", "/3", "/4", "/5"} {
		c.Add(pv(u))
	}

	if got := len(sink.snapshot()); got != 2 {
		t.Fatalf("expected 2 size-triggered batches, got %d", got)
	}
	if c.QueueLength() != 1 {
		t.Fatalf("expected 1 queued leftover, got %d", c.QueueLength())
	}

	time.Sleep(80 * time.Millisecond)

	batches := sink.snapshot()
	if len(batches) != 3 {
		t.Fatalf("expected timer to drain the leftover, got %d batches", len(batches))
	}
	if len(batches[2]) != 1 || batches[2][0].URL != "/5" {
		t.Fatalf("unexpected final batch: %v", batches[2])
	}
	if c.QueueLength() != 0 {
		t.Fatalf("queue should be drained, length=%d", c.QueueLength())
	}
}

func TestFlushOnEmptyQueueIsNoop(t *testing.T) {
	sink := &captureTransport{}
	c := New(sink, Options{BatchSize: 5, FlushInterval: time.Hour})

	c.Flush()

	if got := len(sink.snapshot()); got != 0 {
		t.Fatalf("expected no send on empty flush, got %d", got)
	}
}

func TestClearThenFlushSendsNothing(t *testing.T) {
	sink := &captureTransport{}
	c := New(sink, Options{BatchSize: 5, FlushInterval: 30 * time.Millisecond})

	c.Add(pv("/1"))
	c.Add(pv("/2"))
	c.Clear()
	c.Flush()

	if c.QueueLength() != 0 {
		t.Fatalf("queue should be empty after clear, length=%d", c.QueueLength())
	}

	// 定时器已撤掉，等待原冲刷间隔也不应有投递
	time.Sleep(60 * time.Millisecond)
	if got := len(sink.snapshot()); got != 0 {
		t.Fatalf("expected nothing sent after clear, got %d batches", got)
	}
}

func TestConcurrentAddsKeepAllEvents(t *testing.T) {
	sink := &captureTransport{}
	c := New(sink, Options{BatchSize: 7, FlushInterval: 20 * time.Millisecond})
	defer c.Clear()

	var wg sync.WaitGroup
	const workers = 8
	const perWorker = 25
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				c.Add(pv("/concurrent"))
			}
		}()
	}
	wg.Wait()

	time.Sleep(60 * time.Millisecond)

	total := 0
	for _, b := range sink.snapshot() {
		total += len(b)
	}
	if total != workers*perWorker {
		t.Fatalf("expected %d delivered events, got %d", workers*perWorker, total)
	}
}
