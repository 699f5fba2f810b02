package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAllowUpToThreshold(t *testing.T) {
	l := NewLimiter(3)
	now := time.Date(2024, 7, 10, 12, 0, 5, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if !l.Allow("hash-a", now) {
			t.Fatalf("request %d within threshold was rejected", i+1)
		}
	}

	if l.Allow("hash-a", now) {
		t.Fatal("request beyond threshold was accepted")
	}
}

func TestWindowResetAllowsAgain(t *testing.T) {
	l := NewLimiter(1)
	base := time.Date(2024, 7, 10, 12, 0, 30, 0, time.UTC)

	if !l.Allow("hash-a", base) {
		t.Fatal("first request rejected")
	}
	if l.Allow("hash-a", base.Add(10*time.Second)) {
		t.Fatal("same-window request beyond threshold accepted")
	}

	nextWindow := base.Add(time.Minute)
	if !l.Allow("hash-a", nextWindow) {
		t.Fatal("request after window reset rejected")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1)
	now := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

	if !l.Allow("hash-a", now) {
		t.Fatal("first key rejected")
	}
	if !l.Allow("hash-b", now) {
		t.Fatal("independent key rejected")
	}
	if l.Allow("hash-a", now) {
		t.Fatal("exhausted key accepted")
	}
}

func TestExpiredCountersAreSwept(t *testing.T) {
	l := NewLimiter(5)
	base := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

	l.Allow("hash-a", base)
	l.Allow("hash-b", base)

	// 新窗口的首个请求顺带触发清扫
	l.Allow("hash-c", base.Add(2*time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.counters) != 1 {
		t.Fatalf("expected expired counters to be swept, have %d", len(l.counters))
	}
	if _, ok := l.counters["hash-c"]; !ok {
		t.Fatal("live counter was swept")
	}
}

func TestCustomWindow(t *testing.T) {
	l := NewLimiter(1).WithWindow(time.Second)
	base := time.Date(2024, 7, 10, 12, 0, 0, 100*1000*1000, time.UTC)

	if !l.Allow("hash-a", base) {
		t.Fatal("first request rejected")
	}
	if l.Allow("hash-a", base.Add(200*time.Millisecond)) {
		t.Fatal("same second-window request accepted")
	}
	if !l.Allow("hash-a", base.Add(time.Second)) {
		t.Fatal("next second-window request rejected")
	}
}

func TestConcurrentIncrementsDoNotUndercount(t *testing.T) {
	const threshold = 50
	l := NewLimiter(threshold)
	now := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < threshold*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("hash-a", now) {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != threshold {
		t.Fatalf("expected exactly %d allowed, got %d", threshold, allowed)
	}
}
