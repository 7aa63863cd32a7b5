package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowUpToLimit(t *testing.T) {
	sw := NewSlidingWindow(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !sw.Allow() {
			t.Fatalf("第 %d 次请求应被允许", i+1)
		}
	}
	if sw.Allow() {
		t.Fatalf("超出配额的请求应被拒绝")
	}
	if sw.GetRemaining() != 0 {
		t.Fatalf("剩余配额 = %d, 期望 0", sw.GetRemaining())
	}
}

func TestWindowEviction(t *testing.T) {
	sw := NewSlidingWindow(2, 50*time.Millisecond)
	if !sw.Allow() || !sw.Allow() {
		t.Fatalf("窗口内的请求应被允许")
	}
	if sw.Allow() {
		t.Fatalf("窗口未滑出前应被拒绝")
	}

	time.Sleep(60 * time.Millisecond)
	if !sw.Allow() {
		t.Fatalf("窗口滑出后应恢复配额")
	}
}

func TestWaitBlocksUntilQuota(t *testing.T) {
	sw := NewSlidingWindow(1, 50*time.Millisecond)
	if !sw.Allow() {
		t.Fatalf("首个请求应被允许")
	}

	start := time.Now()
	if err := sw.Wait(context.Background()); err != nil {
		t.Fatalf("等待失败: %v", err)
	}
	if time.Since(start) < 30*time.Millisecond {
		t.Fatalf("Wait 应等到窗口滑出")
	}
}

func TestWaitCancelled(t *testing.T) {
	sw := NewSlidingWindow(1, time.Minute)
	if !sw.Allow() {
		t.Fatalf("首个请求应被允许")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := sw.Wait(ctx); err != context.DeadlineExceeded {
		t.Fatalf("错误 = %v, 期望 context.DeadlineExceeded", err)
	}
}

func TestGetRemaining(t *testing.T) {
	sw := NewSlidingWindow(5, time.Minute)
	if sw.GetRemaining() != 5 {
		t.Fatalf("初始剩余 = %d, 期望 5", sw.GetRemaining())
	}
	sw.Allow()
	sw.Allow()
	if sw.GetRemaining() != 3 {
		t.Fatalf("剩余 = %d, 期望 3", sw.GetRemaining())
	}
}
