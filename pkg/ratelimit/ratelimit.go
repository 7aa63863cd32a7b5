package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow 滑动窗口速率限制器。
// 只负责在发送前等待配额，不做任何重试
type SlidingWindow struct {
	limit      int           // 窗口内允许的请求数
	windowSize time.Duration // 窗口大小
	requests   []time.Time   // 请求时间戳
	mu         sync.Mutex
}

// NewSlidingWindow 创建滑动窗口速率限制器
func NewSlidingWindow(limit int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:      limit,
		windowSize: windowSize,
		requests:   make([]time.Time, 0, limit),
	}
}

// Allow 检查是否允许请求，允许时记账
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.evict(time.Now())
	if len(sw.requests) >= sw.limit {
		return false
	}
	sw.requests = append(sw.requests, time.Now())
	return true
}

// Wait 等待直到允许请求或 ctx 取消
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for {
		if sw.Allow() {
			return nil
		}

		sw.mu.Lock()
		waitTime := 100 * time.Millisecond
		if len(sw.requests) > 0 {
			if d := sw.windowSize - time.Since(sw.requests[0]); d > waitTime {
				waitTime = d
			}
		}
		sw.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// GetRemaining 获取窗口内剩余配额
func (sw *SlidingWindow) GetRemaining() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.evict(time.Now())
	remaining := sw.limit - len(sw.requests)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// evict 移除窗口外的记录，调用方需持锁
func (sw *SlidingWindow) evict(now time.Time) {
	cutoff := now.Add(-sw.windowSize)
	valid := sw.requests[:0]
	for _, req := range sw.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	sw.requests = valid
}
