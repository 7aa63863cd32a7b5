package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/betbot/goopinion/clob/types"
)

func fetcherReturning(topic *types.Topic, calls *int64) TopicFetcher {
	return func(ctx context.Context, topicID int64) (*types.Topic, error) {
		atomic.AddInt64(calls, 1)
		out := *topic
		out.TopicID = topicID
		out.FetchedAt = time.Now().UTC()
		return &out, nil
	}
}

func TestTopicCacheHitSkipsFetch(t *testing.T) {
	var calls int64
	cache := NewTopicCache(t.TempDir(), fetcherReturning(testTopic(), &calls))

	ctx := context.Background()
	first, err := cache.GetTopic(ctx, 42)
	if err != nil {
		t.Fatalf("首次获取失败: %v", err)
	}
	second, err := cache.GetTopic(ctx, 42)
	if err != nil {
		t.Fatalf("二次获取失败: %v", err)
	}
	if first != second {
		t.Fatalf("缓存命中应返回同一条目")
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("上游调用次数 = %d, 期望 1", calls)
	}
}

func TestTopicCacheSingleFlight(t *testing.T) {
	var calls int64
	started := make(chan struct{})
	release := make(chan struct{})
	cache := NewTopicCache(t.TempDir(), func(ctx context.Context, topicID int64) (*types.Topic, error) {
		if atomic.AddInt64(&calls, 1) == 1 {
			close(started)
		}
		<-release
		topic := *testTopic()
		topic.TopicID = topicID
		topic.FetchedAt = time.Now().UTC()
		return &topic, nil
	})

	const workers = 16
	var wg sync.WaitGroup
	results := make([]*types.Topic, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.GetTopic(context.Background(), 42)
		}(i)
	}

	<-started
	// 所有等待方都挂在同一次上游调用上
	close(release)
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d 失败: %v", i, errs[i])
		}
		if results[i] == nil || results[i].TopicID != 42 {
			t.Fatalf("worker %d 结果不对: %+v", i, results[i])
		}
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("上游调用次数 = %d, 期望 1", got)
	}
}

func TestTopicCacheWaiterCancellation(t *testing.T) {
	release := make(chan struct{})
	cache := NewTopicCache(t.TempDir(), func(ctx context.Context, topicID int64) (*types.Topic, error) {
		<-release
		topic := *testTopic()
		topic.FetchedAt = time.Now().UTC()
		return &topic, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.GetTopic(ctx, 42)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("取消的等待方应收到 context.Canceled, 实际 %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("取消后等待方未返回")
	}
	close(release)
}

func TestTopicCacheFetchError(t *testing.T) {
	cache := NewTopicCache(t.TempDir(), func(ctx context.Context, topicID int64) (*types.Topic, error) {
		return nil, fmt.Errorf("upstream down")
	})

	_, err := cache.GetTopic(context.Background(), 42)
	var fetchErr *types.MetadataFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("错误类型 = %T, 期望 MetadataFetchError", err)
	}
	if fetchErr.TopicID != 42 {
		t.Fatalf("TopicID = %d", fetchErr.TopicID)
	}
	// 失败不会写入缓存
	if got := cache.ListCached(); len(got) != 0 {
		t.Fatalf("失败后缓存应为空, 实际 %d 条", len(got))
	}
}

func TestTopicCacheRefreshBypassesCache(t *testing.T) {
	var calls int64
	cache := NewTopicCache(t.TempDir(), fetcherReturning(testTopic(), &calls))

	ctx := context.Background()
	if _, err := cache.GetTopic(ctx, 42); err != nil {
		t.Fatalf("获取失败: %v", err)
	}
	if _, err := cache.RefreshTopic(ctx, 42); err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Fatalf("上游调用次数 = %d, 期望 2", got)
	}
}

func TestTopicCacheDiskRoundTrip(t *testing.T) {
	dir := t.TempDir()
	var calls int64
	cache := NewTopicCache(dir, fetcherReturning(testTopic(), &calls))
	if _, err := cache.GetTopic(context.Background(), 42); err != nil {
		t.Fatalf("获取失败: %v", err)
	}

	// 新进程视角：重建缓存后磁盘条目直接可用，不再访问上游
	reloaded := NewTopicCache(dir, fetcherReturning(testTopic(), &calls))
	topic, err := reloaded.GetTopic(context.Background(), 42)
	if err != nil {
		t.Fatalf("重载后获取失败: %v", err)
	}
	if topic.TopicID != 42 || topic.YesTokenID != "111" {
		t.Fatalf("磁盘条目不完整: %+v", topic)
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("上游调用次数 = %d, 期望 1", got)
	}
}

func TestTopicCacheInvalidate(t *testing.T) {
	var calls int64
	cache := NewTopicCache(t.TempDir(), fetcherReturning(testTopic(), &calls))
	ctx := context.Background()

	if _, err := cache.GetTopic(ctx, 42); err != nil {
		t.Fatalf("获取失败: %v", err)
	}
	if err := cache.Invalidate(42); err != nil {
		t.Fatalf("失效失败: %v", err)
	}
	if got := cache.ListCached(); len(got) != 0 {
		t.Fatalf("失效后 ListCached 应为空")
	}
	// 失效后重新拉取
	if _, err := cache.GetTopic(ctx, 42); err != nil {
		t.Fatalf("获取失败: %v", err)
	}
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Fatalf("上游调用次数 = %d, 期望 2", got)
	}
}

func TestTopicCacheInvalidateAll(t *testing.T) {
	var calls int64
	cache := NewTopicCache(t.TempDir(), fetcherReturning(testTopic(), &calls))
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		if _, err := cache.GetTopic(ctx, id); err != nil {
			t.Fatalf("获取 %d 失败: %v", id, err)
		}
	}
	if got := cache.ListCached(); len(got) != 3 {
		t.Fatalf("缓存条数 = %d, 期望 3", len(got))
	}
	if err := cache.InvalidateAll(); err != nil {
		t.Fatalf("清空失败: %v", err)
	}
	if got := cache.ListCached(); len(got) != 0 {
		t.Fatalf("清空后 ListCached 应为空, 实际 %d 条", len(got))
	}
}

func TestTopicCacheListSorted(t *testing.T) {
	var calls int64
	cache := NewTopicCache(t.TempDir(), fetcherReturning(testTopic(), &calls))
	ctx := context.Background()
	for _, id := range []int64{9, 3, 7} {
		if _, err := cache.GetTopic(ctx, id); err != nil {
			t.Fatalf("获取 %d 失败: %v", id, err)
		}
	}
	got := cache.ListCached()
	if len(got) != 3 || got[0].TopicID != 3 || got[1].TopicID != 7 || got[2].TopicID != 9 {
		t.Fatalf("ListCached 排序不对: %+v", got)
	}
}

func TestTopicCacheRejectsBadID(t *testing.T) {
	cache := NewTopicCache(t.TempDir(), fetcherReturning(testTopic(), new(int64)))
	if _, err := cache.GetTopic(context.Background(), 0); err == nil {
		t.Fatalf("topic id 0 应该报错")
	}
	if _, err := cache.GetTopic(context.Background(), -5); err == nil {
		t.Fatalf("负 topic id 应该报错")
	}
}
