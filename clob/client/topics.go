package client

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/betbot/goopinion/clob/types"
	"github.com/betbot/goopinion/pkg/logger"
	"github.com/betbot/goopinion/pkg/persistence"
)

// TopicFetcher 从交易所拉取话题元数据
type TopicFetcher func(ctx context.Context, topicID int64) (*types.Topic, error)

// cachedTopicRecord 磁盘缓存格式，文件名为 topic_<id>.json
type cachedTopicRecord struct {
	TopicID   int64        `json:"topic_id"`
	Title     string       `json:"title"`
	Timestamp int64        `json:"timestamp"` // 毫秒
	Data      *types.Topic `json:"data"`
}

// TopicCache 话题元数据缓存，内存 + 磁盘两级。
// 条目没有过期时间：话题的 token/精度在生命周期内不变，
// 只有显式失效或强制刷新才会重新拉取。
// 并发请求同一话题时合并为一次上游调用
type TopicCache struct {
	store *persistence.JSONStore
	fetch TopicFetcher

	mu     sync.RWMutex
	topics map[int64]*types.Topic

	group singleflight.Group
}

// NewTopicCache 创建缓存并加载磁盘上已有的条目。
// 损坏的缓存文件按未缓存处理
func NewTopicCache(dir string, fetch TopicFetcher) *TopicCache {
	c := &TopicCache{
		store:  persistence.NewJSONStore(dir),
		fetch:  fetch,
		topics: make(map[int64]*types.Topic),
	}
	c.loadFromDisk()
	return c
}

func topicRecordName(topicID int64) string {
	return fmt.Sprintf("topic_%d", topicID)
}

func (c *TopicCache) loadFromDisk() {
	names, err := c.store.List("topic_")
	if err != nil {
		return
	}
	for _, name := range names {
		var rec cachedTopicRecord
		if err := c.store.Load(name, &rec); err != nil {
			continue
		}
		if rec.Data == nil || rec.TopicID == 0 {
			continue
		}
		if rec.Data.FetchedAt.IsZero() && rec.Timestamp > 0 {
			rec.Data.FetchedAt = time.UnixMilli(rec.Timestamp).UTC()
		}
		c.topics[rec.TopicID] = rec.Data
	}
}

// GetTopic 获取话题元数据。缓存命中直接返回；
// 未命中时拉取上游并写入两级缓存。
// 同一话题的并发未命中只触发一次上游请求，结果共享；
// 等待期间各调用方的 ctx 取消只影响自己
func (c *TopicCache) GetTopic(ctx context.Context, topicID int64) (*types.Topic, error) {
	if topicID <= 0 {
		return nil, types.NewInvalidParams("topic id must be positive, got %d", topicID)
	}

	c.mu.RLock()
	topic, ok := c.topics[topicID]
	c.mu.RUnlock()
	if ok {
		return topic, nil
	}

	return c.fetchShared(ctx, topicID)
}

// RefreshTopic 强制刷新：绕过缓存拉取上游并覆盖已有条目。
// 刷新失败时旧条目保持不变
func (c *TopicCache) RefreshTopic(ctx context.Context, topicID int64) (*types.Topic, error) {
	if topicID <= 0 {
		return nil, types.NewInvalidParams("topic id must be positive, got %d", topicID)
	}
	return c.fetchShared(ctx, topicID)
}

func (c *TopicCache) fetchShared(ctx context.Context, topicID int64) (*types.Topic, error) {
	key := fmt.Sprintf("%d", topicID)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		topic, err := c.fetch(ctx, topicID)
		if err != nil {
			if _, ok := err.(*types.MetadataFetchError); ok {
				return nil, err
			}
			return nil, &types.MetadataFetchError{TopicID: topicID, Err: err}
		}
		c.storeTopic(topic)
		return topic, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*types.Topic), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *TopicCache) storeTopic(topic *types.Topic) {
	c.mu.Lock()
	c.topics[topic.TopicID] = topic
	c.mu.Unlock()

	rec := cachedTopicRecord{
		TopicID:   topic.TopicID,
		Title:     topic.Title,
		Timestamp: topic.FetchedAt.UnixMilli(),
		Data:      topic,
	}
	// 磁盘写失败不影响本次结果，下次进程重启少一条预热而已
	_ = c.store.Save(topicRecordName(topic.TopicID), rec)
	logger.Debugf("[TopicCache] 话题 %d 元数据已更新", topic.TopicID)
}

// Invalidate 失效单个话题
func (c *TopicCache) Invalidate(topicID int64) error {
	c.mu.Lock()
	delete(c.topics, topicID)
	err := c.store.Delete(topicRecordName(topicID))
	c.mu.Unlock()
	return err
}

// InvalidateAll 清空全部缓存。持锁执行，
// 并发读取方看到的要么是旧缓存要么是空，不会是半清空状态
func (c *TopicCache) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	names, err := c.store.List("topic_")
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := c.store.Delete(name); err != nil {
			return err
		}
	}
	c.topics = make(map[int64]*types.Topic)
	return nil
}

// fetchTopic 从上游拉取话题元数据
func (c *Client) fetchTopic(ctx context.Context, topicID int64) (*types.Topic, error) {
	result, err := c.http.getResult(ctx, fmt.Sprintf("%s%d", EndpointTopic, topicID), nil)
	if err != nil {
		return nil, &types.MetadataFetchError{TopicID: topicID, Err: err}
	}
	topic, err := types.ParseTopicResult(result)
	if err != nil {
		return nil, &types.MetadataFetchError{TopicID: topicID, Err: err}
	}
	return topic, nil
}

// ListCached 列出当前缓存的话题摘要，按 topic id 升序
func (c *TopicCache) ListCached() []types.CachedTopicSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now().UTC()
	summaries := make([]types.CachedTopicSummary, 0, len(c.topics))
	for _, topic := range c.topics {
		summaries = append(summaries, types.CachedTopicSummary{
			TopicID:   topic.TopicID,
			Title:     topic.Title,
			FetchedAt: topic.FetchedAt,
			Age:       now.Sub(topic.FetchedAt),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TopicID < summaries[j].TopicID
	})
	return summaries
}
