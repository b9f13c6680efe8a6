package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"teamsite/backend/internal/domain"
)

// ErrCacheMiss 缓存未命中错误
var ErrCacheMiss = errors.New("cache miss")

// Cache Redis 缓存实现
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

// NewCache 创建 Redis 缓存实例
func NewCache(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 10,
	})

	ctx := context.Background()

	// 测试连接
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{
		client: client,
		ctx:    ctx,
	}, nil
}

// ========== 通讯缓存 ==========

// CacheNewsletter 缓存通讯详情
func (c *Cache) CacheNewsletter(n *domain.Newsletter, ttl time.Duration) error {
	key := fmt.Sprintf("newsletter:%d", n.ID)
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, key, data, ttl).Err()
}

// GetCachedNewsletter 获取缓存的通讯详情
func (c *Cache) GetCachedNewsletter(id uint) (*domain.Newsletter, error) {
	key := fmt.Sprintf("newsletter:%d", id)
	data, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var n domain.Newsletter
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteCachedNewsletter 删除缓存的通讯详情
func (c *Cache) DeleteCachedNewsletter(id uint) error {
	key := fmt.Sprintf("newsletter:%d", id)
	return c.client.Del(c.ctx, key).Err()
}

// ========== 博客缓存 ==========

// CacheBlog 缓存博客详情（以 slug 为键）
func (c *Cache) CacheBlog(blog *domain.Blog, ttl time.Duration) error {
	key := fmt.Sprintf("blog:%s", blog.Slug)
	data, err := json.Marshal(blog)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, key, data, ttl).Err()
}

// GetCachedBlog 获取缓存的博客详情
func (c *Cache) GetCachedBlog(slug string) (*domain.Blog, error) {
	key := fmt.Sprintf("blog:%s", slug)
	data, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var blog domain.Blog
	if err := json.Unmarshal([]byte(data), &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// DeleteCachedBlog 删除缓存的博客详情
func (c *Cache) DeleteCachedBlog(slug string) error {
	key := fmt.Sprintf("blog:%s", slug)
	return c.client.Del(c.ctx, key).Err()
}

// ========== 订阅统计缓存 ==========

// CacheSubscriberCount 缓存激活订阅者数量
func (c *Cache) CacheSubscriberCount(count int64, ttl time.Duration) error {
	return c.client.Set(c.ctx, "subscribers:active_count", count, ttl).Err()
}

// GetCachedSubscriberCount 获取缓存的激活订阅者数量
func (c *Cache) GetCachedSubscriberCount() (int64, error) {
	count, err := c.client.Get(c.ctx, "subscribers:active_count").Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, ErrCacheMiss
		}
		return 0, err
	}
	return count, nil
}

// InvalidateSubscriberCount 订阅状态变更后失效计数缓存
func (c *Cache) InvalidateSubscriberCount() error {
	return c.client.Del(c.ctx, "subscribers:active_count").Err()
}

// Health 检查 Redis 连接健康状态
func (c *Cache) Health() error {
	return c.client.Ping(c.ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Cache) Close() error {
	return c.client.Close()
}
