package benang

import (
	"context"
	"sync"
	"time"
)

// ArticleCache is a small TTL cache of published articles sitting in front
// of the public article endpoints. The gateway itself stays cache-free;
// this is purely a page-serving concern and is invalidated on every admin
// write.
type ArticleCache struct {
	mu       sync.RWMutex
	articles []Article
	fetched  time.Time
	ttl      time.Duration
	repo     *FeaturedRepo[Article, *Article]
}

// NewArticleCache creates an ArticleCache backed by the articles repo.
func NewArticleCache(repo *FeaturedRepo[Article, *Article], ttl time.Duration) *ArticleCache {
	return &ArticleCache{repo: repo, ttl: ttl}
}

func (c *ArticleCache) valid() bool {
	return c.articles != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ArticleCache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.mu.Unlock()
}

// ListPublished returns published articles, loading through the repo when
// the cache is stale. A backend outage caches the repo's empty fallback
// until the TTL lapses, which matches the empty-state the pages render.
func (c *ArticleCache) ListPublished(ctx context.Context) []Article {
	c.mu.RLock()
	if c.valid() {
		articles := c.articles
		c.mu.RUnlock()
		return articles
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid() {
		c.articles = c.repo.ListPublished(ctx)
		c.fetched = time.Now()
	}
	return c.articles
}

// GetBySlug returns one published article from the cache.
func (c *ArticleCache) GetBySlug(ctx context.Context, slug string) *Article {
	for _, a := range c.ListPublished(ctx) {
		if a.Slug == slug {
			return &a
		}
	}
	return nil
}
