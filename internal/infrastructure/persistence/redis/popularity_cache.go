package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// POPULARITY CACHE
// ══════════════════════════════════════════════════════════════════════════════

// rankingKey is the sorted set holding the film popularity ranking.
const rankingKey = PrefixRanking + "films"

// PopularityCache mirrors the film like counts in a Redis sorted set.
//
// Scores are stored NEGATED (score = -likeCount) and members are
// zero-padded film ids. A plain ascending ZRANGE then yields the ranking
// order: highest like count first, ties broken by ascending film id via
// the lexicographic member order Redis applies to equal scores.
type PopularityCache struct {
	cache *Cache
}

// NewPopularityCache creates a popularity cache on top of a Cache client.
func NewPopularityCache(cache *Cache) *PopularityCache {
	return &PopularityCache{cache: cache}
}

// member encodes a film id as a fixed-width sorted set member so that
// the lexicographic tie-break matches numeric ascending order.
func member(filmID int64) string {
	return fmt.Sprintf("%020d", filmID)
}

// Top returns the first limit film ids of the ranking.
// An absent or expired ranking key is a cache miss.
func (p *PopularityCache) Top(ctx context.Context, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}

	exists, err := p.cache.Exists(ctx, rankingKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCacheMiss
	}

	members, err := p.cache.Client().ZRange(ctx, rankingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad ranking member %q", ErrCacheSerialization, m)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Rebuild atomically replaces the ranking with exact like counts.
// The whole set is written under a temporary key and renamed into place
// so concurrent readers never observe a partial ranking.
func (p *PopularityCache) Rebuild(ctx context.Context, counts map[int64]int) error {
	tmpKey := rankingKey + ":rebuild"

	members := make([]redis.Z, 0, len(counts))
	for filmID, count := range counts {
		members = append(members, redis.Z{
			Score:  -float64(count),
			Member: member(filmID),
		})
	}

	pipe := p.cache.Client().TxPipeline()
	pipe.Del(ctx, tmpKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, tmpKey, members...)
		pipe.Rename(ctx, tmpKey, rankingKey)
		pipe.Expire(ctx, rankingKey, TTLRankingCache)
	} else {
		pipe.Del(ctx, rankingKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	return nil
}

// SetCount sets the exact like count for one film. A cold cache is left
// cold: updating a missing ranking would create a partial one, and the
// next read rebuilds from storage anyway.
func (p *PopularityCache) SetCount(ctx context.Context, filmID int64, count int) error {
	exists, err := p.cache.Exists(ctx, rankingKey)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	return p.cache.Client().ZAdd(ctx, rankingKey, redis.Z{
		Score:  -float64(count),
		Member: member(filmID),
	}).Err()
}

// RemoveFilm drops a film from the ranking.
func (p *PopularityCache) RemoveFilm(ctx context.Context, filmID int64) error {
	return p.cache.Client().ZRem(ctx, rankingKey, member(filmID)).Err()
}

// Invalidate drops the whole ranking, forcing a rebuild on next read.
func (p *PopularityCache) Invalidate(ctx context.Context) error {
	return p.cache.Delete(ctx, rankingKey)
}

// Size returns the number of films currently in the ranking.
func (p *PopularityCache) Size(ctx context.Context) (int64, error) {
	return p.cache.Client().ZCard(ctx, rankingKey).Result()
}
