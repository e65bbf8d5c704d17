package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"trip-planner/internal/api/dto"
	"trip-planner/internal/domain"
	"trip-planner/internal/platform/obs"
	"trip-planner/internal/ports"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultKey = "trip-planner:route_points"

// RouteListCache is a read-through Redis cache of the full route list in front
// of a RoutePointRepository. Every successful write drops the cached list.
// Cache failures are logged and never fail the request.
type RouteListCache struct {
	next  ports.RoutePointRepository
	cache *cache.Cache[string]
	key   string
}

func NewRouteListCache(next ports.RoutePointRepository, client *redis.Client, ttl time.Duration) *RouteListCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &RouteListCache{
		next:  next,
		cache: cache.New[string](redisStore),
		key:   DefaultKey,
	}
}

func (c *RouteListCache) ListRoutePoints(ctx context.Context) (_ []domain.RoutePoint, err error) {
	defer obs.Time(ctx, "cache.ListRoutePoints")(&err)

	if cached, err := c.cache.Get(ctx, c.key); err == nil {
		var wire []dto.RoutePoint
		if err := json.Unmarshal([]byte(cached), &wire); err == nil {
			points := make([]domain.RoutePoint, 0, len(wire))
			for _, p := range wire {
				points = append(points, dto.AdaptRoutePointToModel(p))
			}
			return points, nil
		}
		log.Warn().Str("key", c.key).Msg("Discarding undecodable cached route list")
	}

	points, err := c.next.ListRoutePoints(ctx)
	if err != nil {
		return nil, err
	}

	wire := make([]dto.RoutePoint, 0, len(points))
	for _, p := range points {
		wire = append(wire, dto.AdaptRoutePointToServer(p))
	}

	encoded, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("cache route list: encode: %w", err)
	}

	if err := c.cache.Set(ctx, c.key, string(encoded)); err != nil {
		log.Warn().Err(err).Str("key", c.key).Msg("Failed to cache route list")
	}

	return points, nil
}

func (c *RouteListCache) CreateRoutePoint(ctx context.Context, point domain.RoutePoint) (domain.RoutePoint, error) {
	created, err := c.next.CreateRoutePoint(ctx, point)
	if err != nil {
		return domain.RoutePoint{}, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *RouteListCache) UpdateRoutePoint(ctx context.Context, point domain.RoutePoint) (domain.RoutePoint, error) {
	updated, err := c.next.UpdateRoutePoint(ctx, point)
	if err != nil {
		return domain.RoutePoint{}, err
	}
	c.invalidate(ctx)
	return updated, nil
}

func (c *RouteListCache) DeleteRoutePoint(ctx context.Context, id string) error {
	if err := c.next.DeleteRoutePoint(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *RouteListCache) invalidate(ctx context.Context) {
	if err := c.cache.Delete(ctx, c.key); err != nil {
		log.Warn().Err(err).Str("key", c.key).Msg("Failed to invalidate cached route list")
	}
}
