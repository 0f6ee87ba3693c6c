package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProber memoizes probe results in Redis. Probes are advisory, so a
// stale answer within the TTL is acceptable and saves outbound requests when
// admins re-check the same submission.
type CachedProber struct {
	next   Prober
	client *redis.Client
	ttl    time.Duration
}

func NewCachedProber(next Prober, client *redis.Client, ttl time.Duration) *CachedProber {
	return &CachedProber{next: next, client: client, ttl: ttl}
}

func (p *CachedProber) Probe(ctx context.Context, url string) bool {
	key := fmt.Sprintf("probe:%s", url)

	val, err := p.client.Get(ctx, key).Result()
	if err == nil {
		return val == "1"
	}
	if err != redis.Nil {
		slog.WarnContext(ctx, "Probe cache read failed, probing directly", slog.String("error", err.Error()))
	}

	reachable := p.next.Probe(ctx, url)

	cached := "0"
	if reachable {
		cached = "1"
	}
	if err := p.client.Set(ctx, key, cached, p.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Probe cache write failed", slog.String("error", err.Error()))
	}

	return reachable
}
