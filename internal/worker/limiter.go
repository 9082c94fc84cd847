package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound fetches per host, so ingesting many
// papers from one site stays polite while other hosts proceed at full
// speed.
type Limiter struct {
	mu       sync.RWMutex
	perHost  map[string]*rate.Limiter
	rateDef  rate.Limit
	burstDef int
}

// NewLimiter creates a limiter applying requestsPerSecond to each host
// independently
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		perHost:  make(map[string]*rate.Limiter),
		rateDef:  rate.Limit(requestsPerSecond),
		burstDef: burst,
	}
}

// Wait blocks until the host of rawURL may be fetched again
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.hostLimiter(host).Wait(ctx)
}

// WaitWithDelay waits for the host's rate limit and then for an extra
// delay, typically a robots.txt crawl-delay
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, extra time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}

	if extra > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(extra):
		}
	}
	return nil
}

// Allow reports whether the host of rawURL may be fetched right now,
// consuming a token if so
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return l.hostLimiter(host).Allow()
}

func (l *Limiter) hostLimiter(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.perHost[host]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.perHost[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.rateDef, l.burstDef)
	l.perHost[host] = limiter
	return limiter
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
