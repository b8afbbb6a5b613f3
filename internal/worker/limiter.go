package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces calls to remote concept extraction endpoints. Every
// endpoint host gets its own token bucket, so a local model server and a
// hosted API never slow each other down.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewLimiter creates a limiter allowing requestsPerSecond per endpoint with
// the given burst. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
}

// Wait blocks until the endpoint behind rawURL may be called or ctx ends
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	b, err := l.bucket(rawURL)
	if err != nil {
		return err
	}
	return b.Wait(ctx)
}

func (l *Limiter) bucket(rawURL string) (*rate.Limiter, error) {
	host, err := endpointHost(rawURL)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[host]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[host] = b
	}
	return b, nil
}

// endpointHost returns the host[:port] of an endpoint URL
func endpointHost(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("endpoint url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint url %q has no host", rawURL)
	}
	return u.Host, nil
}
