package worker

import (
	"context"
	"testing"
	"time"
)

func TestNewLimiter_DefaultBurst(t *testing.T) {
	if l := NewLimiter(10, 5); l.burst != 5 {
		t.Errorf("expected burst 5, got %d", l.burst)
	}
	if l := NewLimiter(10, -1); l.burst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l.burst)
	}
}

// quickWait fails fast when the bucket has no token ready
func quickWait(l *Limiter, endpoint string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, endpoint)
}

func TestLimiter_BucketPerEndpoint(t *testing.T) {
	l := NewLimiter(0.001, 1)
	openai := "https://api.openai.com/v1"
	local := "http://localhost:11434/v1"

	if err := quickWait(l, openai); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}
	if err := quickWait(l, openai+"/chat/completions"); err == nil {
		t.Error("same host should share the exhausted bucket")
	}
	if err := quickWait(l, local); err != nil {
		t.Errorf("another endpoint should have its own bucket: %v", err)
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	endpoint := "https://api.openai.com/v1"
	if err := l.Wait(context.Background(), endpoint); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx, endpoint); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestLimiter_ZeroRateUnlimited(t *testing.T) {
	l := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if err := quickWait(l, "https://api.openai.com/v1"); err != nil {
			t.Fatalf("request %d should pass with limiting disabled", i)
		}
	}
}

func TestEndpointHost(t *testing.T) {
	host, err := endpointHost("http://localhost:11434/v1")
	if err != nil {
		t.Fatalf("endpointHost failed: %v", err)
	}
	if host != "localhost:11434" {
		t.Errorf("expected localhost:11434, got %s", host)
	}

	if _, err := endpointHost("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, err := endpointHost("/v1"); err == nil {
		t.Error("expected error for URL without host")
	}
}
