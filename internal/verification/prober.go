package verification

import (
	"context"
	"net/http"
	"time"
)

// ProbeTimeout bounds a single reachability attempt (per request, so a HEAD
// that times out still leaves room for the GET fallback's own timeout).
const ProbeTimeout = 5 * time.Second

// Prober checks whether a URL is reachable. Implementations are best-effort:
// a false result means "could not confirm", never an error.
type Prober interface {
	Probe(ctx context.Context, url string) bool
}

type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		client: &http.Client{Timeout: ProbeTimeout},
	}
}

// Probe tries a HEAD request first and falls back to GET, following
// redirects. Success is any status below 400.
func (p *HTTPProber) Probe(ctx context.Context, url string) bool {
	if p.attempt(ctx, http.MethodHead, url) {
		return true
	}
	return p.attempt(ctx, http.MethodGet, url)
}

func (p *HTTPProber) attempt(ctx context.Context, method, url string) bool {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 400
}
