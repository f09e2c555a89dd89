package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPTransport measures the wall-clock latency of a minimal HEAD
// request. Keep-alives and connection reuse are disabled so that every
// probe pays the full DNS, TCP and TLS setup cost instead of riding a
// pooled connection.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport builds the transport with its non-pooling client.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives:   true,
				MaxIdleConnsPerHost: -1,
				ForceAttemptHTTP2:   false,
			},
		},
	}
}

// RTT issues a HEAD request and returns the elapsed time until a
// response is observed. Any response counts as reachable; the status
// code may not be inspectable in every deployment, but elapsed time is.
func (t *HTTPTransport) RTT(ctx context.Context, target string, timeout time.Duration) (time.Duration, error) {
	url := withScheme(target)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return elapsed, nil
}

func withScheme(target string) string {
	if strings.Contains(target, "://") {
		return target
	}
	return "https://" + target
}
