package fetcher

import (
    "context"
    "net/http"

    "lakrates/internal/httpx"
    "lakrates/internal/source"
)

// Transport performs one source request and returns the raw payload.
// Retry-with-backoff on transient failures is the transport's business;
// by the time an error reaches the orchestrator it is final.
//
//go:generate mockgen -package=fetcher_test -destination=mock_transport_test.go -source=transport.go Transport
type Transport interface {
    Fetch(ctx context.Context, req source.Request) ([]byte, error)
}

// HTTPTransport backs Transport with the shared httpx client.
type HTTPTransport struct {
    Client *httpx.Client
}

func (t *HTTPTransport) Fetch(ctx context.Context, req source.Request) ([]byte, error) {
    if req.WarmupURL != "" {
        // session-priming GET; the interesting response is the next call
        warm, err := http.NewRequestWithContext(ctx, http.MethodGet, req.WarmupURL, http.NoBody)
        if err != nil {
            return nil, err
        }
        if resp, err := t.Client.Do(ctx, warm); err == nil {
            resp.Body.Close()
        }
    }
    return t.Client.DoRead(ctx, req.HTTPRequest)
}
