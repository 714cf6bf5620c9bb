package httpx

import (
    "context"
    "crypto/tls"
    "fmt"
    "io"
    "net"
    "net/http"
    "time"

    "github.com/cenkalti/backoff/v4"
)

// Client is a small wrapper around http.Client with sane defaults and a
// retry policy matching the sources' flakiness: 429 and 5xx responses are
// retried with exponential backoff, other statuses fail immediately.
type Client struct {
    HTTP       *http.Client
    UserAgent  string
    Headers    map[string]string
    MaxRetries uint64
}

func New(timeout time.Duration) *Client {
    transport := &http.Transport{
        Proxy: http.ProxyFromEnvironment,
        DialContext: (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          20,
        MaxIdleConnsPerHost:   4,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   5 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
        // Several of the bank endpoints serve expired or self-signed
        // certificates; the upstream data is public.
        TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
    }
    return &Client{
        HTTP:       &http.Client{Timeout: timeout, Transport: transport},
        UserAgent:  "lakrates/1.0",
        MaxRetries: 3,
    }
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
    if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
        req.Header.Set("User-Agent", c.UserAgent)
    }
    for k, v := range c.Headers {
        if req.Header.Get(k) == "" {
            req.Header.Set(k, v)
        }
    }
    return c.HTTP.Do(req)
}

// DoRead performs build() with retry-with-backoff and drains the body.
// build is invoked once per attempt so request bodies are fresh.
func (c *Client) DoRead(ctx context.Context, build func(context.Context) (*http.Request, error)) ([]byte, error) {
    op := func() ([]byte, error) {
        req, err := build(ctx)
        if err != nil {
            return nil, backoff.Permanent(err)
        }
        resp, err := c.Do(ctx, req)
        if err != nil {
            return nil, err
        }
        defer resp.Body.Close()
        if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
            io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
            return nil, fmt.Errorf("%s %s -> %d", req.Method, req.URL, resp.StatusCode)
        }
        if resp.StatusCode < 200 || resp.StatusCode >= 300 {
            return nil, backoff.Permanent(fmt.Errorf("%s %s -> %d", req.Method, req.URL, resp.StatusCode))
        }
        b, err := io.ReadAll(resp.Body)
        if err != nil {
            return nil, err
        }
        return b, nil
    }

    bo := backoff.NewExponentialBackOff()
    bo.InitialInterval = 500 * time.Millisecond
    bo.MaxInterval = 10 * time.Second
    return backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.MaxRetries), ctx))
}
