package httpx

import (
    "context"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"
)

func buildGet(url string) func(context.Context) (*http.Request, error) {
    return func(ctx context.Context) (*http.Request, error) {
        return http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
    }
}

func TestDoRead_RetriesServerErrors(t *testing.T) {
    var calls atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if calls.Add(1) < 3 {
            w.WriteHeader(http.StatusBadGateway)
            return
        }
        _, _ = w.Write([]byte("payload"))
    }))
    defer srv.Close()

    c := New(5 * time.Second)
    b, err := c.DoRead(context.Background(), buildGet(srv.URL))
    if err != nil {
        t.Fatalf("DoRead: %v", err)
    }
    if string(b) != "payload" {
        t.Fatalf("body = %q", b)
    }
    if got := calls.Load(); got != 3 {
        t.Fatalf("calls = %d, want 3", got)
    }
}

func TestDoRead_ClientErrorIsPermanent(t *testing.T) {
    var calls atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls.Add(1)
        w.WriteHeader(http.StatusNotFound)
    }))
    defer srv.Close()

    c := New(5 * time.Second)
    _, err := c.DoRead(context.Background(), buildGet(srv.URL))
    if err == nil {
        t.Fatal("want error")
    }
    if got := calls.Load(); got != 1 {
        t.Fatalf("calls = %d, want no retries", got)
    }
}

func TestDoRead_GivesUpAfterMaxRetries(t *testing.T) {
    var calls atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls.Add(1)
        w.WriteHeader(http.StatusInternalServerError)
    }))
    defer srv.Close()

    c := New(5 * time.Second)
    c.MaxRetries = 1
    _, err := c.DoRead(context.Background(), buildGet(srv.URL))
    if err == nil {
        t.Fatal("want error")
    }
    if got := calls.Load(); got != 2 {
        t.Fatalf("calls = %d, want 2", got)
    }
}

func TestDo_SetsDefaultHeaders(t *testing.T) {
    var gotUA, gotAccept string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotUA = r.Header.Get("User-Agent")
        gotAccept = r.Header.Get("Accept")
    }))
    defer srv.Close()

    c := New(5 * time.Second)
    c.Headers = map[string]string{"Accept": "application/json"}

    req, _ := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
    resp, err := c.Do(context.Background(), req)
    if err != nil {
        t.Fatalf("Do: %v", err)
    }
    resp.Body.Close()

    if gotUA != "lakrates/1.0" {
        t.Fatalf("user-agent = %q", gotUA)
    }
    if gotAccept != "application/json" {
        t.Fatalf("accept = %q", gotAccept)
    }
}
