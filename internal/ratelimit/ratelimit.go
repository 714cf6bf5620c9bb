package ratelimit

import (
    "context"
    "sync"
    "time"
)

// Gate enforces a minimum time between calls against one source. Each
// adapter gets its own Gate, single-owned by the orchestration run; there
// is no cross-source sharing. Wait blocks until the interval since the
// previous call has elapsed, or returns early if the context is canceled.
type Gate struct {
    Interval time.Duration

    mu   sync.Mutex
    next time.Time
}

func (g *Gate) Wait(ctx context.Context) error {
    if g == nil || g.Interval <= 0 {
        return nil
    }
    g.mu.Lock()
    wait := time.Until(g.next)
    g.mu.Unlock()
    if wait > 0 {
        t := time.NewTimer(wait)
        defer t.Stop()
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-t.C:
        }
    }
    g.mu.Lock()
    g.next = time.Now().Add(g.Interval)
    g.mu.Unlock()
    return nil
}
