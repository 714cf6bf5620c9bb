// Package banks assembles the configured source adapters.
package banks

import (
    "time"

    "lakrates/internal/config"
    "lakrates/internal/ratelimit"
    "lakrates/internal/source"
    "lakrates/internal/source/apb"
    "lakrates/internal/source/bcel"
    "lakrates/internal/source/bol"
    "lakrates/internal/source/ldb"
    "lakrates/internal/source/lvb"
)

// Entry is one enabled bank: its adapter plus the request gate that
// serializes calls against that bank.
type Entry struct {
    Adapter source.Adapter
    Gate    *ratelimit.Gate
}

// Build returns the enabled adapters in fixed order. Disabled banks are
// skipped entirely.
func Build(cfg config.Config) []Entry {
    var out []Entry
    add := func(enabled bool, a source.Adapter, interval int) {
        if !enabled {
            return
        }
        out = append(out, Entry{
            Adapter: a,
            Gate:    &ratelimit.Gate{Interval: time.Duration(interval) * time.Second},
        })
    }

    add(cfg.BCEL.Enabled, bcel.New(bcel.Config{
        Endpoint: cfg.BCEL.Endpoint,
        Headers:  cfg.BCEL.Headers,
        Scale:    cfg.BCEL.Scale,
    }), cfg.BCEL.MinRequestIntervalSec)

    add(cfg.BOL.Enabled, bol.New(bol.Config{
        Endpoint: cfg.BOL.Endpoint,
        Headers:  cfg.BOL.Headers,
        Scale:    cfg.BOL.Scale,
    }), cfg.BOL.MinRequestIntervalSec)

    add(cfg.LDB.Enabled, ldb.New(ldb.Config{
        Endpoint: cfg.LDB.Endpoint,
        Headers:  cfg.LDB.Headers,
        Username: cfg.LDB.Username,
        Password: cfg.LDB.Password,
        Scale:    cfg.LDB.Scale,
    }), cfg.LDB.MinRequestIntervalSec)

    add(cfg.APB.Enabled, apb.New(apb.Config{
        Endpoint: cfg.APB.Endpoint,
        Headers:  cfg.APB.Headers,
        Scale:    cfg.APB.Scale,
    }), cfg.APB.MinRequestIntervalSec)

    add(cfg.LVB.Enabled, lvb.New(lvb.Config{
        Endpoint: cfg.LVB.Endpoint,
        Headers:  cfg.LVB.Headers,
        Scale:    cfg.LVB.Scale,
    }), cfg.LVB.MinRequestIntervalSec)

    return out
}

// Find returns the entry whose adapter name matches, or false.
func Find(entries []Entry, name string) (Entry, bool) {
    for _, e := range entries {
        if e.Adapter.Name() == name {
            return e, true
        }
    }
    return Entry{}, false
}
