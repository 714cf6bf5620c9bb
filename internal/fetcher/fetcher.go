package fetcher

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "time"

    "lakrates/internal/calendar"
    "lakrates/internal/metrics"
    "lakrates/internal/ratelimit"
    "lakrates/internal/rates"
    "lakrates/internal/source"
)

// Kind classifies terminal fetch failures.
type Kind string

const (
    KindTransport Kind = "transport"
    KindNoData    Kind = "no_data"
)

// Error is the terminal failure of one orchestration run against one bank.
type Error struct {
    Bank string
    Kind Kind
    Err  error
}

func (e *Error) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("%s: %s: %v", e.Bank, e.Kind, e.Err)
    }
    return fmt.Sprintf("%s: %s", e.Bank, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// maxAttempts is the total number of dates tried per fetch (the requested
// trading day plus fallback hops), matching the sources' observed lag.
const maxAttempts = 3

// Orchestrator drives one adapter through the date-fallback loop and
// returns a canonical RateSet. Adapters have no data dependency on one
// another; separate Orchestrator values may run concurrently, but within
// one adapter the Gate serializes requests.
type Orchestrator struct {
    Transport Transport
    Calendar  *calendar.Calendar
    Gate      *ratelimit.Gate
    Log       *slog.Logger
    Metrics   *metrics.Metrics
}

// FetchForDate resolves the rates an adapter published for requested, or
// for the nearest preceding trading day with data. The returned RateSet
// carries both dates so callers can surface the discrepancy.
func (o *Orchestrator) FetchForDate(ctx context.Context, a source.Adapter, requested time.Time) (*rates.RateSet, error) {
    log := o.logger().With("bank", a.Name())

    date := requested
    if !o.Calendar.IsTradingDay(date) {
        date = o.Calendar.PreviousTradingDay(date)
        log.Info("requested date is not a trading day", "requested", day(requested), "using", day(date))
    }

    conv := a.Convention()
    for attempt := 1; ; attempt++ {
        if err := o.Gate.Wait(ctx); err != nil {
            return nil, &Error{Bank: a.Name(), Kind: KindTransport, Err: err}
        }

        o.Metrics.Attempt(a.Name())
        raw, err := o.Transport.Fetch(ctx, a.BuildRequest(date))
        if err != nil {
            o.Metrics.Failure(a.Name(), string(KindTransport))
            return nil, &Error{Bank: a.Name(), Kind: KindTransport, Err: err}
        }

        rs := o.parse(a, conv, raw, date, requested, log)
        if rs.Len() > 0 {
            if rs.ResolvedEarlier() {
                log.Info("resolved to earlier trading day", "requested", day(requested), "resolved", day(date))
            }
            return rs, nil
        }

        if attempt >= maxAttempts {
            o.Metrics.Failure(a.Name(), string(KindNoData))
            return nil, &Error{
                Bank: a.Name(),
                Kind: KindNoData,
                Err:  fmt.Errorf("no data within %d trading days of %s", maxAttempts, day(requested)),
            }
        }
        date = o.Calendar.PreviousTradingDay(date)
        o.Metrics.FallbackHop(a.Name())
        log.Info("no data published, falling back", "attempt", attempt, "next", day(date))
    }
}

// parse turns a raw payload into a RateSet. A structure-level parse error
// counts as "nothing published" so the caller falls back; bad individual
// quotes are dropped with a warning.
func (o *Orchestrator) parse(a source.Adapter, conv rates.Convention, raw []byte, date, requested time.Time, log *slog.Logger) *rates.RateSet {
    rs := rates.NewRateSet(a.Name(), date, requested)

    rqs, err := a.ParsePayload(raw)
    if err != nil {
        if errors.Is(err, source.ErrStructure) {
            log.Warn("payload not parseable, treating as empty", "date", day(date), "err", err)
            return rs
        }
        log.Warn("parse failed", "date", day(date), "err", err)
        return rs
    }

    for _, rq := range rqs {
        q := rates.Quote{Currency: rq.Currency}

        buy, berr := rates.Normalize(rq.BuyText, rq.Currency, conv)
        if berr == nil {
            q.Buy = rates.Float(buy)
        } else if !errors.Is(berr, rates.ErrNoData) {
            log.Warn("dropping buy price", "currency", rq.Currency, "text", rq.BuyText, "err", berr)
        }

        sell, serr := rates.Normalize(rq.SellText, rq.Currency, conv)
        if serr == nil {
            q.Sell = rates.Float(sell)
        } else if !errors.Is(serr, rates.ErrNoData) {
            log.Warn("dropping sell price", "currency", rq.Currency, "text", rq.SellText, "err", serr)
        }

        if q.Buy == nil && q.Sell == nil {
            o.Metrics.QuoteDropped(a.Name())
            continue
        }
        rs.Add(q)
    }
    return rs
}

func (o *Orchestrator) logger() *slog.Logger {
    if o.Log != nil {
        return o.Log
    }
    return slog.Default()
}

func day(t time.Time) string { return t.Format("2006-01-02") }
