package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts pipeline outcomes per bank. A nil *Metrics is a no-op so
// the orchestrator and store can be used without a registry in tests.
type Metrics struct {
    FetchAttemptsTotal *prometheus.CounterVec
    FetchFailuresTotal *prometheus.CounterVec
    FallbackHopsTotal  *prometheus.CounterVec
    QuotesDroppedTotal *prometheus.CounterVec
    RatesUpsertedTotal *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
    factory := promauto.With(reg)
    return &Metrics{
        FetchAttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
            Name: "rate_fetch_attempts_total",
            Help: "Fetch attempts per bank, including date-fallback retries",
        }, []string{"bank"}),
        FetchFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
            Name: "rate_fetch_failures_total",
            Help: "Failed fetches per bank and failure kind",
        }, []string{"bank", "kind"}),
        FallbackHopsTotal: factory.NewCounterVec(prometheus.CounterOpts{
            Name: "rate_fallback_hops_total",
            Help: "Times a fetch fell back to an earlier trading day",
        }, []string{"bank"}),
        QuotesDroppedTotal: factory.NewCounterVec(prometheus.CounterOpts{
            Name: "rate_quotes_dropped_total",
            Help: "Quotes dropped because their text failed normalization",
        }, []string{"bank"}),
        RatesUpsertedTotal: factory.NewCounterVec(prometheus.CounterOpts{
            Name: "rate_rows_upserted_total",
            Help: "Rate rows written to the store",
        }, []string{"bank"}),
    }
}

func (m *Metrics) Attempt(bank string) {
    if m != nil { m.FetchAttemptsTotal.WithLabelValues(bank).Inc() }
}

func (m *Metrics) Failure(bank, kind string) {
    if m != nil { m.FetchFailuresTotal.WithLabelValues(bank, kind).Inc() }
}

func (m *Metrics) FallbackHop(bank string) {
    if m != nil { m.FallbackHopsTotal.WithLabelValues(bank).Inc() }
}

func (m *Metrics) QuoteDropped(bank string) {
    if m != nil { m.QuotesDroppedTotal.WithLabelValues(bank).Inc() }
}

func (m *Metrics) Upserted(bank string, n int) {
    if m != nil { m.RatesUpsertedTotal.WithLabelValues(bank).Add(float64(n)) }
}
