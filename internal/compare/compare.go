package compare

import (
    "sort"

    "lakrates/internal/rates"
)

// Row compares one currency's price of one type across two banks.
// Difference is B minus A; Percent is the difference relative to A.
// Nil means not applicable: a side the bank did not publish, or a percent
// whose baseline is missing or zero.
type Row struct {
    Currency string   `json:"currency"`
    RateType string   `json:"rate_type"`
    A        *float64 `json:"a,omitempty"`
    B        *float64 `json:"b,omitempty"`
    Diff     *float64 `json:"difference,omitempty"`
    Percent  *float64 `json:"difference_percent,omitempty"`
}

// Compare joins two same-day RateSets over the union of their currencies.
// Buy compares only against buy, sell only against sell. Currencies are
// ordered by the reference list first, remaining codes lexicographically.
func Compare(a, b *rates.RateSet, order []string) []Row {
    union := unionCurrencies(a, b, order)

    var out []Row
    for _, code := range union {
        qa, _ := a.Get(code)
        qb, _ := b.Get(code)
        if r, ok := row(code, "buy", qa.Buy, qb.Buy); ok {
            out = append(out, r)
        }
        if r, ok := row(code, "sell", qa.Sell, qb.Sell); ok {
            out = append(out, r)
        }
    }
    return out
}

// row builds one comparison row; absent when neither bank has the price.
func row(code, rateType string, a, b *float64) (Row, bool) {
    if a == nil && b == nil {
        return Row{}, false
    }
    r := Row{Currency: code, RateType: rateType, A: a, B: b}
    if a != nil && b != nil {
        diff := *b - *a
        r.Diff = &diff
        if *a != 0 {
            pct := diff / *a * 100
            r.Percent = &pct
        }
    }
    return r, true
}

func unionCurrencies(a, b *rates.RateSet, order []string) []string {
    seen := make(map[string]struct{})
    present := make(map[string]struct{})
    for _, c := range a.Currencies() {
        present[c] = struct{}{}
    }
    for _, c := range b.Currencies() {
        present[c] = struct{}{}
    }

    out := make([]string, 0, len(present))
    for _, c := range order {
        if _, ok := present[c]; ok {
            out = append(out, c)
            seen[c] = struct{}{}
        }
    }
    var rest []string
    for c := range present {
        if _, ok := seen[c]; !ok {
            rest = append(rest, c)
        }
    }
    sort.Strings(rest)
    return append(out, rest...)
}
