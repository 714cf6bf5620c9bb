package rates

import (
    "time"
)

// RawQuote is a single table/JSON row as the adapter saw it, before any
// numeric normalization. Either price text may be empty or the source's
// "no data" sentinel.
type RawQuote struct {
    Currency string
    BuyText  string
    SellText string
}

// Quote is the canonical, normalized form: LAK per one unit of Currency.
// At least one of Buy/Sell is set; a nil side means the bank did not
// publish that price.
type Quote struct {
    Currency string     `json:"currency"`
    Buy      *float64   `json:"buy,omitempty"`
    Sell     *float64   `json:"sell,omitempty"`
    Bank     string     `json:"bank"`
    Date     time.Time  `json:"date"`
}

// RateSet is the complete set of quotes resolved for one bank on one date.
// The Date is the date the data was actually published for, which may be
// earlier than Requested when the orchestrator fell back over non-trading
// days.
type RateSet struct {
    Bank      string
    Date      time.Time
    Requested time.Time

    quotes map[string]Quote
    order  []string
}

func NewRateSet(bank string, date, requested time.Time) *RateSet {
    return &RateSet{
        Bank:      bank,
        Date:      date,
        Requested: requested,
        quotes:    make(map[string]Quote),
    }
}

// Add inserts or replaces the quote for its currency, stamping it with the
// set's bank and date. Insertion order is preserved for iteration.
func (rs *RateSet) Add(q Quote) {
    q.Bank = rs.Bank
    q.Date = rs.Date
    if _, ok := rs.quotes[q.Currency]; !ok {
        rs.order = append(rs.order, q.Currency)
    }
    rs.quotes[q.Currency] = q
}

func (rs *RateSet) Get(currency string) (Quote, bool) {
    q, ok := rs.quotes[currency]
    return q, ok
}

// Currencies returns currency codes in insertion order.
func (rs *RateSet) Currencies() []string {
    out := make([]string, len(rs.order))
    copy(out, rs.order)
    return out
}

func (rs *RateSet) Len() int { return len(rs.quotes) }

// ResolvedEarlier reports whether the fallback walk moved the set to an
// earlier date than the caller asked for. Callers surface this to the user.
func (rs *RateSet) ResolvedEarlier() bool {
    return !rs.Date.Equal(rs.Requested)
}

// Float returns a pointer to v; convenience for optional quote sides.
func Float(v float64) *float64 { return &v }
