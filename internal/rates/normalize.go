package rates

import (
    "errors"
    "fmt"
    "strconv"
    "strings"
)

var (
    // ErrNoData marks the source's "no data" sentinel ("-" or empty cell).
    ErrNoData = errors.New("no data")
    // ErrUnparseable marks text that survives cleanup but is not a number.
    ErrUnparseable = errors.New("unparseable rate text")
)

// Convention declares how one source writes numbers. The decimal separator
// is a per-source property: two sources can publish the same currency with
// opposite comma/dot meanings. Scale holds explicit per-currency multipliers
// for sources that publish a currency on a different denomination basis
// (e.g. LAK per 100 KRW -> scale 0.01). Scale is configured from known
// ground truth, never inferred from the magnitude of the parsed value.
type Convention struct {
    DecimalSeparator rune
    Scale            map[string]float64
}

// ScaleFor returns the multiplier for a currency, defaulting to 1.
func (c Convention) ScaleFor(currency string) float64 {
    if s, ok := c.Scale[currency]; ok && s > 0 {
        return s
    }
    return 1
}

// Normalize converts one source's rate text into a canonical float64
// (LAK per one unit of currency). Pure function.
func Normalize(text, currency string, conv Convention) (float64, error) {
    s := strings.TrimSpace(text)
    if s == "" || s == "-" {
        return 0, ErrNoData
    }

    dec := conv.DecimalSeparator
    if dec == 0 {
        dec = '.'
    }
    thousands := byte('.')
    if dec == '.' {
        thousands = ','
    }

    s = strings.ReplaceAll(s, string(thousands), "")
    s = strings.ReplaceAll(s, string(dec), ".")

    // Defensive: currency symbols, NBSPs and other stray characters.
    var b strings.Builder
    for _, r := range s {
        if (r >= '0' && r <= '9') || r == '.' {
            b.WriteRune(r)
        }
    }
    cleaned := b.String()
    if cleaned == "" {
        return 0, fmt.Errorf("%w: %q", ErrUnparseable, text)
    }

    v, err := strconv.ParseFloat(cleaned, 64)
    if err != nil {
        return 0, fmt.Errorf("%w: %q", ErrUnparseable, text)
    }
    return v * conv.ScaleFor(currency), nil
}
