package rates

import (
    "errors"
    "strconv"
    "testing"
)

func TestNormalize_DotDecimal(t *testing.T) {
    conv := Convention{DecimalSeparator: '.'}

    cases := map[string]float64{
        "21,500":       21500,
        "1,234.56":     1234.56,
        "21500":        21500,
        " 2,930 ":      2930,
        "15.95":        15.95,
        "1,234,567.89": 1234567.89,
    }
    for in, want := range cases {
        got, err := Normalize(in, "USD", conv)
        if err != nil {
            t.Fatalf("Normalize(%q): %v", in, err)
        }
        if got != want {
            t.Fatalf("Normalize(%q) = %v, want %v", in, got, want)
        }
    }
}

func TestNormalize_CommaDecimal(t *testing.T) {
    conv := Convention{DecimalSeparator: ','}

    cases := map[string]float64{
        "21.500":       21500,
        "1.234,56":     1234.56,
        "2.965":        2965, // dot is a thousands separator here
        "15,95":        15.95,
        "1.234.567,89": 1234567.89,
    }
    for in, want := range cases {
        got, err := Normalize(in, "CNY", conv)
        if err != nil {
            t.Fatalf("Normalize(%q): %v", in, err)
        }
        if got != want {
            t.Fatalf("Normalize(%q) = %v, want %v", in, got, want)
        }
    }
}

// Canonical output text is always dot-decimal, so re-normalizing must use
// the canonical convention: feeding "15.95" back through a comma-decimal
// source convention would read the dot as a thousands separator.
func TestNormalize_IdempotentOnCanonicalOutput(t *testing.T) {
    canonical := Convention{DecimalSeparator: '.'}

    cases := []struct {
        text string
        conv Convention
    }{
        {"1,234.56", Convention{DecimalSeparator: '.'}},
        {"21,500", Convention{DecimalSeparator: '.'}},
        {"1.234,56", Convention{DecimalSeparator: ','}},
        {"2.965", Convention{DecimalSeparator: ','}},
        {"15,95", Convention{DecimalSeparator: ','}},
        {"1,485", Convention{DecimalSeparator: '.', Scale: map[string]float64{"KRW": 0.01}}},
    }
    for _, c := range cases {
        v, err := Normalize(c.text, "KRW", c.conv)
        if err != nil {
            t.Fatalf("Normalize(%q): %v", c.text, err)
        }
        again, err := Normalize(strconv.FormatFloat(v, 'f', -1, 64), "KRW", canonical)
        if err != nil {
            t.Fatalf("re-normalize of %q output: %v", c.text, err)
        }
        if again != v {
            t.Fatalf("Normalize(%q) = %v, re-normalized = %v", c.text, v, again)
        }
    }
}

func TestNormalize_Sentinels(t *testing.T) {
    conv := Convention{DecimalSeparator: '.'}
    for _, in := range []string{"", "-", "  ", " - "} {
        _, err := Normalize(in, "USD", conv)
        if !errors.Is(err, ErrNoData) {
            t.Fatalf("Normalize(%q) err = %v, want ErrNoData", in, err)
        }
    }
}

func TestNormalize_Unparseable(t *testing.T) {
    conv := Convention{DecimalSeparator: '.'}
    for _, in := range []string{"abc", "n/a", "--x"} {
        _, err := Normalize(in, "USD", conv)
        if !errors.Is(err, ErrUnparseable) {
            t.Fatalf("Normalize(%q) err = %v, want ErrUnparseable", in, err)
        }
    }
}

func TestNormalize_StripsStrayCharacters(t *testing.T) {
    conv := Convention{DecimalSeparator: '.'}
    got, err := Normalize("  21,500 LAK", "USD", conv)
    if err != nil {
        t.Fatalf("Normalize: %v", err)
    }
    if got != 21500 {
        t.Fatalf("got %v, want 21500", got)
    }
}

func TestNormalize_ScaleTable(t *testing.T) {
    conv := Convention{DecimalSeparator: '.', Scale: map[string]float64{"KRW": 0.01}}

    got, err := Normalize("1,485", "KRW", conv)
    if err != nil {
        t.Fatalf("Normalize: %v", err)
    }
    if got != 14.85 {
        t.Fatalf("KRW scaled = %v, want 14.85", got)
    }

    // currencies outside the table are untouched
    got, err = Normalize("1,485", "THB", conv)
    if err != nil {
        t.Fatalf("Normalize: %v", err)
    }
    if got != 1485 {
        t.Fatalf("THB = %v, want 1485", got)
    }
}

func TestScaleFor_IgnoresNonPositive(t *testing.T) {
    conv := Convention{Scale: map[string]float64{"JPY": 0, "VND": -2}}
    if s := conv.ScaleFor("JPY"); s != 1 {
        t.Fatalf("ScaleFor(JPY) = %v, want 1", s)
    }
    if s := conv.ScaleFor("VND"); s != 1 {
        t.Fatalf("ScaleFor(VND) = %v, want 1", s)
    }
}
