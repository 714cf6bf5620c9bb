package lvb

import (
    "context"
    "errors"
    "io"
    "net/url"
    "testing"
    "time"

    "lakrates/internal/source"
)

const fixture = `<html><body>
<table class="table-bordered">
<tr><th>Currency</th><th></th><th>Buy Cash</th><th></th><th></th><th>Sell</th></tr>
<tr><td colspan="6">Denominations: small notes / large notes</td></tr>
<tr><td>USD/LAK</td><td></td><td>21.400
21.500</td><td></td><td></td><td>21.650</td></tr>
<tr><td>EUR/LAK</td><td></td><td>24.950</td><td></td><td></td><td>25.300</td></tr>
<tr><td>THB/LAK</td><td></td><td>610</td><td></td><td></td><td>615,50</td></tr>
<tr><td>KRW/LAK</td><td></td><td>-</td><td></td><td></td><td>15,5</td></tr>
<tr><td>Notes</td><td></td><td></td><td></td><td></td><td></td></tr>
</table>
</body></html>`

func TestParsePayload_MultiDenominationCells(t *testing.T) {
    a := New(Config{})

    quotes, err := a.ParsePayload([]byte(fixture))
    if err != nil {
        t.Fatalf("ParsePayload: %v", err)
    }
    // EUR has only one buy line so its row is unusable and skipped
    if len(quotes) != 3 {
        t.Fatalf("quotes = %d, want 3: %+v", len(quotes), quotes)
    }

    usd := quotes[0]
    if usd.Currency != "USD" || usd.BuyText != "21.500" || usd.SellText != "21.650" {
        t.Fatalf("usd should take the second buy line: %+v", usd)
    }
    thb := quotes[1]
    if thb.Currency != "THB" || thb.BuyText != "610" || thb.SellText != "615,50" {
        t.Fatalf("thb: %+v", thb)
    }
    // sell-only currencies are kept with an empty buy side
    krw := quotes[2]
    if krw.Currency != "KRW" || krw.BuyText != "" || krw.SellText != "15,5" {
        t.Fatalf("krw: %+v", krw)
    }
}

func TestParsePayload_MissingTableIsStructural(t *testing.T) {
    a := New(Config{})
    _, err := a.ParsePayload([]byte(`<html><body><table class="other"></table></body></html>`))
    if !errors.Is(err, source.ErrStructure) {
        t.Fatalf("err = %v, want ErrStructure", err)
    }
}

func TestBuildRequest_WarmupAndDateForm(t *testing.T) {
    a := New(Config{})
    date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

    sreq := a.BuildRequest(date)
    if sreq.WarmupURL == "" {
        t.Fatal("warmup URL not set")
    }

    req, err := sreq.HTTPRequest(context.Background())
    if err != nil {
        t.Fatalf("HTTPRequest: %v", err)
    }
    body, _ := io.ReadAll(req.Body)
    form, err := url.ParseQuery(string(body))
    if err != nil {
        t.Fatalf("parse body: %v", err)
    }
    if form.Get("date") != "28-08-2026" {
        t.Fatalf("date = %s, want 28-08-2026", form.Get("date"))
    }
}
