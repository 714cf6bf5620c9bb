package bcel

import (
    "bytes"
    "fmt"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/PuerkitoBio/goquery"

    "lakrates/internal/rates"
    "lakrates/internal/source"
)

// Config controls the BCEL (Banque pour le Commerce Exterieur Lao) adapter.
type Config struct {
    Name     string
    Endpoint string
    Headers  map[string]string
    Scale    map[string]float64 // per-currency denomination corrections
}

// Adapter scrapes the BCEL detail-exchange-rate page: POST form with the
// date, HTML table #fxRateAll in the response.
type Adapter struct {
    cfg Config
}

func New(cfg Config) *Adapter {
    if cfg.Name == "" { cfg.Name = "BCEL" }
    if cfg.Endpoint == "" {
        cfg.Endpoint = "https://www.bcel.com.la/bcel/detail-exchange-rate"
    }
    return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) BuildRequest(date time.Time) source.Request {
    return source.Request{
        Method: http.MethodPost,
        URL:    a.cfg.Endpoint,
        Form: url.Values{
            "exDate": {date.Format("2006-01-02")},
            "round":  {"1"},
            "lang":   {"en"},
        },
        Headers: a.cfg.Headers,
    }
}

// BCEL writes "21,500.00": comma thousands, dot decimal.
func (a *Adapter) Convention() rates.Convention {
    return rates.Convention{DecimalSeparator: '.', Scale: a.cfg.Scale}
}

// ParsePayload extracts rows from the #fxRateAll table. Column 2 carries
// the currency code plus a cash-note denomination band; USD and EUR are
// listed once per band and only the canonical band is kept.
func (a *Adapter) ParsePayload(raw []byte) ([]rates.RawQuote, error) {
    doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
    if err != nil {
        return nil, fmt.Errorf("%w: %v", source.ErrStructure, err)
    }
    table := doc.Find("table#fxRateAll")
    if table.Length() == 0 {
        return nil, fmt.Errorf("%w: missing #fxRateAll table", source.ErrStructure)
    }

    var out []rates.RawQuote
    table.Find("tr").Each(func(_ int, row *goquery.Selection) {
        if row.Find("th").Length() > 0 {
            return
        }
        cells := row.Find("td")
        if cells.Length() < 7 {
            return
        }
        codeText := strings.TrimSpace(cells.Eq(2).Text())
        if len(codeText) < 3 {
            return
        }
        code := strings.ToUpper(codeText[:3])
        band := strings.TrimSpace(codeText[3:])
        if (code == "USD" || code == "EUR") &&
            !strings.Contains(band, "50-100") && !strings.Contains(band, "50-500") {
            return
        }
        buy := strings.TrimSpace(cells.Eq(3).Text())
        sell := strings.TrimSpace(cells.Eq(6).Text())
        if noData(buy) && noData(sell) {
            return
        }
        out = append(out, rates.RawQuote{Currency: code, BuyText: buy, SellText: sell})
    })
    return out, nil
}

func noData(s string) bool { return s == "" || s == "-" }
