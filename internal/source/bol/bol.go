package bol

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

// Config controls the Bank of the Lao PDR adapter.
type Config struct {
    Name     string
    Endpoint string
    Headers  map[string]string
    Scale    map[string]float64
}

// Adapter scrapes the BOL reference-rate page. The site takes the date as
// a multipart form field in DD-MM-YYYY and answers with an HTML table.
type Adapter struct {
    cfg Config
}

func New(cfg Config) *Adapter {
    if cfg.Name == "" { cfg.Name = "BOL" }
    if cfg.Endpoint == "" {
        cfg.Endpoint = "https://www.bol.gov.la/en/ExchangRate.php"
    }
    return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) BuildRequest(date time.Time) source.Request {
    return source.Request{
        Method:  http.MethodPost,
        URL:     a.cfg.Endpoint,
        Fields:  url.Values{"date": {date.Format("02-01-2006")}},
        Headers: a.cfg.Headers,
    }
}

// BOL writes "21.500,00": dot thousands, comma decimal, the opposite of
// BCEL for the same currencies.
func (a *Adapter) Convention() rates.Convention {
    return rates.Convention{DecimalSeparator: ',', Scale: a.cfg.Scale}
}

func (a *Adapter) ParsePayload(raw []byte) ([]rates.RawQuote, error) {
    doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
    if err != nil {
        return nil, fmt.Errorf("%w: %v", source.ErrStructure, err)
    }
    table := doc.Find("table").First()
    if table.Length() == 0 {
        return nil, fmt.Errorf("%w: missing rate table", source.ErrStructure)
    }
    rows := table.Find("tbody tr")
    if rows.Length() == 0 {
        return nil, fmt.Errorf("%w: missing table body", source.ErrStructure)
    }

    var out []rates.RawQuote
    rows.Each(func(_ int, row *goquery.Selection) {
        cells := row.Find("td")
        if cells.Length() < 6 {
            return
        }
        code := strings.ToUpper(strings.TrimSpace(cells.Eq(3).Text()))
        if len(code) != 3 {
            // header or label row
            return
        }
        buy := strings.TrimSpace(cells.Eq(4).Text())
        sell := strings.TrimSpace(cells.Eq(5).Text())
        if (buy == "" || buy == "-") && (sell == "" || sell == "-") {
            return
        }
        out = append(out, rates.RawQuote{Currency: code, BuyText: buy, SellText: sell})
    })
    return out, nil
}
