package lvb

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

// Config controls the LaoVietBank adapter.
type Config struct {
    Name     string
    Endpoint string
    Headers  map[string]string
    Scale    map[string]float64
}

// Adapter scrapes the LaoVietBank exchange-rate page. The site wants a GET
// to prime the session before the dated POST, and stacks several cash-note
// denominations inside one table cell.
type Adapter struct {
    cfg Config
}

func New(cfg Config) *Adapter {
    if cfg.Name == "" { cfg.Name = "LVB" }
    if cfg.Endpoint == "" {
        cfg.Endpoint = "https://www.laovietbank.com.la/en_US/exchange/exchange-rate.html"
    }
    return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) BuildRequest(date time.Time) source.Request {
    return source.Request{
        Method:    http.MethodPost,
        URL:       a.cfg.Endpoint,
        Form:      url.Values{"date": {date.Format("02-01-2006")}},
        Headers:   a.cfg.Headers,
        WarmupURL: a.cfg.Endpoint,
    }
}

// LVB writes "21.500,00": dot thousands, comma decimal.
func (a *Adapter) Convention() rates.Convention {
    return rates.Convention{DecimalSeparator: ',', Scale: a.cfg.Scale}
}

// ParsePayload reads the .table-bordered rate table. USD and EUR carry one
// line per note band in the buy cell; the second line is the canonical
// 50-100 band. Thinly traded currencies may publish a sell price only.
func (a *Adapter) ParsePayload(raw []byte) ([]rates.RawQuote, error) {
    doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
    if err != nil {
        return nil, fmt.Errorf("%w: %v", source.ErrStructure, err)
    }
    table := doc.Find("table.table-bordered").First()
    if table.Length() == 0 {
        return nil, fmt.Errorf("%w: missing rate table", source.ErrStructure)
    }

    var out []rates.RawQuote
    table.Find("tr").Each(func(i int, row *goquery.Selection) {
        // first two rows are the header and the denomination legend
        if i < 2 {
            return
        }
        cells := row.Find("td")
        if cells.Length() < 6 {
            return
        }
        nameText := strings.TrimSpace(cells.Eq(0).Text())
        if !strings.Contains(nameText, "/") {
            return
        }
        code := strings.ToUpper(strings.TrimSpace(strings.SplitN(nameText, "/", 2)[0]))
        if len(code) != 3 {
            return
        }

        buyLines := cellLines(cells.Eq(2))
        sellLines := cellLines(cells.Eq(5))

        var buy, sell string
        if code == "USD" || code == "EUR" {
            if len(buyLines) < 2 {
                return
            }
            buy = buyLines[1]
            if len(sellLines) > 0 {
                sell = sellLines[len(sellLines)-1]
            }
        } else {
            if len(buyLines) > 0 { buy = buyLines[0] }
            if len(sellLines) > 0 { sell = sellLines[0] }
        }
        if (buy == "" || buy == "-") && (sell == "" || sell == "-") {
            return
        }
        out = append(out, rates.RawQuote{Currency: code, BuyText: buy, SellText: sell})
    })
    return out, nil
}

// cellLines splits a multi-denomination cell into trimmed non-empty lines.
func cellLines(cell *goquery.Selection) []string {
    var out []string
    for _, line := range strings.Split(cell.Text(), "\n") {
        line = strings.TrimSpace(line)
        if line != "" && line != "-" {
            out = append(out, line)
        }
    }
    return out
}
