package apb

import (
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "lakrates/internal/rates"
    "lakrates/internal/source"
)

// Config controls the Agricultural Promotion Bank adapter.
type Config struct {
    Name     string
    Endpoint string
    Headers  map[string]string
    Scale    map[string]float64
}

// Adapter talks to the APB history API: POST JSON body, JSON array back.
type Adapter struct {
    cfg Config
}

func New(cfg Config) *Adapter {
    if cfg.Name == "" { cfg.Name = "APB" }
    if cfg.Endpoint == "" {
        cfg.Endpoint = "https://excwebs.apblao.com:40756/api/v1/exchange-rates/history"
    }
    return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) BuildRequest(date time.Time) source.Request {
    headers := map[string]string{"Accept": "application/json"}
    for k, v := range a.cfg.Headers {
        headers[k] = v
    }
    return source.Request{
        Method: http.MethodPost,
        URL:    a.cfg.Endpoint,
        JSON: map[string]string{
            "type": "one",
            "date": date.Format("02/01/2006"),
        },
        Headers: headers,
    }
}

// APB writes "21,500": comma thousands, dot decimal.
func (a *Adapter) Convention() rates.Convention {
    return rates.Convention{DecimalSeparator: '.', Scale: a.cfg.Scale}
}

type row struct {
    Ccy  string  `json:"ccy"`
    Buy  numText `json:"buy"`
    Sale numText `json:"sale"`
}

type numText string

func (n *numText) UnmarshalJSON(b []byte) error {
    s := strings.TrimSpace(string(b))
    if s == "null" {
        *n = ""
        return nil
    }
    *n = numText(strings.Trim(s, `"`))
    return nil
}

func (a *Adapter) ParsePayload(raw []byte) ([]rates.RawQuote, error) {
    var rws []row
    if err := json.Unmarshal(raw, &rws); err != nil {
        return nil, fmt.Errorf("%w: %v", source.ErrStructure, err)
    }

    var out []rates.RawQuote
    for _, r := range rws {
        code := strings.ToUpper(strings.TrimSpace(r.Ccy))
        if len(code) != 3 {
            continue
        }
        buy := string(r.Buy)
        sell := string(r.Sale)
        if buy == "" && sell == "" {
            continue
        }
        out = append(out, rates.RawQuote{Currency: code, BuyText: buy, SellText: sell})
    }
    return out, nil
}
