package ldb

import (
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "lakrates/internal/rates"
    "lakrates/internal/source"
)

// Config controls the Lao Development Bank adapter. The public web API
// sits behind static basic-auth credentials that are passed through to the
// transport untouched.
type Config struct {
    Name     string
    Endpoint string
    Headers  map[string]string
    Username string
    Password string
    Scale    map[string]float64
}

type Adapter struct {
    cfg Config
}

func New(cfg Config) *Adapter {
    if cfg.Name == "" { cfg.Name = "LDB" }
    if cfg.Endpoint == "" {
        cfg.Endpoint = "https://vegw.ldblao.la/api/v1/ldb-web/exchange"
    }
    return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) BuildRequest(date time.Time) source.Request {
    headers := map[string]string{"Accept": "application/json, text/plain, */*"}
    for k, v := range a.cfg.Headers {
        headers[k] = v
    }
    return source.Request{
        Method:   http.MethodGet,
        URL:      strings.TrimRight(a.cfg.Endpoint, "/") + "/bydate/" + date.Format("02-01-2006"),
        Headers:  headers,
        Username: a.cfg.Username,
        Password: a.cfg.Password,
    }
}

func (a *Adapter) Convention() rates.Convention {
    return rates.Convention{DecimalSeparator: '.', Scale: a.cfg.Scale}
}

type payload struct {
    Status       bool   `json:"status"`
    Message      string `json:"message"`
    DataResponse []struct {
        FxBuy    numText `json:"fx_buy"`
        FxSell   numText `json:"fx_sell"`
        FxDetail struct {
            TypeNameEng string `json:"fxd_type_name_eng"`
        } `json:"fx_detail"`
    } `json:"dataResponse"`
}

// numText keeps the wire value as text whether the API sends it as a JSON
// number or a quoted string; normalization happens downstream.
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
    var p payload
    if err := json.Unmarshal(raw, &p); err != nil {
        return nil, fmt.Errorf("%w: %v", source.ErrStructure, err)
    }
    if !p.Status {
        return nil, fmt.Errorf("%w: api error: %s", source.ErrStructure, p.Message)
    }

    var out []rates.RawQuote
    for _, item := range p.DataResponse {
        code := strings.ToUpper(strings.TrimSpace(item.FxDetail.TypeNameEng))
        if len(code) < 3 {
            continue
        }
        code = code[:3]
        buy := string(item.FxBuy)
        sell := string(item.FxSell)
        if buy == "" && sell == "" {
            continue
        }
        out = append(out, rates.RawQuote{Currency: code, BuyText: buy, SellText: sell})
    }
    return out, nil
}
