package source

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "mime/multipart"
    "net/http"
    "net/url"
    "strings"
    "time"

    "lakrates/internal/rates"
)

// ErrStructure means the whole payload lacked the expected table or JSON
// root. Individual malformed rows are skipped by adapters, never escalated.
var ErrStructure = errors.New("payload structure not recognized")

// Request describes one source-specific wire call. Each bank encodes the
// date in its own string format and transport verb; adapters must preserve
// their source's format exactly.
type Request struct {
    Method  string
    URL     string
    Query   url.Values
    Form    url.Values        // urlencoded body
    Fields  url.Values        // multipart form fields
    JSON    any               // JSON body
    Headers map[string]string

    // Static credentials, passed through to the transport.
    Username string
    Password string

    // WarmupURL is GET'd before the real request for sources that require
    // a primed session.
    WarmupURL string
}

// Adapter is the per-bank capability set: build the source's request for a
// date, parse its payload into raw quotes, and declare its text convention.
type Adapter interface {
    Name() string
    BuildRequest(date time.Time) Request
    ParsePayload(raw []byte) ([]rates.RawQuote, error)
    Convention() rates.Convention
}

// HTTPRequest materializes r. Safe to call once per transport attempt; the
// body is rebuilt from the declarative fields each time.
func (r Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
    method := r.Method
    if method == "" {
        method = http.MethodGet
    }

    var body *bytes.Reader
    contentType := ""
    switch {
    case r.JSON != nil:
        b, err := json.Marshal(r.JSON)
        if err != nil {
            return nil, fmt.Errorf("encode body: %w", err)
        }
        body = bytes.NewReader(b)
        contentType = "application/json"
    case len(r.Fields) > 0:
        var buf bytes.Buffer
        mw := multipart.NewWriter(&buf)
        for k, vs := range r.Fields {
            for _, v := range vs {
                if err := mw.WriteField(k, v); err != nil {
                    return nil, fmt.Errorf("encode field %s: %w", k, err)
                }
            }
        }
        if err := mw.Close(); err != nil {
            return nil, err
        }
        body = bytes.NewReader(buf.Bytes())
        contentType = mw.FormDataContentType()
    case len(r.Form) > 0:
        body = bytes.NewReader([]byte(r.Form.Encode()))
        contentType = "application/x-www-form-urlencoded"
    default:
        body = bytes.NewReader(nil)
    }

    u := r.URL
    if len(r.Query) > 0 {
        sep := "?"
        if strings.Contains(u, "?") { sep = "&" }
        u += sep + r.Query.Encode()
    }

    req, err := http.NewRequestWithContext(ctx, method, u, body)
    if err != nil {
        return nil, err
    }
    if contentType != "" {
        req.Header.Set("Content-Type", contentType)
    }
    for k, v := range r.Headers {
        req.Header.Set(k, v)
    }
    if r.Username != "" {
        req.SetBasicAuth(r.Username, r.Password)
    }
    return req, nil
}
