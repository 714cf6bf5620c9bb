// Command server exposes the stored and live exchange rates over HTTP.
package main

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    stdlog "log"
    "log/slog"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "golang.org/x/sync/singleflight"

    "lakrates/internal/banks"
    "lakrates/internal/calendar"
    "lakrates/internal/compare"
    "lakrates/internal/config"
    "lakrates/internal/fetcher"
    "lakrates/internal/httpx"
    "lakrates/internal/logx"
    "lakrates/internal/metrics"
    "lakrates/internal/rates"
    "lakrates/internal/store"
)

type server struct {
    cfg     config.Config
    log     *slog.Logger
    store   *store.Store
    entries []banks.Entry
    cal     *calendar.Calendar
    client  *httpx.Client
    met     *metrics.Metrics

    // coalesces concurrent misses for the same bank and date
    sf singleflight.Group
}

func main() {
    _ = godotenv.Load()

    cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
    if err != nil { stdlog.Fatalf("config: %v", err) }
    log := logx.New(cfg.LogLevel, cfg.LogFormat)

    st, err := store.Open(cfg.DBPath)
    if err != nil { stdlog.Fatalf("store: %v", err) }
    defer st.Close()

    reg := prometheus.NewRegistry()

    s := &server{
        cfg:     cfg,
        log:     log,
        store:   st,
        entries: banks.Build(cfg),
        cal:     calendar.New(cfg.Holidays),
        client:  httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second),
        met:     metrics.New(reg),
    }

    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
    mux.HandleFunc("/rates", s.handleRates)
    mux.HandleFunc("/compare", s.handleCompare)

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           recoverPanic(withJSONHeaders(mux)),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      2 * time.Minute,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Info("server listening", "port", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Error("server", "err", err)
            os.Exit(1)
        }
    }()

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}

type quoteJSON struct {
    Currency string   `json:"currency"`
    Buy      *float64 `json:"buy,omitempty"`
    Sell     *float64 `json:"sell,omitempty"`
}

type ratesResponse struct {
    Bank      string      `json:"bank"`
    Date      string      `json:"date"`
    Requested string      `json:"requested_date"`
    Rates     []quoteJSON `json:"rates"`
}

// handleRates serves GET /rates?bank=BCEL&date=2026-08-28. Date defaults
// to today. Stored data is served as-is; a miss triggers a live fetch that
// is persisted before responding.
func (s *server) handleRates(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    bank := r.URL.Query().Get("bank")
    if bank == "" {
        http.Error(w, "missing bank query param", http.StatusBadRequest)
        return
    }
    date, err := queryDate(r)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }

    rs, err := s.resolve(r.Context(), bank, date)
    if err != nil {
        s.writeFetchError(w, err)
        return
    }
    writeJSON(w, toResponse(rs, date))
}

type compareResponse struct {
    Date      string        `json:"date"`
    Requested string        `json:"requested_date"`
    BankA     string        `json:"bank_a"`
    BankB     string        `json:"bank_b"`
    Rows      []compare.Row `json:"rows"`
}

// handleCompare serves GET /compare?base=BOL&other=BCEL&date=2026-08-28.
// Both sides resolve through the same read-through path as /rates; the
// comparison always joins on the base bank's resolved date.
func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    base := r.URL.Query().Get("base")
    other := r.URL.Query().Get("other")
    if base == "" || other == "" {
        http.Error(w, "missing base or other query param", http.StatusBadRequest)
        return
    }
    if base == other {
        http.Error(w, "base and other must differ", http.StatusBadRequest)
        return
    }
    date, err := queryDate(r)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }

    a, err := s.resolve(r.Context(), base, date)
    if err != nil {
        s.writeFetchError(w, err)
        return
    }
    b, err := s.resolve(r.Context(), other, a.Date)
    if err != nil {
        s.writeFetchError(w, err)
        return
    }

    writeJSON(w, compareResponse{
        Date:      a.Date.Format("2006-01-02"),
        Requested: date.Format("2006-01-02"),
        BankA:     base,
        BankB:     other,
        Rows:      compare.Compare(a, b, s.cfg.CurrencyOrder),
    })
}

// resolve returns the bank's RateSet for date, reading the store first and
// fetching live on a miss. Concurrent misses for the same key share one
// upstream call.
func (s *server) resolve(ctx context.Context, bank string, date time.Time) (*rates.RateSet, error) {
    entry, ok := banks.Find(s.entries, bank)
    if !ok {
        return nil, errUnknownBank(bank)
    }

    if !s.cal.IsTradingDay(date) {
        date = s.cal.PreviousTradingDay(date)
    }
    if rs, found, err := s.store.RateSet(ctx, bank, date); err != nil {
        return nil, err
    } else if found {
        return rs, nil
    }

    key := bank + "|" + date.Format("2006-01-02")
    v, err, _ := s.sf.Do(key, func() (any, error) {
        o := &fetcher.Orchestrator{
            Transport: &fetcher.HTTPTransport{Client: s.client},
            Calendar:  s.cal,
            Gate:      entry.Gate,
            Log:       s.log,
            Metrics:   s.met,
        }
        rs, err := o.FetchForDate(ctx, entry.Adapter, date)
        if err != nil {
            return nil, err
        }
        if n, err := s.store.SaveRateSet(ctx, rs); err != nil {
            s.log.Error("persist failed", "bank", rs.Bank, "err", err)
        } else {
            s.met.Upserted(rs.Bank, n)
        }
        return rs, nil
    })
    if err != nil {
        return nil, err
    }
    return v.(*rates.RateSet), nil
}

type unknownBankError struct{ bank string }

func errUnknownBank(bank string) error    { return &unknownBankError{bank: bank} }
func (e *unknownBankError) Error() string { return "unknown bank: " + e.bank }

func (s *server) writeFetchError(w http.ResponseWriter, err error) {
    var ub *unknownBankError
    var fe *fetcher.Error
    switch {
    case errors.As(err, &ub):
        http.Error(w, ub.Error(), http.StatusNotFound)
    case errors.As(err, &fe) && fe.Kind == fetcher.KindNoData:
        http.Error(w, fe.Error(), http.StatusNotFound)
    case errors.As(err, &fe):
        http.Error(w, fe.Error(), http.StatusBadGateway)
    default:
        s.log.Error("request failed", "err", err)
        http.Error(w, "internal server error", http.StatusInternalServerError)
    }
}

// toResponse renders a RateSet against the date the client actually asked
// for. The RateSet's own Requested may already be pre-shifted by resolve,
// so the handler's raw query date is authoritative here.
func toResponse(rs *rates.RateSet, requested time.Time) ratesResponse {
    resp := ratesResponse{
        Bank:      rs.Bank,
        Date:      rs.Date.Format("2006-01-02"),
        Requested: requested.Format("2006-01-02"),
    }
    for _, code := range rs.Currencies() {
        q, _ := rs.Get(code)
        resp.Rates = append(resp.Rates, quoteJSON{Currency: code, Buy: q.Buy, Sell: q.Sell})
    }
    return resp
}

func queryDate(r *http.Request) (time.Time, error) {
    raw := r.URL.Query().Get("date")
    if raw == "" {
        return time.Now(), nil
    }
    d, err := time.Parse("2006-01-02", raw)
    if err != nil {
        return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
    }
    return d, nil
}

func writeJSON(w http.ResponseWriter, v any) {
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/metrics" {
            w.Header().Set("Content-Type", "application/json; charset=utf-8")
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
