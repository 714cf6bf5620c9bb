package main

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "lakrates/internal/banks"
    "lakrates/internal/calendar"
    "lakrates/internal/config"
    "lakrates/internal/httpx"
    "lakrates/internal/logx"
    "lakrates/internal/rates"
    "lakrates/internal/store"
)

func newTestServer(t *testing.T) *server {
    t.Helper()
    st, err := store.Open(":memory:")
    if err != nil {
        t.Fatalf("store: %v", err)
    }
    t.Cleanup(func() { _ = st.Close() })

    cfg := config.Default()
    return &server{
        cfg:     cfg,
        log:     logx.New("error", "text"),
        store:   st,
        entries: banks.Build(cfg),
        cal:     calendar.New(cfg.Holidays),
        client:  httpx.New(time.Second),
    }
}

func seed(t *testing.T, s *server, bank string, day time.Time, quotes ...rates.Quote) {
    t.Helper()
    rs := rates.NewRateSet(bank, day, day)
    for _, q := range quotes {
        rs.Add(q)
    }
    if _, err := s.store.SaveRateSet(context.Background(), rs); err != nil {
        t.Fatalf("seed %s: %v", bank, err)
    }
}

func TestHandleRates_SundayRequestKeepsClientDate(t *testing.T) {
    s := newTestServer(t)
    friday := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
    seed(t, s, "BCEL", friday,
        rates.Quote{Currency: "USD", Buy: rates.Float(21500), Sell: rates.Float(21650)})

    req := httptest.NewRequest(http.MethodGet, "/rates?bank=BCEL&date=2026-08-30", nil)
    rec := httptest.NewRecorder()
    s.handleRates(rec, req)

    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
    }
    var resp ratesResponse
    if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if resp.Requested != "2026-08-30" {
        t.Fatalf("requested_date = %s, want the client's Sunday", resp.Requested)
    }
    if resp.Date != "2026-08-28" {
        t.Fatalf("date = %s, want the resolved Friday", resp.Date)
    }
    if len(resp.Rates) != 1 || resp.Rates[0].Currency != "USD" {
        t.Fatalf("rates = %+v", resp.Rates)
    }
}

func TestHandleRates_UnknownBank(t *testing.T) {
    s := newTestServer(t)

    req := httptest.NewRequest(http.MethodGet, "/rates?bank=NOPE&date=2026-08-28", nil)
    rec := httptest.NewRecorder()
    s.handleRates(rec, req)

    if rec.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404", rec.Code)
    }
}

func TestHandleCompare_SurfacesRequestedAndResolvedDates(t *testing.T) {
    s := newTestServer(t)
    friday := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
    seed(t, s, "BOL", friday,
        rates.Quote{Currency: "USD", Buy: rates.Float(21500)})
    seed(t, s, "BCEL", friday,
        rates.Quote{Currency: "USD", Buy: rates.Float(21400)})

    req := httptest.NewRequest(http.MethodGet, "/compare?base=BOL&other=BCEL&date=2026-08-30", nil)
    rec := httptest.NewRecorder()
    s.handleCompare(rec, req)

    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
    }
    var resp compareResponse
    if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if resp.Requested != "2026-08-30" || resp.Date != "2026-08-28" {
        t.Fatalf("dates = %s/%s, want 2026-08-30 requested, 2026-08-28 resolved", resp.Requested, resp.Date)
    }
    if len(resp.Rows) != 1 || *resp.Rows[0].Diff != -100 {
        t.Fatalf("rows = %+v", resp.Rows)
    }
}
