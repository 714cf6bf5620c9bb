package main

import (
    "context"
    "flag"
    "fmt"
    "io"
    "log"
    "os"
    "strconv"
    "sync"
    "time"

    "github.com/joho/godotenv"
    "github.com/olekukonko/tablewriter"
    "golang.org/x/sync/errgroup"

    "lakrates/internal/banks"
    "lakrates/internal/calendar"
    "lakrates/internal/compare"
    "lakrates/internal/config"
    "lakrates/internal/fetcher"
    "lakrates/internal/httpx"
    "lakrates/internal/logx"
    "lakrates/internal/rates"
    "lakrates/internal/store"
)

func main() {
    _ = godotenv.Load()

    var dateStr string
    var configPath string
    var dbPath string
    var base string
    var noSave bool

    flag.StringVar(&dateStr, "date", getenv("FETCH_DATE", ""), "date to fetch, YYYY-MM-DD (default today)")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.StringVar(&dbPath, "db", "", "sqlite database path (overrides config)")
    flag.StringVar(&base, "base", getenv("BASE_BANK", "BOL"), "bank the comparison table uses as baseline")
    flag.BoolVar(&noSave, "no-save", false, "fetch and print without persisting")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if dbPath != "" { cfg.DBPath = dbPath }

    logger := logx.New(cfg.LogLevel, cfg.LogFormat)

    date := time.Now()
    if dateStr != "" {
        date, err = time.Parse("2006-01-02", dateStr)
        if err != nil { log.Fatalf("invalid --date %q: %v", dateStr, err) }
    }

    entries := banks.Build(cfg)
    if len(entries) == 0 { log.Fatal("no banks enabled") }

    var st *store.Store
    if !noSave {
        st, err = store.Open(cfg.DBPath)
        if err != nil { log.Fatalf("store: %v", err) }
        defer st.Close()
    }

    transport := &fetcher.HTTPTransport{
        Client: httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second),
    }
    cal := calendar.New(cfg.Holidays)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
    defer cancel()

    var mu sync.Mutex
    results := make(map[string]*rates.RateSet)

    g, gctx := errgroup.WithContext(ctx)
    for _, e := range entries {
        e := e
        g.Go(func() error {
            o := &fetcher.Orchestrator{
                Transport: transport,
                Calendar:  cal,
                Gate:      e.Gate,
                Log:       logger,
            }
            rs, err := o.FetchForDate(gctx, e.Adapter, date)
            if err != nil {
                // one bank down should not abort the rest
                logger.Error("fetch failed", "bank", e.Adapter.Name(), "err", err)
                return nil
            }
            if st != nil {
                n, err := st.SaveRateSet(gctx, rs)
                if err != nil {
                    logger.Error("persist failed", "bank", rs.Bank, "err", err)
                } else {
                    logger.Info("saved", "bank", rs.Bank, "date", rs.Date.Format("2006-01-02"), "rows", n)
                }
            }
            mu.Lock()
            results[e.Adapter.Name()] = rs
            mu.Unlock()
            return nil
        })
    }
    _ = g.Wait()

    if len(results) == 0 {
        log.Fatal("all banks failed")
    }

    for _, rs := range results {
        if rs.ResolvedEarlier() {
            fmt.Printf("note: %s had no data for %s, showing %s\n",
                rs.Bank, rs.Requested.Format("2006-01-02"), rs.Date.Format("2006-01-02"))
        }
    }

    printComparisons(os.Stdout, results, entries, base, cfg.CurrencyOrder)
}

// printComparisons renders one table per non-baseline bank. With the
// baseline missing it falls back to the first bank that answered; with no
// comparison partner at all it still prints the lone bank's rates.
func printComparisons(w io.Writer, results map[string]*rates.RateSet, entries []banks.Entry, base string, order []string) {
    baseSet, ok := results[base]
    if !ok {
        for _, e := range entries {
            if rs, found := results[e.Adapter.Name()]; found {
                base, baseSet = e.Adapter.Name(), rs
                break
            }
        }
    }
    if baseSet == nil {
        return
    }

    printed := false
    for _, e := range entries {
        name := e.Adapter.Name()
        if name == base {
            continue
        }
        rs, found := results[name]
        if !found {
            continue
        }
        rows := compare.Compare(baseSet, rs, order)

        fmt.Fprintf(w, "\n%s vs %s (%s)\n", base, name, baseSet.Date.Format("2006-01-02"))
        t := tablewriter.NewWriter(w)
        t.SetHeader([]string{"Currency", "Type", base, name, "Diff", "Diff %"})
        for _, r := range rows {
            t.Append([]string{
                r.Currency,
                r.RateType,
                cell(r.A, 2),
                cell(r.B, 2),
                cell(r.Diff, 2),
                cell(r.Percent, 3),
            })
        }
        t.Render()
        printed = true
    }
    if !printed {
        printRates(w, baseSet)
    }
}

func printRates(w io.Writer, rs *rates.RateSet) {
    fmt.Fprintf(w, "\n%s (%s)\n", rs.Bank, rs.Date.Format("2006-01-02"))
    t := tablewriter.NewWriter(w)
    t.SetHeader([]string{"Currency", "Buy", "Sell"})
    for _, code := range rs.Currencies() {
        q, _ := rs.Get(code)
        t.Append([]string{code, cell(q.Buy, 2), cell(q.Sell, 2)})
    }
    t.Render()
}

func cell(v *float64, prec int) string {
    if v == nil {
        return "N/A"
    }
    return strconv.FormatFloat(*v, 'f', prec, 64)
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
