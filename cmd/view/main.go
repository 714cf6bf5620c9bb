// Command view prints stored exchange rates from the local database.
package main

import (
    "context"
    "flag"
    "fmt"
    "log"
    "os"
    "strconv"
    "time"

    "github.com/joho/godotenv"
    "github.com/olekukonko/tablewriter"

    "lakrates/internal/config"
    "lakrates/internal/store"
)

func main() {
    _ = godotenv.Load()

    var configPath string
    var dbPath string
    var f store.Filter

    flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
    flag.StringVar(&dbPath, "db", "", "sqlite database path (overrides config)")
    flag.StringVar(&f.Date, "date", "", "only this date, YYYY-MM-DD")
    flag.StringVar(&f.Bank, "bank", "", "only this bank")
    flag.StringVar(&f.Currency, "currency", "", "only this currency code")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if dbPath != "" { cfg.DBPath = dbPath }

    st, err := store.Open(cfg.DBPath)
    if err != nil { log.Fatalf("store: %v", err) }
    defer st.Close()

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    recs, err := st.Query(ctx, f)
    if err != nil { log.Fatalf("query: %v", err) }
    if len(recs) == 0 {
        fmt.Println("no rates stored for that filter")
        return
    }

    // one table per (date, bank), newest date first
    for i := 0; i < len(recs); {
        date, bank := recs[i].Date, recs[i].Bank
        j := i
        for j < len(recs) && recs[j].Date == date && recs[j].Bank == bank {
            j++
        }

        fmt.Printf("\n%s  %s  (%d rows)\n", date, bank, j-i)
        t := tablewriter.NewWriter(os.Stdout)
        t.SetHeader([]string{"Currency", "Type", "Rate (LAK)", "Stored At"})
        for _, r := range recs[i:j] {
            t.Append([]string{
                r.Currency,
                r.RateType,
                strconv.FormatFloat(r.Rate, 'f', 2, 64),
                r.CreatedAt.Format("2006-01-02 15:04:05"),
            })
        }
        t.Render()
        i = j
    }
}
