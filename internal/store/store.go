package store

import (
    "context"
    "fmt"
    "time"

    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"
    gormlogger "gorm.io/gorm/logger"

    "lakrates/internal/rates"
)

// Record is one persisted rate row. The key (currency, rate_type, date,
// bank) is unique; re-fetching the same day overwrites, it never appends.
type Record struct {
    ID        uint      `gorm:"primaryKey" json:"-"`
    Currency  string    `gorm:"size:3;not null;uniqueIndex:idx_rate_key;index:idx_currency" json:"currency"`
    Rate      float64   `gorm:"not null" json:"rate"`
    RateType  string    `gorm:"size:4;not null;uniqueIndex:idx_rate_key" json:"rate_type"`
    Date      string    `gorm:"size:10;not null;uniqueIndex:idx_rate_key;index:idx_date" json:"date"`
    Bank      string    `gorm:"size:16;not null;uniqueIndex:idx_rate_key;index:idx_bank" json:"bank"`
    CreatedAt time.Time `json:"created_at"`
}

func (Record) TableName() string { return "exchange_rates" }

const (
    RateTypeBuy  = "buy"
    RateTypeSell = "sell"
)

// Store persists normalized quotes in a local sqlite file.
type Store struct {
    db *gorm.DB
}

func Open(path string) (*Store, error) {
    db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
        Logger: gormlogger.Default.LogMode(gormlogger.Silent),
    })
    if err != nil {
        return nil, fmt.Errorf("open %s: %w", path, err)
    }
    if err := db.AutoMigrate(&Record{}); err != nil {
        return nil, fmt.Errorf("migrate: %w", err)
    }
    return &Store{db: db}, nil
}

func (s *Store) Close() error {
    sqlDB, err := s.db.DB()
    if err != nil {
        return err
    }
    return sqlDB.Close()
}

// SaveRateSet upserts every present side of every quote. Writes are full
// replaces keyed on (currency, rate_type, date, bank), so repeating a save
// is safe and last write wins. Returns the number of rows written.
func (s *Store) SaveRateSet(ctx context.Context, rs *rates.RateSet) (int, error) {
    var recs []Record
    date := rs.Date.Format("2006-01-02")
    for _, code := range rs.Currencies() {
        q, _ := rs.Get(code)
        if q.Buy != nil {
            recs = append(recs, Record{Currency: code, Rate: *q.Buy, RateType: RateTypeBuy, Date: date, Bank: rs.Bank})
        }
        if q.Sell != nil {
            recs = append(recs, Record{Currency: code, Rate: *q.Sell, RateType: RateTypeSell, Date: date, Bank: rs.Bank})
        }
    }
    if len(recs) == 0 {
        return 0, nil
    }

    err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
        Columns: []clause.Column{
            {Name: "currency"}, {Name: "rate_type"}, {Name: "date"}, {Name: "bank"},
        },
        DoUpdates: clause.AssignmentColumns([]string{"rate", "created_at"}),
    }).Create(&recs).Error
    if err != nil {
        return 0, fmt.Errorf("upsert %s %s: %w", rs.Bank, date, err)
    }
    return len(recs), nil
}

// Filter narrows Query results; zero fields match everything.
type Filter struct {
    Date     string
    Bank     string
    Currency string
}

func (s *Store) Query(ctx context.Context, f Filter) ([]Record, error) {
    q := s.db.WithContext(ctx).Model(&Record{})
    if f.Date != "" {
        q = q.Where("date = ?", f.Date)
    }
    if f.Bank != "" {
        q = q.Where("bank = ?", f.Bank)
    }
    if f.Currency != "" {
        q = q.Where("currency = ?", f.Currency)
    }
    var recs []Record
    err := q.Order("date DESC").Order("bank").Order("currency").Order("rate_type").Find(&recs).Error
    if err != nil {
        return nil, fmt.Errorf("query: %w", err)
    }
    return recs, nil
}

// RateSet rebuilds the persisted RateSet for one bank and date. The second
// return is false when nothing is stored for that key.
func (s *Store) RateSet(ctx context.Context, bank string, date time.Time) (*rates.RateSet, bool, error) {
    day := date.Format("2006-01-02")
    recs, err := s.Query(ctx, Filter{Date: day, Bank: bank})
    if err != nil {
        return nil, false, err
    }
    if len(recs) == 0 {
        return nil, false, nil
    }

    rs := rates.NewRateSet(bank, date, date)
    for _, r := range recs {
        q, _ := rs.Get(r.Currency)
        q.Currency = r.Currency
        switch r.RateType {
        case RateTypeBuy:
            q.Buy = rates.Float(r.Rate)
        case RateTypeSell:
            q.Sell = rates.Float(r.Rate)
        }
        rs.Add(q)
    }
    return rs, true, nil
}
