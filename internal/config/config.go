package config

import (
    "errors"
    "fmt"
    "os"

    "github.com/ilyakaznacheev/cleanenv"
)

type Server struct {
    Port              string `json:"port" env:"PORT"`
    RequestTimeoutSec int    `json:"request_timeout_sec" env:"REQUEST_TIMEOUT_SEC"`
}

// Bank is the per-source configuration: endpoint, static headers and
// credentials passed through to the transport, the minimum interval
// between requests, and the explicit per-currency scale table consumed by
// the normalizer.
type Bank struct {
    Enabled               bool               `json:"enabled"`
    Endpoint              string             `json:"endpoint"`
    Headers               map[string]string  `json:"headers"`
    Username              string             `json:"username"`
    Password              string             `json:"password"`
    MinRequestIntervalSec int                `json:"min_request_interval_sec"`
    Scale                 map[string]float64 `json:"scale"`
}

type Config struct {
    Server    Server `json:"server"`
    DBPath    string `json:"db_path" env:"DB_PATH"`
    LogLevel  string `json:"log_level" env:"LOG_LEVEL"`
    LogFormat string `json:"log_format" env:"LOG_FORMAT"`

    // Recurring non-trading days, MM-DD. Holidays that move year to year
    // are not modeled.
    Holidays []string `json:"holidays"`

    // CurrencyOrder fixes the row order of comparison output; codes not
    // listed sort lexicographically after these.
    CurrencyOrder []string `json:"currency_order"`

    BCEL Bank `json:"bcel"`
    BOL  Bank `json:"bol"`
    LDB  Bank `json:"ldb"`
    APB  Bank `json:"apb"`
    LVB  Bank `json:"lvb"`
}

func Default() Config {
    return Config{
        Server:    Server{Port: "8080", RequestTimeoutSec: 30},
        DBPath:    "exchange_rates.db",
        LogLevel:  "info",
        LogFormat: "text",
        Holidays: []string{
            "01-01", // New Year
            "01-20", // Army Day
            "03-08", // Women's Day
            "04-14", "04-15", "04-16", // Lao New Year
            "05-01", // Labour Day
            "12-02", // National Day
        },
        CurrencyOrder: []string{"USD", "EUR", "THB", "CNY", "JPY", "KRW", "VND", "HKD", "SGD", "AUD", "GBP", "CHF", "CAD"},
        BCEL: Bank{
            Enabled:  true,
            Endpoint: "https://www.bcel.com.la/bcel/detail-exchange-rate",
            Headers: map[string]string{
                "Accept":  "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
                "Referer": "https://www.bcel.com.la/",
            },
            MinRequestIntervalSec: 1,
            // BCEL publishes KRW per 100 units
            Scale: map[string]float64{"KRW": 0.01},
        },
        BOL: Bank{
            Enabled:  true,
            Endpoint: "https://www.bol.gov.la/en/ExchangRate.php",
            Headers: map[string]string{
                "Accept":  "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
                "Referer": "https://www.bol.gov.la/en/ExchangRate.php",
            },
            MinRequestIntervalSec: 1,
        },
        LDB: Bank{
            Enabled:  true,
            Endpoint: "https://vegw.ldblao.la/api/v1/ldb-web/exchange",
            Headers: map[string]string{
                "Accept":  "application/json",
                "Referer": "https://www.ldblao.la/",
                "Origin":  "https://www.ldblao.la",
            },
            Username:              "LdbWebsitePublic",
            Password:              "LDBweb17012024",
            MinRequestIntervalSec: 1,
        },
        APB: Bank{
            Enabled:  true,
            Endpoint: "https://excwebs.apblao.com:40756/api/v1/exchange-rates/history",
            Headers: map[string]string{
                "Accept":  "application/json",
                "Referer": "https://www.apblao.com/",
            },
            MinRequestIntervalSec: 5,
        },
        LVB: Bank{
            Enabled:  true,
            Endpoint: "https://www.laovietbank.com.la/en_US/exchange/exchange-rate.html",
            Headers: map[string]string{
                "Accept":  "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
                "Referer": "https://www.laovietbank.com.la/en_US/exchange/exchange-rate.html",
                "Origin":  "https://www.laovietbank.com.la",
            },
            MinRequestIntervalSec: 1,
        },
    }
}

// Load reads JSON config from path on top of defaults, then applies env
// overrides. An empty path falls back to ./config.json when present, else
// defaults alone.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        if err := cleanenv.ReadConfig(path, &cfg); err != nil {
            if !errors.Is(err, os.ErrNotExist) {
                return cfg, fmt.Errorf("read config %s: %w", path, err)
            }
        }
    } else {
        if err := cleanenv.ReadEnv(&cfg); err != nil {
            return cfg, fmt.Errorf("read env: %w", err)
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

// applyEnv covers per-bank secrets that cannot carry static env tags.
func applyEnv(cfg *Config) {
    if v := os.Getenv("LDB_USERNAME"); v != "" { cfg.LDB.Username = v }
    if v := os.Getenv("LDB_PASSWORD"); v != "" { cfg.LDB.Password = v }
}
