package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Postgres    Postgres
	Redis       Redis
	API         API
	Cache       Cache
	Jobs        Jobs
	Market      Market
	Telegram    Telegram
	GoogleDrive GoogleDrive
}

type Postgres struct {
	Host            string        `env:"PG_HOST"`
	Port            int           `env:"PG_PORT"`
	DbName          string        `env:"PG_DB_NAME"`
	Password        string        `env:"PG_PASSWORD"`
	User            string        `env:"PG_USER"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"5m"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"1m"`
	ConnAttempts    int           `env:"PG_CONN_ATTEMPTS" envDefault:"10"`
	MigrationDir    string        `env:"PG_MIGRATION_DIR" envDefault:"migrations"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type API struct {
	Debug   bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	Yahoo   Yahoo
	Fmp     Fmp
	Quotes  Quotes
}

type Yahoo struct {
	Url       string `env:"YAHOO_API_URL" envDefault:"https://query2.finance.yahoo.com"`
	UserAgent string `env:"YAHOO_USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) finance-tracker/1.0"`
}

type Fmp struct {
	Url           string `env:"FMP_API_URL" envDefault:"https://financialmodelingprep.com"`
	ApiKey        string `env:"FMP_API_KEY" envDefault:""`
	QuoteFallback bool   `env:"FMP_QUOTE_FALLBACK" envDefault:"false"`
}

type Quotes struct {
	Concurrency int     `env:"API_QUOTE_CONCURRENCY" envDefault:"4"`
	RPS         float64 `env:"API_QUOTE_RPS" envDefault:"5"`
	Burst       int     `env:"API_QUOTE_BURST" envDefault:"5"`
}

type Cache struct {
	Backend          string        `env:"CACHE_BACKEND" envDefault:"redis"`
	QuotesExpiration time.Duration `env:"CACHE_QUOTES_EXPIRATION" envDefault:"15m"`
	FXExpiration     time.Duration `env:"CACHE_FX_EXPIRATION" envDefault:"1h"`
}

type Jobs struct {
	UpdatePricesInterval     time.Duration `env:"UPDATE_PRICES_JOB_INTERVAL" envDefault:"5m"`
	IntradaySnapshotInterval time.Duration `env:"INTRADAY_SNAPSHOT_JOB_INTERVAL" envDefault:"5m"`
	EODSnapshotCrontab       string        `env:"EOD_SNAPSHOT_JOB_CRONTAB" envDefault:"30 16 * * 1-5"`
	SectorsCrontab           string        `env:"SECTORS_JOB_CRONTAB" envDefault:"0 6 * * *"`
	CleanupReportsCrontab    string        `env:"CLEANUP_REPORTS_JOB_CRONTAB" envDefault:"0 3 * * *"`
	RetryCount               int           `env:"JOB_RETRY_COUNT" envDefault:"3"`
	RetryDelay               time.Duration `env:"JOB_RETRY_DELAY" envDefault:"60s"`
}

type Market struct {
	Timezone           string        `env:"MARKET_TIMEZONE" envDefault:"America/Toronto"`
	WindowStartHour    int           `env:"MARKET_WINDOW_START" envDefault:"8"`
	WindowEndHour      int           `env:"MARKET_WINDOW_END" envDefault:"21"`
	ExtraHolidays      []string      `env:"MARKET_EXTRA_HOLIDAYS" envSeparator:"," envDefault:""`
	HomeCurrency       string        `env:"HOME_CURRENCY" envDefault:"CAD"`
	FXPair             string        `env:"FX_PAIR" envDefault:"USDCAD"`
	FXSymbol           string        `env:"FX_SYMBOL" envDefault:"USDCAD=X"`
	FXFallbackRate     float64       `env:"FX_FALLBACK_RATE" envDefault:"1.37"`
	StalenessThreshold time.Duration `env:"PRICE_STALENESS_THRESHOLD" envDefault:"30m"`
}

type Telegram struct {
	Token       string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout  time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	AdminChatID int64         `env:"TELEGRAM_ADMIN_CHAT_ID" envDefault:"0"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FolderID        string        `env:"GOOGLE_DRIVE_FOLDER_ID" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"168h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
