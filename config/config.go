package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env  string
	Port string

	// HTTP guards
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int

	// Persistence
	StoreDriver    string
	StorePath      string
	StoreNamespace string
	RedisURL       string
	CartTTL        time.Duration
	PostgresDSN    string
	DynamoTable    string
	// PostgresDSNSecret names a Secrets Manager secret holding the DSN.
	PostgresDSNSecret string

	// Pricing and invoicing
	TaxRate             decimal.Decimal
	InvoiceCounterStart int

	MenuPath       string
	ReviewInterval time.Duration

	// Invoice archive; empty bucket disables it.
	InvoiceBucket string
	InvoicePrefix string

	// Order events
	EventsDriver string
	KafkaBrokers []string
	KafkaTopic   string
	SNSTopicARN  string
	SQSQueueURL  string

	// CloudWatch metrics
	MetricsEnabled   bool
	MetricsNamespace string
}

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverDynamo   = "dynamodb"
	DriverPostgres = "postgres"

	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsSNS   = "sns"
	EventsSQS   = "sqs"
)

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8086"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		StorePath:      getEnv("STORE_PATH", "data"),
		StoreNamespace: getEnv("STORE_NAMESPACE", "keytop"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		DynamoTable:    getEnv("DYNAMO_TABLE", "keytop-store"),
		MenuPath:       os.Getenv("MENU_PATH"),
		InvoiceBucket:  os.Getenv("INVOICE_BUCKET"),
		InvoicePrefix:  getEnv("INVOICE_PREFIX", "invoices/"),
		EventsDriver:   strings.ToLower(getEnv("EVENTS_DRIVER", EventsNone)),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "order.finalized"),
		SNSTopicARN:    os.Getenv("SNS_TOPIC_ARN"),
		SQSQueueURL:    os.Getenv("SQS_QUEUE_URL"),

		PostgresDSNSecret: os.Getenv("POSTGRES_DSN_SECRET"),
		MetricsEnabled:    os.Getenv("CLOUDWATCH_ENABLED") == "true",
		MetricsNamespace:  getEnv("CLOUDWATCH_NAMESPACE", "KeytopFresh"),
	}

	cfg.KafkaBrokers = getList("KAFKA_BROKERS", "")
	cfg.AllowedOrigins = getList("ALLOWED_ORIGINS", "*")

	var err error
	if cfg.CartTTL, err = getDuration("CART_TTL", 0); err != nil {
		return Config{}, err
	}
	if cfg.ReviewInterval, err = getDuration("REVIEW_INTERVAL", 4*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.InvoiceCounterStart, err = getInt("INVOICE_COUNTER_START", 100); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 50); err != nil {
		return Config{}, err
	}

	cfg.TaxRate, err = decimal.NewFromString(getEnv("TAX_RATE", "0.15"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TAX_RATE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("TAX_RATE must not be negative")
	}
	if c.InvoiceCounterStart < 0 {
		return fmt.Errorf("INVOICE_COUNTER_START must not be negative")
	}
	if c.ReviewInterval <= 0 {
		return fmt.Errorf("REVIEW_INTERVAL must be positive")
	}

	switch c.StoreDriver {
	case DriverMemory, DriverFile, DriverRedis, DriverDynamo:
	case DriverPostgres:
		if c.PostgresDSN == "" && c.PostgresDSNSecret == "" {
			return fmt.Errorf("POSTGRES_DSN or POSTGRES_DSN_SECRET is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.EventsDriver {
	case EventsNone:
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required for kafka events")
		}
	case EventsSNS:
		if c.SNSTopicARN == "" {
			return fmt.Errorf("SNS_TOPIC_ARN is required for sns events")
		}
	case EventsSQS:
		if c.SQSQueueURL == "" {
			return fmt.Errorf("SQS_QUEUE_URL is required for sqs events")
		}
	default:
		return fmt.Errorf("unknown EVENTS_DRIVER %q", c.EventsDriver)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getList splits a comma-separated variable, dropping empty entries.
func getList(key, defaultVal string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, defaultVal), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
