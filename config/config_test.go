package config_test

import (
	"testing"
	"time"

	"github.com/feraszen/keytop-fresh/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("TAX_RATE", "")
	t.Setenv("INVOICE_COUNTER_START", "")
	t.Setenv("REVIEW_INTERVAL", "")
	t.Setenv("EVENTS_DRIVER", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "0.15", cfg.TaxRate.String())
	assert.Equal(t, 100, cfg.InvoiceCounterStart)
	assert.Equal(t, 4*time.Second, cfg.ReviewInterval)
	assert.Equal(t, config.EventsNone, cfg.EventsDriver)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "FILE")
	t.Setenv("STORE_PATH", "/tmp/keytop")
	t.Setenv("TAX_RATE", "0.08")
	t.Setenv("INVOICE_COUNTER_START", "500")
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverFile, cfg.StoreDriver)
	assert.Equal(t, "/tmp/keytop", cfg.StorePath)
	assert.Equal(t, "0.08", cfg.TaxRate.String())
	assert.Equal(t, 500, cfg.InvoiceCounterStart)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"negative tax":    {"TAX_RATE", "-0.1"},
		"garbage tax":     {"TAX_RATE", "fifteen"},
		"bad counter":     {"INVOICE_COUNTER_START", "abc"},
		"bad interval":    {"REVIEW_INTERVAL", "soon"},
		"unknown driver":  {"STORE_DRIVER", "cassandra"},
		"postgres no dsn": {"STORE_DRIVER", "postgres"},
		"sns no topic":    {"EVENTS_DRIVER", "sns"},
		"sqs no queue":    {"EVENTS_DRIVER", "sqs"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("POSTGRES_DSN", "")
			t.Setenv("POSTGRES_DSN_SECRET", "")
			t.Setenv("SNS_TOPIC_ARN", "")
			t.Setenv("SQS_QUEUE_URL", "")
			t.Setenv(kv[0], kv[1])
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
