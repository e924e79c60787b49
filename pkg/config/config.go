package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Scanner struct {
		PollInterval     time.Duration `yaml:"poll_interval" default:"15s" validate:"gt=0"`
		QuoteSuffix      string        `yaml:"quote_suffix" default:"idr" validate:"required"`
		MinVolume        float64       `yaml:"min_volume" default:"1000000" validate:"gte=0"`
		HistoryWindow    int           `yaml:"history_window" default:"40" validate:"gte=2"`
		MaxSignals       int           `yaml:"max_signals" default:"20" validate:"gte=1"`
		PublishThreshold float64       `yaml:"publish_threshold" default:"12"`
		Workers          int           `yaml:"workers" default:"8" validate:"gte=1"`
	} `yaml:"scanner"`
	Indicators struct {
		RSIPeriod       int     `yaml:"rsi_period" default:"14" validate:"gte=2"`
		BandPeriod      int     `yaml:"band_period" default:"20" validate:"gte=2"`
		BandStdDev      float64 `yaml:"band_std_dev" default:"2.0" validate:"gt=0"`
		VolumeSMAPeriod int     `yaml:"volume_sma_period" default:"20" validate:"gte=1"`
	} `yaml:"indicators"`
	Levels struct {
		Scalper LevelPair `yaml:"scalper"`
		Ghost   LevelPair `yaml:"ghost"`
		Normal  LevelPair `yaml:"normal"`
	} `yaml:"levels"`
	Indodax struct {
		BaseURL      string        `yaml:"base_url" default:"https://indodax.com/api" validate:"required,url"`
		UserAgent    string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; PumpScan/1.0)"`
		Timeout      time.Duration `yaml:"timeout" default:"6s" validate:"gt=0"`
		Retries      int           `yaml:"retries" default:"3" validate:"gte=1"`
		RetryBackoff time.Duration `yaml:"retry_backoff" default:"300ms"`
		DepthLevels  int           `yaml:"depth_levels" default:"8" validate:"gte=1"`
		DepthRPS     float64       `yaml:"depth_rps" default:"10" validate:"gt=0"`
	} `yaml:"indodax"`
	OrderbookCache struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis layered"`
		TTL     time.Duration `yaml:"ttl" default:"10s" validate:"gt=0"`
		Redis   struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db" default:"0"`
			Prefix   string `yaml:"prefix" default:"pumpscan"`
		} `yaml:"redis"`
	} `yaml:"orderbook_cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"pumpscan.signals"`
		LogTopic     string   `yaml:"log_topic" default:"pumpscan.logs"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Stream struct {
		Enabled    bool `yaml:"enabled" default:"true"`
		BufferSize int  `yaml:"buffer_size" default:"256" validate:"gte=1"`
	} `yaml:"stream"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
}

// LevelPair holds take-profit and stop-loss multipliers for a levels mode.
// Defaults are per-mode and filled in finalize, so the zero value means
// "absent from the file".
type LevelPair struct {
	TP float64 `yaml:"tp" validate:"gt=0"`
	SL float64 `yaml:"sl" validate:"gt=0"`
}

var validate = validator.New()

// Load reads a YAML configuration file, applies defaults, and validates it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := finalize(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default builds a configuration from struct defaults only (no file).
func Default() (*Config, error) {
	var c Config
	if err := finalize(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func finalize(c *Config) error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	// A zero-valued pair was absent from the file; fill the per-mode default.
	if c.Levels.Scalper == (LevelPair{}) {
		c.Levels.Scalper = LevelPair{TP: 1.035, SL: 0.992}
	}
	if c.Levels.Ghost == (LevelPair{}) {
		c.Levels.Ghost = LevelPair{TP: 1.10, SL: 0.987}
	}
	if c.Levels.Normal == (LevelPair{}) {
		c.Levels.Normal = LevelPair{TP: 1.06, SL: 0.99}
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka.enabled")
	}
	return nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PUMPSCAN_PORT"); v != "" {
		if p, perr := strconv.Atoi(v); perr == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("PUMPSCAN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("INDODAX_BASE_URL"); v != "" {
		c.Indodax.BaseURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		if host, port, ok := strings.Cut(v, ":"); ok {
			if p, perr := strconv.Atoi(port); perr == nil {
				c.OrderbookCache.Redis.Host = host
				c.OrderbookCache.Redis.Port = p
			}
		}
	}

	return c, nil
}

// LevelsFor returns the TP/SL multipliers for the given levels mode.
// Unknown modes fall back to normal.
func (c *Config) LevelsFor(mode string) LevelPair {
	switch mode {
	case "scalper":
		return c.Levels.Scalper
	case "ghost":
		return c.Levels.Ghost
	default:
		return c.Levels.Normal
	}
}
