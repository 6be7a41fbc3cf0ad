package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddr      = "127.0.0.1:5555"
	defaultStaticDir       = "./frontend/public/"
	defaultAPIURL          = "https://www.esologs.com/api/v2/client"
	defaultTokenURL        = "https://www.esologs.com/oauth/token"
	defaultTimeout         = 1 * time.Minute
	defaultMaxRetries      = 3
	defaultRetryDelay      = 3 * time.Second
	defaultFetchWorkers    = 4
	defaultCacheDirectory  = "./_cachedata"
	defaultResultTTL       = 1 * time.Hour
	defaultWeaveGap        = 1 * time.Second
	defaultOpenerLength    = 5
	defaultAnalysisWorkers = 4
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultLogDirectory    = "log"
	defaultLogFilename     = "esologs_check.log"
	defaultLogMaxSizeMB    = 100
	defaultLogMaxBackups   = 3
	defaultLogMaxAgeDays   = 7

	envPrefix = "ESOCHECK"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	ESOLogs   ESOLogsConfig   `mapstructure:"esologs"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Log       LogConfig       `mapstructure:"log"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Recaptcha RecaptchaConfig `mapstructure:"recaptcha"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"staticDir"`
}

type ESOLogsConfig struct {
	ClientID     string        `mapstructure:"clientID"`
	ClientSecret string        `mapstructure:"clientSecret"`
	APIURL       string        `mapstructure:"apiURL"`
	TokenURL     string        `mapstructure:"tokenURL"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"maxRetries"`
	RetryDelay   time.Duration `mapstructure:"retryDelay"`
	Workers      int           `mapstructure:"workers"`
	Proxy        string        `mapstructure:"proxy"`
}

type CacheConfig struct {
	Directory string        `mapstructure:"directory"`
	ResultTTL time.Duration `mapstructure:"resultTTL"`
	EventTTL  time.Duration `mapstructure:"eventTTL"` // 0 keeps pages forever
}

type AnalysisConfig struct {
	WeaveGap     time.Duration `mapstructure:"weaveGap"`
	OpenerLength int           `mapstructure:"openerLength"`
	Workers      int           `mapstructure:"workers"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // megabytes
	MaxBackups         int    `mapstructure:"maxBackups"`
	MaxAge             int    `mapstructure:"maxAge"` // days
	Compress           bool   `mapstructure:"compress"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RecaptchaConfig struct {
	Secret string `mapstructure:"secret"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Load reads .env, then the optional config file, then ESOCHECK_* environment variables.
// An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	configureViper(v)
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w: %s", ErrReadingConfigFile, configPath)
			}
			return nil, fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func configureViper(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// every key needs a default so AutomaticEnv can find it during Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", defaultServerAddr)
	v.SetDefault("server.staticDir", defaultStaticDir)

	v.SetDefault("esologs.clientID", "")
	v.SetDefault("esologs.clientSecret", "")
	v.SetDefault("esologs.apiURL", defaultAPIURL)
	v.SetDefault("esologs.tokenURL", defaultTokenURL)
	v.SetDefault("esologs.timeout", defaultTimeout)
	v.SetDefault("esologs.maxRetries", defaultMaxRetries)
	v.SetDefault("esologs.retryDelay", defaultRetryDelay)
	v.SetDefault("esologs.workers", defaultFetchWorkers)
	v.SetDefault("esologs.proxy", "")

	v.SetDefault("cache.directory", defaultCacheDirectory)
	v.SetDefault("cache.resultTTL", defaultResultTTL)
	v.SetDefault("cache.eventTTL", time.Duration(0))

	v.SetDefault("analysis.weaveGap", defaultWeaveGap)
	v.SetDefault("analysis.openerLength", defaultOpenerLength)
	v.SetDefault("analysis.workers", defaultAnalysisWorkers)

	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", false)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", false)

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("recaptcha.secret", "")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "")
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return ErrInvalidServerAddress
	}
	if cfg.Analysis.WeaveGap <= 0 {
		return ErrInvalidWeaveGap
	}
	if cfg.Analysis.OpenerLength < 1 {
		return ErrInvalidOpenerLength
	}
	if cfg.ESOLogs.MaxRetries < 1 {
		return ErrInvalidRetries
	}
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic == "" {
		return ErrEmptyKafkaTopic
	}
	return nil
}

// RequireCredentials is checked only by commands that talk to esologs.com.
func (c *Config) RequireCredentials() error {
	if c.ESOLogs.ClientID == "" || c.ESOLogs.ClientSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}
