package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"etfpanel/internal/db"
	"etfpanel/internal/telemetry"
	"etfpanel/internal/util"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configByte []byte

const (
	envPrefix     = "ETFPANEL_"
	keyEnv        = envPrefix + "CONFIG_KEY"
	encPrefix     = "enc:"
	defaultJwtTTL = 24 * time.Hour
	serviceName   = "etfpanel"
)

type Config struct {
	Log string `yaml:"log"`
	Env string `yaml:"env"`
	App struct {
		Port         int    `yaml:"port"`
		JwtKey       string `yaml:"jwtkey"`
		JwtExpiry    string `yaml:"jwtexpiry"`
		AllowOrigins string `yaml:"allowOrigins"`
	} `yaml:"app"`

	Db struct {
		User     string `yaml:"user"`
		Password string `yaml:"pwd"`
		IP       string `yaml:"ip"`
		Port     string `yaml:"port"`
		Scheme   string `yaml:"scheme"`
	} `yaml:"db"`

	Redis struct {
		Enabled    bool   `yaml:"enabled"`
		IP         string `yaml:"ip"`
		Port       string `yaml:"port"`
		Password   string `yaml:"pwd"`
		DB         int    `yaml:"db"`
		Prefix     string `yaml:"prefix"`
		CatalogTTL string `yaml:"catalogTTL"`
	} `yaml:"redis"`

	Jobs struct {
		CategoryCount string `yaml:"categoryCount"`
	} `yaml:"jobs"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		Endpoint    string  `yaml:"endpoint"`
		Insecure    bool    `yaml:"insecure"`
		SampleRatio float64 `yaml:"sampleRatio"`
	} `yaml:"tracing"`
}

// NewConfig reads the embedded yaml, then a .env file when present, then ETFPANEL_* variables.
func NewConfig() (*Config, error) {
	return load(configByte)
}

func load(raw []byte) (*Config, error) {

	var conf Config = Config{}

	err := yaml.Unmarshal(raw, &conf)
	if err != nil {
		return nil, fmt.Errorf("config.yaml 파싱 실패. %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(".env 로드 실패. %w", err)
	}

	if err := conf.override(); err != nil {
		return nil, err
	}

	if err := decode(&conf, os.Getenv(keyEnv)); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) override() error {
	str := map[string]*string{
		"ENV":            &c.Env,
		"LOG":            &c.Log,
		"DB_USER":        &c.Db.User,
		"DB_PASSWORD":    &c.Db.Password,
		"DB_HOST":        &c.Db.IP,
		"DB_PORT":        &c.Db.Port,
		"DB_NAME":        &c.Db.Scheme,
		"JWT_SECRET":     &c.App.JwtKey,
		"JWT_EXPIRES_IN": &c.App.JwtExpiry,
		"CORS_ORIGIN":    &c.App.AllowOrigins,
		"REDIS_PASSWORD": &c.Redis.Password,
	}
	for k, p := range str {
		if v, ok := os.LookupEnv(envPrefix + k); ok {
			*p = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT must be a number. %w", envPrefix, err)
		}
		c.App.Port = port
	}

	if v, ok := os.LookupEnv(envPrefix + "REDIS_ADDR"); ok {
		host, port, found := strings.Cut(v, ":")
		if !found {
			return fmt.Errorf("%sREDIS_ADDR must be host:port, got %q", envPrefix, v)
		}
		c.Redis.IP, c.Redis.Port, c.Redis.Enabled = host, port, true
	}

	if v, ok := os.LookupEnv(envPrefix + "OTLP_ENDPOINT"); ok {
		c.Tracing.Endpoint, c.Tracing.Enabled = v, v != ""
	}
	return nil
}

func (c Config) LogLevel() (zerolog.Level, error) {

	level, err := zerolog.ParseLevel(c.Log)
	if err != nil {
		return zerolog.InfoLevel, err // Default로는 Info 레벨 설정
	}

	return level, nil
}

func (c Config) Production() bool {
	return c.Env == "production"
}

// JwtExpiry accepts Go durations ("12h") and day counts ("7d").
func (c Config) JwtExpiry() (time.Duration, error) {
	return parseDuration(c.App.JwtExpiry, defaultJwtTTL)
}

func (c Config) CatalogTTL() (time.Duration, error) {
	return parseDuration(c.Redis.CatalogTTL, 0)
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q. %w", s, err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q. %w", s, err)
	}
	return d, nil
}

func (c Config) MysqlConfig() *db.MysqlConfig {
	return db.NewMysqlConfig(c.Db.User, c.Db.Password, c.Db.IP, c.Db.Port, c.Db.Scheme, !c.Production() && c.Log == "debug")
}

func (c Config) TracingConfig() telemetry.TracingConfig {
	return telemetry.TracingConfig{
		Enabled:     c.Tracing.Enabled,
		Endpoint:    c.Tracing.Endpoint,
		Insecure:    c.Tracing.Insecure,
		SampleRatio: c.Tracing.SampleRatio,
		ServiceName: serviceName,
		Env:         c.Env,
	}
}

func (c Config) RedisConfig() *db.RedisConfig {
	return db.NewRedisConfig(c.Redis.Enabled, c.Redis.Password, c.Redis.IP, c.Redis.Port, c.Redis.DB, c.Redis.Prefix)
}

// decode replaces "enc:<hex>" secrets with their AES plaintext.
func decode(conf *Config, key string) error {
	secrets := []*string{&conf.Db.Password, &conf.App.JwtKey, &conf.Redis.Password}

	for _, s := range secrets {
		cipherText, ok := strings.CutPrefix(*s, encPrefix)
		if !ok {
			continue
		}
		if key == "" {
			return fmt.Errorf("encrypted config value found but %s is not set", keyEnv)
		}
		plain, err := util.Decrypt([]byte(key), cipherText)
		if err != nil {
			return fmt.Errorf("config 복호화 실패. %w", err)
		}
		*s = plain
	}
	return nil
}
