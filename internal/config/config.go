package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

type Config struct {
	DB       DBConfig      `mapstructure:"db"`
	JWT      JWTConfig     `mapstructure:"jwt"`
	Storage  StorageConfig `mapstructure:"storage"`
	CORS     CORSConfig    `mapstructure:"cors"`
	AppHost  string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	LogLevel string        `mapstructure:"log_level"`
}

type DBConfig struct {
	Source  string        `mapstructure:"source"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// StorageConfig selects and configures the object store. Driver is "s3"
// (AWS or any S3 compatible endpoint such as LocalStack) or "local".
type StorageConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Bucket          string        `mapstructure:"bucket"`
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	CreateBucket    bool          `mapstructure:"create_bucket"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxPostSize     string        `mapstructure:"max_post_size"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	DriverS3    = "s3"
	DriverLocal = "local"
)

func setDefaults() {
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", 8080)
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("db.source", "")
	viper.SetDefault("db.timeout", 5*time.Second)
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("jwt.access_ttl", time.Hour)
	viper.SetDefault("jwt.refresh_ttl", 24*time.Hour)
	viper.SetDefault("storage.driver", DriverS3)
	viper.SetDefault("storage.path", "./data")
	viper.SetDefault("storage.bucket", "")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.endpoint", "")
	viper.SetDefault("storage.access_key_id", "")
	viper.SetDefault("storage.secret_access_key", "")
	viper.SetDefault("storage.create_bucket", false)
	viper.SetDefault("storage.timeout", 10*time.Second)
	viper.SetDefault("storage.max_post_size", "1 MiB")
	viper.SetDefault("cors.allowed_origins", []string{"*"})
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Source == "" {
		return fmt.Errorf("db.source is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	switch c.Storage.Driver {
	case DriverS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
	case DriverLocal:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the local driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if _, err := c.Storage.MaxPostSizeBytes(); err != nil {
		return err
	}
	return nil
}

// MaxPostSizeBytes parses the human readable post size limit ("1 MiB", "500kB").
func (s StorageConfig) MaxPostSizeBytes() (int64, error) {
	n, err := humanize.ParseBytes(s.MaxPostSize)
	if err != nil {
		return 0, fmt.Errorf("invalid storage.max_post_size %q: %w", s.MaxPostSize, err)
	}
	return int64(n), nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.AppHost, c.Port)
}
