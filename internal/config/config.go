package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	API struct {
		BaseURL string `env:"BASE_URL,required"`
		Timeout int    `env:"TIMEOUT" envDefault:"15"`
	} `envPrefix:"API_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Secret     string `env:"SECRET,required"`
		CookieName string `env:"COOKIE_NAME" envDefault:"token"`
	} `envPrefix:"JWT_"`
	Journal struct {
		RetentionDays int `env:"RETENTION_DAYS" envDefault:"30"`
		PageSize      int `env:"PAGE_SIZE" envDefault:"100"`
	} `envPrefix:"JOURNAL_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host               string `env:"HOST" envDefault:"localhost"`
		Port               int    `env:"PORT" envDefault:"6379"`
		Password           string `env:"PASSWORD"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout   int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
		SnapshotExpiration int    `env:"SNAPSHOT_EXPIRATION" envDefault:"86400"` // 1 天
	} `envPrefix:"REDIS_"`
	Store struct {
		StrictOrdering bool `env:"STRICT_ORDERING" envDefault:"false"`
		IdleTimeout    int  `env:"IDLE_TIMEOUT" envDefault:"3600"` // 应小于快照的过期时间
		SweepInterval  int  `env:"SWEEP_INTERVAL" envDefault:"300"`
	} `envPrefix:"STORE_"`
	Maps struct {
		APIKey string `env:"API_KEY"`
	} `envPrefix:"MAPS_"`
	Seed struct {
		Token       string `env:"TOKEN"`
		EmailDomain string `env:"EMAIL_DOMAIN" envDefault:"example.com"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
