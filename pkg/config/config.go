package config

import "time"

// Chat definition chat_service YAML structure
type Chat struct {
	Port       string         `mapstructure:"port"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbitmq"`
	MinIO      MinIOConfig    `mapstructure:"minio"`
	Bot        BotConfig      `mapstructure:"bot"`
	RateLimit  RateLimit      `mapstructure:"rate_limit"`
	JWT        JWTConfig      `mapstructure:"jwt"`
}

// BotWorker definition bot_worker YAML structure
type BotWorker struct {
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbitmq"`
	Bot        BotConfig      `mapstructure:"bot"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
	// UserCacheTTL 0 關閉 identity cache
	UserCacheTTL time.Duration `mapstructure:"user_cache_ttl"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	IP            string `mapstructure:"ip"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MinIOConfig definition minio setting, Host empty means attachments are passed through
type MinIOConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	BucketName    string        `mapstructure:"bucket_name"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}

// BotConfig definition bot reply dispatch
type BotConfig struct {
	// Mode "sync" (default) or "queue"
	Mode          string        `mapstructure:"mode"`
	ReplyTimeout  time.Duration `mapstructure:"reply_timeout"`
	FallbackReply string        `mapstructure:"fallback_reply"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	Queue         string        `mapstructure:"queue"`
}

// RateLimit definition per user send limit
type RateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// JWTConfig definition token secret
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}
