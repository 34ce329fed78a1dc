package database

import (
	"time"
)

// Connection definition sql / amqp setting
type Connection struct {
	ConnectStr string

	RetryCount    int
	RetryInterval time.Duration
}

// MinIOConnection definition minio
type MinIOConnection struct {
	Endpoint   string
	User       string
	Password   string
	BucketName string
	UseSSL     bool

	RetryCount    int
	RetryInterval time.Duration
}
