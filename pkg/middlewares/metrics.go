package middlewares

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal requests by route and status
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "HTTP requests handled, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration latency by route
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RateLimitedTotal rejected by the per-user limiter
	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_rate_limited_total",
			Help: "Requests rejected by the per-user rate limiter.",
		},
		[]string{"route"},
	)

	// MessagesCreatedTotal messages persisted, kind = dm | group | forward | bot
	MessagesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_created_total",
			Help: "Messages persisted by kind.",
		},
		[]string{"kind"},
	)

	// BotRepliesTotal outcome = replied | fallback | skipped | failed | queued
	BotRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_bot_replies_total",
			Help: "Bot reply dispatch outcomes.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(MessagesCreatedTotal)
	prometheus.MustRegister(BotRepliesTotal)
}

// PrometheusMiddleware record count and latency per route
func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
