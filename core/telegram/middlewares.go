package telegram

import (
	"github.com/haileylsn-oss/telegram-support-bot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared global middleware chain: panic
// recovery first, then per-update receipt logging, then reply metrics.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}
