package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epowrite_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// PostInteractions counts aggregate interaction events by kind and outcome.
	PostInteractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epowrite_post_interactions_total",
		Help: "Total post interaction events (like, unlike, comment, report)",
	}, []string{"kind"})

	// ModerationActions counts lifecycle transitions applied by moderators.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epowrite_moderation_actions_total",
		Help: "Total moderation lifecycle actions (soft_delete, restore, hard_delete)",
	}, []string{"action"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler that records request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
