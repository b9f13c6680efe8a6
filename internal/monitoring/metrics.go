package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP 请求指标
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamsite_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teamsite_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// 通讯管线指标
var (
	NewslettersSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teamsite_newsletters_sent_total",
			Help: "Total number of newsletters successfully sent",
		},
	)

	NewsletterRecipientsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teamsite_newsletter_recipients_total",
			Help: "Cumulative number of newsletter recipients delivered to",
		},
	)

	NewsletterBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamsite_newsletter_batches_total",
			Help: "Newsletter delivery batches by outcome",
		},
		[]string{"outcome"}, // sent / failed
	)

	NewslettersGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamsite_newsletters_generated_total",
			Help: "AI generated newsletters by trigger",
		},
		[]string{"trigger"}, // manual / scheduled
	)

	AIGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teamsite_ai_generation_duration_seconds",
			Help:    "AI content generation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"kind"}, // newsletter / blog
	)
)

// 订阅指标
var (
	SubscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamsite_subscriptions_total",
			Help: "Subscription operations by action",
		},
		[]string{"action"}, // subscribe / resubscribe / unsubscribe
	)
)

// 错误指标
var (
	PanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teamsite_panics_total",
			Help: "Total number of recovered panics",
		},
	)
)

// Handler 返回 Prometheus 指标暴露端点
func Handler() http.Handler {
	return promhttp.Handler()
}
