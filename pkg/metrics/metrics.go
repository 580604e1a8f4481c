package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meubot", Name: "upstream_requests_total", Help: "Outbound upstream requests by target and outcome."},
		[]string{"upstream", "outcome"},
	)
	BotInfoFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "meubot", Name: "botinfo_fallback_total", Help: "Bot-info responses served from the static defaults document."},
	)
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meubot", Name: "cache_hits_total", Help: "Response cache lookups by result (hit|miss)."},
		[]string{"result"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meubot", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "meubot", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(UpstreamRequests)
	reg.MustRegister(BotInfoFallbacks)
	reg.MustRegister(CacheHits)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
