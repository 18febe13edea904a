package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CommandsHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pingbot", Name: "commands_handled_total", Help: "Comment commands by command and outcome."},
		[]string{"command", "outcome"},
	)
	DocumentWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pingbot", Name: "document_writes_total", Help: "Whole-document overwrites by result."},
		[]string{"result"},
	)
	PingMentions = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "pingbot", Name: "ping_mentions", Help: "Number of users mentioned per ping.", Buckets: prometheus.ExponentialBuckets(1, 2, 10)},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pingbot", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pingbot", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(CommandsHandled)
	reg.MustRegister(DocumentWrites)
	reg.MustRegister(PingMentions)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
