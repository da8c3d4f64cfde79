package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsmeet_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsmeet_mutations_total",
			Help: "Successful mutations by action kind.",
		},
		[]string{"action"},
	)

	JoinOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportsmeet_event_join_outcomes_total",
			Help: "Event join attempts by outcome.",
		},
		[]string{"outcome"},
	)
)
