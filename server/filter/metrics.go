package filter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pushdown outcomes
const (
	OutcomePushed  = "pushed"
	OutcomeSkipped = "skipped"
	OutcomeInvalid = "invalid"
)

var pushdownTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hivebridge_filter_pushdown_total",
		Help: "Filter pushdown attempts by outcome",
	},
	[]string{"outcome"},
)
