package fragment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opEncode = "encode"
	opDecode = "decode"

	resultOK        = "ok"
	resultMalformed = "malformed"
)

var metadataTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hivebridge_fragment_metadata_total",
		Help: "Fragment metadata encode and decode operations by result",
	},
	[]string{"op", "result"},
)
