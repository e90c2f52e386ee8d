package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResolutionsTotal counts public resolution requests by outcome:
// redirect, preview, fallback, not_found, bad_config, error.
var ResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "polylink",
		Name:      "resolutions_total",
		Help:      "Smart-link resolution requests by outcome.",
	},
	[]string{"outcome"},
)
