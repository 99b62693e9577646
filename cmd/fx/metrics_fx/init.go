package metrics_fx

import (
	"go.uber.org/fx"

	"ecoleta/pkg/metrics"
)

var Module = fx.Invoke(metrics.Init)
