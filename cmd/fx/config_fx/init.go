package config_fx

import (
	"go.uber.org/fx"

	"ecoleta/internal/config"
)

var Module = fx.Provide(config.Load)
