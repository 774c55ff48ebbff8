package configuration

import (
	"storyforge/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("configuration",
	fx.Provide(
		NewYaml,
		func(config *Config) tracing.AuditPath { return tracing.AuditPath(config.Audit.Path) },
	),
)
