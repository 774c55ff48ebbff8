package progress

import (
	"os"

	"storyforge/sources/configuration"

	"go.uber.org/fx"
)

var Module = fx.Module("progress",
	fx.Provide(
		func(config *configuration.Config) *Signal {
			if !config.Progress.Enabled {
				return nil
			}
			return NewSignal(NewTerminalRenderer(os.Stderr), config.Progress.Period)
		},
	),
)
