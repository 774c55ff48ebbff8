package external

import (
	"context"

	"storyforge/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("external",
	fx.Provide(
		NewOutsiders,
	),

	fx.Invoke(func(outsiders *Outsiders, lc fx.Lifecycle) {
		if !outsiders.Enabled() {
			return
		}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return outsiders.start()
			},
			OnStop: func(ctx context.Context) error {
				outsiders.log.I("Stopping outsiders server")
				if err := outsiders.server.Shutdown(ctx); err != nil {
					outsiders.log.E("Failed to shutdown outsiders server", tracing.OutsiderKind, "metrics", tracing.InnerError, err)
					return err
				}
				return nil
			},
		})
	}),
)
