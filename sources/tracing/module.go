package tracing

import (
	"context"

	"go.uber.org/fx"
)

// AuditPath is supplied by the configuration module; empty disables the audit trail.
type AuditPath string

var Module = fx.Module("tracing",
	fx.Provide(
		NewConsoleLogger,
		func(lc fx.Lifecycle, log *Logger, path AuditPath) (*AuditTrail, error) {
			trail, err := NewAuditTrail(log, string(path))
			if err != nil {
				return nil, err
			}

			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return trail.Close()
				},
			})
			return trail, nil
		},
	),
)
