package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"storyforge/sources/artificial"
	"storyforge/sources/configuration"
	"storyforge/sources/external"
	"storyforge/sources/framework/commands"
	"storyforge/sources/metrics"
	"storyforge/sources/metrics/collector"
	"storyforge/sources/network"
	"storyforge/sources/platform"
	"storyforge/sources/progress"
	"storyforge/sources/texting/format"
	"storyforge/sources/tracing"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

func main() {
	platform.SetAppManifest(version, buildTime)

	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("storyforge"),
		kong.Description("Concurrent text generation for text adventure content."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(os.Stdout, (*io.Writer)(nil))

	if !commands.RequiresBackend(kctx.Command()) {
		kctx.FatalIfErrorf(kctx.Run())
		return
	}

	var generator *artificial.Generator
	app := fx.New(
		fx.NopLogger,
		configuration.Module,
		tracing.Module,
		network.Module,
		metrics.Module,
		collector.Module,
		external.Module,
		progress.Module,
		artificial.Module,

		fx.Populate(&generator),
		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("Storyforge started", "version", version, "build_time", buildTime, "command", kctx.Command())
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("Storyforge stopped", "version", version, "uptime", platform.GetAppUptime().String())
					return nil
				},
			})
		}),
	)

	startCtx, cancelStart := platform.ContextTimeoutVal(ctx, app.StartTimeout())
	defer cancelStart()

	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "storyforge: startup failed: %v\n", err)
		os.Exit(1)
	}

	if cli.Theme != "" {
		generator.SetTheme(cli.Theme)
	}

	runErr := kctx.Run(generator)
	fmt.Fprintf(os.Stderr, "Total cost: %s (%s tokens)\n", format.Currencify(generator.TotalCost()), format.Numberify(generator.TotalTokens()))

	stopCtx, cancelStop := platform.ContextTimeout(context.Background())
	defer cancelStop()

	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "storyforge: shutdown failed: %v\n", err)
	}

	kctx.FatalIfErrorf(runErr)
}
