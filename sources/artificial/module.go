package artificial

import (
	"go.uber.org/fx"
)

var Module = fx.Module(
	"artificial",
	fx.Provide(
		fx.Annotate(NewOpenAIClient, fx.As(new(Completer))),
		NewModelPoolFromConfig,
		NewCostLedger,
		func() *PromptEngine { return NewPromptEngine(RandomSeed) },
		NewExecutor,
		NewOrchestrator,
		NewGenerator,
	),
)
