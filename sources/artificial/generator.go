package artificial

import (
	"context"
	"strings"
	"sync"

	"storyforge/sources/configuration"
	"storyforge/sources/metrics"
	"storyforge/sources/progress"
	"storyforge/sources/tracing"

	"github.com/shopspring/decimal"
)

type GenerationRequest struct {
	Kind         string
	SubjectType  string
	Params       Params
	MaxTokens    int
	LoadingLabel string
}

// Generator is the entry point for the game layer. Every call blocks behind the progress signal.
type Generator struct {
	log          *tracing.Logger
	orchestrator *Orchestrator
	executor     runner
	ledger       *CostLedger
	signal       *progress.Signal
	metrics      *metrics.MetricsService

	mu    sync.RWMutex
	theme string
}

func NewGenerator(
	log *tracing.Logger,
	orchestrator *Orchestrator,
	executor *Executor,
	ledger *CostLedger,
	signal *progress.Signal,
	metrics *metrics.MetricsService,
	config *configuration.Config,
) *Generator {
	return newGenerator(log, orchestrator, executor, ledger, signal, metrics, config.Generation.DefaultTheme)
}

func newGenerator(log *tracing.Logger, orchestrator *Orchestrator, executor runner, ledger *CostLedger, signal *progress.Signal, metrics *metrics.MetricsService, theme string) *Generator {
	return &Generator{
		log:          log,
		orchestrator: orchestrator,
		executor:     executor,
		ledger:       ledger,
		signal:       signal,
		metrics:      metrics,
		theme:        theme,
	}
}

func (x *Generator) SetTheme(theme string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.log.I("Theme changed", tracing.Theme, theme)
	x.theme = theme
}

func (x *Generator) Theme() string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.theme
}

func (x *Generator) TotalCost() decimal.Decimal {
	return x.ledger.Total()
}

func (x *Generator) TotalTokens() int64 {
	return x.ledger.Tokens()
}

func (x *Generator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	text, _, err := x.GenerateWithPrompt(ctx, req)
	return text, err
}

// GenerateWithPrompt also returns the prompt, for follow-up generations that need it as context.
func (x *Generator) GenerateWithPrompt(ctx context.Context, req GenerationRequest) (string, string, error) {
	type generated struct {
		text   string
		prompt string
	}

	result, err := progress.Await(ctx, x.signal, req.LoadingLabel, func(ctx context.Context) (generated, error) {
		text, prompt, err := x.orchestrator.Generate(ctx, x.batch(1, req))
		return generated{text: text, prompt: prompt}, err
	})

	x.report(req.Kind, err)
	return result.text, result.prompt, err
}

func (x *Generator) MultiGenerate(ctx context.Context, count int, req GenerationRequest) ([]string, error) {
	results, err := progress.Await(ctx, x.signal, req.LoadingLabel, func(ctx context.Context) ([]string, error) {
		return x.orchestrator.MultiGenerate(ctx, x.batch(count, req))
	})

	x.report(req.Kind, err)
	return results, err
}

// CustomGenerate sends rawPrompt as is: no template and no seed.
func (x *Generator) CustomGenerate(ctx context.Context, rawPrompt string, maxTokens int, label string) (string, error) {
	outcome, err := progress.Await(ctx, x.signal, label, func(ctx context.Context) (GenerationOutcome, error) {
		return x.executor.Execute(ctx, strings.TrimSpace(rawPrompt), maxTokens)
	})

	x.report("custom", err)
	return outcome.Text, err
}

func (x *Generator) batch(count int, req GenerationRequest) BatchRequest {
	return BatchRequest{
		Count:       count,
		Kind:        req.Kind,
		Theme:       x.Theme(),
		SubjectType: req.SubjectType,
		Params:      req.Params,
		MaxTokens:   req.MaxTokens,
	}
}

func (x *Generator) report(kind string, err error) {
	if err != nil {
		x.metrics.RecordGeneration(kind, "error")
		x.log.E("Generation failed", tracing.TemplateKind, kind, tracing.InnerError, err)
		return
	}
	x.metrics.RecordGeneration(kind, "success")
}
