package artificial

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storyforge/sources/configuration"
	"storyforge/sources/metrics"
	"storyforge/sources/tracing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type runner interface {
	Execute(ctx context.Context, prompt string, maxTokens int) (GenerationOutcome, error)
}

type BatchRequest struct {
	Count       int
	Kind        string
	Theme       string
	SubjectType string
	Params      Params
	MaxTokens   int
}

// Orchestrator fans batches out over at most width concurrent backend calls.
type Orchestrator struct {
	log          *tracing.Logger
	prompts      *PromptEngine
	executor     runner
	metrics      *metrics.MetricsService
	width        int
	slotAttempts int
}

func NewOrchestrator(log *tracing.Logger, prompts *PromptEngine, executor *Executor, metrics *metrics.MetricsService, config *configuration.Config) *Orchestrator {
	return newOrchestrator(log, prompts, executor, metrics, config.Generation.GroupWidth, config.Generation.SlotAttempts)
}

func newOrchestrator(log *tracing.Logger, prompts *PromptEngine, executor runner, metrics *metrics.MetricsService, width, slotAttempts int) *Orchestrator {
	return &Orchestrator{
		log:          log,
		prompts:      prompts,
		executor:     executor,
		metrics:      metrics,
		width:        max(width, 1),
		slotAttempts: max(slotAttempts, 1),
	}
}

// MultiGenerate returns exactly req.Count non-empty texts; result i always belongs to item i.
// The first failing item cancels the rest of the batch.
func (x *Orchestrator) MultiGenerate(ctx context.Context, req BatchRequest) ([]string, error) {
	if err := req.Params.Validate(req.Count); err != nil {
		return nil, err
	}
	if req.Count == 0 {
		return []string{}, nil
	}

	log := x.log.With(
		tracing.BatchId, uuid.NewString(),
		tracing.BatchSize, req.Count,
		tracing.BatchWidth, x.width,
		tracing.TemplateKind, req.Kind,
		tracing.SubjectType, req.SubjectType,
	)
	defer tracing.ProfilePoint(log, "Batch completed", "artificial.orchestrator.multi_generate")()

	start := time.Now()
	defer func() { x.metrics.RecordBatchDuration(time.Since(start)) }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]string, req.Count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.width)

	var dispatchErr error
	for i := 0; i < req.Count; i++ {
		if gctx.Err() != nil {
			break
		}

		prompt, err := x.resolve(req, i)
		if err != nil {
			dispatchErr = err
			cancel()
			break
		}

		g.Go(func() error {
			text, _, err := x.fill(gctx, log, req, i, prompt)
			if err != nil {
				return err
			}
			results[i] = text
			return nil
		})
	}

	err := g.Wait()
	switch {
	case dispatchErr != nil:
		err = dispatchErr
	case err == nil && ctx.Err() != nil:
		// cancelled before every item was dispatched
		err = fmt.Errorf("batch cancelled: %w", ctx.Err())
	}

	if err != nil {
		log.E("Batch failed", tracing.InnerError, err)
		return nil, err
	}
	return results, nil
}

// Generate is a batch of one that also returns the prompt the text was produced from.
func (x *Orchestrator) Generate(ctx context.Context, req BatchRequest) (string, string, error) {
	req.Count = 1
	if err := req.Params.Validate(req.Count); err != nil {
		return "", "", err
	}

	prompt, err := x.resolve(req, 0)
	if err != nil {
		return "", "", err
	}

	log := x.log.With(tracing.TemplateKind, req.Kind, tracing.SubjectType, req.SubjectType)
	return x.fill(ctx, log, req, 0, prompt)
}

func (x *Orchestrator) resolve(req BatchRequest, index int) (ResolvedPrompt, error) {
	return x.prompts.Resolve(req.Kind, req.Theme, req.SubjectType, req.Params.At(index))
}

// fill runs one slot, re-issuing it with a fresh seed while the backend yields empty text.
// An executor that gave up on blank completions counts as an empty result too.
func (x *Orchestrator) fill(ctx context.Context, log *tracing.Logger, req BatchRequest, index int, prompt ResolvedPrompt) (string, string, error) {
	log = log.With(tracing.SlotIndex, index)

	for attempt := 1; ; attempt++ {
		outcome, err := x.executor.Execute(ctx, prompt.Text, req.MaxTokens)
		if err != nil && !isEmptyCompletion(err) {
			return "", "", fmt.Errorf("slot %d: %w", index, err)
		}

		if text := strings.TrimSpace(outcome.Text); err == nil && text != "" {
			return text, prompt.Text, nil
		}

		if attempt >= x.slotAttempts {
			log.E("Slot kept producing empty results", tracing.SlotAttempt, attempt)
			last := fmt.Errorf("slot %d: empty result", index)
			if err != nil {
				last = fmt.Errorf("slot %d: %w", index, err)
			}
			return "", "", &RetriesExhaustedError{Attempts: attempt, Last: last}
		}

		x.metrics.RecordSlotRedrive()
		log.W("Empty result, re-issuing slot", tracing.SlotAttempt, attempt+1)

		if prompt, err = x.resolve(req, index); err != nil {
			return "", "", err
		}
	}
}
