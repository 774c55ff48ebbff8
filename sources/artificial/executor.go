package artificial

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storyforge/sources/configuration"
	"storyforge/sources/metrics"
	"storyforge/sources/texting/tokenizer"
	"storyforge/sources/tracing"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

const systemInstruction = "You write content for a text adventure game. " +
	"Every request begins with a marker like \"Seed: 123.\". Treat the number only as a source of variety: " +
	"never mention, repeat or explain it. Follow the requested output format exactly."

// fixed sampling parameters
const (
	temperature float32 = 0.5
	topP        float32 = 0.8
)

const (
	outcomeSuccess   = "success"
	outcomeTransient = "transient"
	outcomeProtocol  = "protocol_error"
	outcomeRequest   = "request_error"
	outcomeCancelled = "cancelled"
)

// Completer is the chat completions surface of *openai.Client.
type Completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func NewOpenAIClient(client *http.Client, config *configuration.Config) *openai.Client {
	openaiConfig := openai.DefaultConfig(config.Backend.APIKey)
	openaiConfig.BaseURL = config.Backend.Endpoint
	openaiConfig.HTTPClient = client
	return openai.NewClientWithConfig(openaiConfig)
}

// Sleeper waits for d unless ctx ends first.
type Sleeper func(ctx context.Context, d time.Duration) error

func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type GenerationOutcome struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Model        Model
	Cost         decimal.Decimal
	Attempts     int
	RequestId    string
}

type Executor struct {
	log       *tracing.Logger
	completer Completer
	models    *ModelPool
	ledger    *CostLedger
	audit     *tracing.AuditTrail
	metrics   *metrics.MetricsService
	config    configuration.GenerationConfig
	sleep     Sleeper
	count     func(log *tracing.Logger, text string) int
}

func NewExecutor(
	log *tracing.Logger,
	completer Completer,
	models *ModelPool,
	ledger *CostLedger,
	audit *tracing.AuditTrail,
	metrics *metrics.MetricsService,
	config *configuration.Config,
) *Executor {
	generation := config.Generation
	generation.MaxAttempts = max(generation.MaxAttempts, 1)

	return &Executor{
		log:       log,
		completer: completer,
		models:    models,
		ledger:    ledger,
		audit:     audit,
		metrics:   metrics,
		config:    generation,
		sleep:     SleepContext,
		count:     tokenizer.Tokens,
	}
}

// Execute runs one logical generation in at most MaxAttempts backend calls. Every transient failure
// (HTTP 400, empty completion) k is followed by a BackoffBase × 2^k pause; everything else is returned at once.
func (x *Executor) Execute(ctx context.Context, prompt string, maxTokens int) (GenerationOutcome, error) {
	requestId := uuid.NewString()
	log := x.log.With(tracing.RequestId, requestId)

	var last error
	for attempt := 0; attempt < x.config.MaxAttempts; attempt++ {
		outcome, err := x.attempt(ctx, log, requestId, attempt+1, x.models.Pick(), prompt, maxTokens)
		if err == nil {
			outcome.Attempts = attempt + 1
			return outcome, nil
		}

		if !isTransient(err) {
			return GenerationOutcome{}, err
		}
		last = err

		delay := x.config.BackoffBase * time.Duration(1<<attempt)
		log.W("Transient backend failure, backing off", tracing.AiAttempt, attempt+1, tracing.AiBackoff, delay, tracing.InnerError, err)
		if err := x.sleep(ctx, delay); err != nil {
			return GenerationOutcome{}, fmt.Errorf("backoff interrupted: %w", err)
		}
	}

	log.E("Generation retries exhausted", tracing.AiAttempt, x.config.MaxAttempts, tracing.InnerError, last)
	return GenerationOutcome{}, &RetriesExhaustedError{Attempts: x.config.MaxAttempts, Last: last}
}

func (x *Executor) attempt(ctx context.Context, log *tracing.Logger, requestId string, attempt int, model Model, prompt string, maxTokens int) (GenerationOutcome, error) {
	log = log.With(tracing.AiModel, model.Name, tracing.AiAttempt, attempt)

	request := openai.ChatCompletionRequest{
		Model: model.Name,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		TopP:             topP,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	}

	done := x.metrics.TrackInflight()
	start := time.Now()
	response, err := tracing.ReportExecutionForRE(log,
		func() (openai.ChatCompletionResponse, error) {
			return x.completer.CreateChatCompletion(ctx, request)
		},
		func(l *tracing.Logger, err error) {
			if err != nil {
				l.W("Backend call failed", tracing.InnerError, err)
			} else {
				l.D("Backend call completed")
			}
		},
	)
	done()
	x.metrics.RecordBackendRequestDuration(time.Since(start), model.Name)

	outcome, err := x.classify(ctx, log, model, prompt, response, err)
	if err == nil {
		outcome.RequestId = requestId
	}

	x.record(requestId, attempt, model, prompt, outcome, err)
	return outcome, err
}

func (x *Executor) classify(ctx context.Context, log *tracing.Logger, model Model, prompt string, response openai.ChatCompletionResponse, err error) (GenerationOutcome, error) {
	if err != nil {
		return GenerationOutcome{}, classifyFailure(ctx, model, err)
	}

	if len(response.Choices) == 0 {
		return GenerationOutcome{}, &BackendProtocolError{Model: model.Name, Reason: "response has no choices"}
	}

	text := strings.TrimSpace(response.Choices[0].Message.Content)
	if text == "" {
		return GenerationOutcome{}, &transientError{model: model.Name, reason: "empty completion", empty: true}
	}

	in, out := response.Usage.PromptTokens, response.Usage.CompletionTokens
	if in == 0 && out == 0 {
		in = x.count(log, systemInstruction) + x.count(log, prompt)
		out = x.count(log, text)
		log.D("Backend omitted usage, tokens estimated", "input_tokens", in, "output_tokens", out)
	}

	cost := model.Cost(in, out)
	total := x.ledger.Add(cost)
	x.ledger.CountTokens(in + out)
	x.metrics.RecordUsage(in, out, cost.InexactFloat64(), model.Name)

	log.D("Generation succeeded", tracing.AiTokens, in+out, tracing.AiCost, cost.String(), tracing.AiTotalCost, total.String())
	return GenerationOutcome{Text: text, InputTokens: in, OutputTokens: out, Model: model, Cost: cost}, nil
}

func classifyFailure(ctx context.Context, model Model, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("generation cancelled: %w", ctxErr)
	}

	var (
		reqErr    *openai.RequestError
		apiErr    *openai.APIError
		urlErr    *url.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	status := 0
	switch {
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &urlErr):
		return &BackendRequestError{Model: model.Name, Err: err}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &BackendProtocolError{Model: model.Name, Reason: "undecodable response body", Err: err}
	default:
		return &BackendRequestError{Model: model.Name, Err: err}
	}

	if status == http.StatusBadRequest {
		return &transientError{model: model.Name, statusCode: status, reason: err.Error()}
	}
	return &BackendRequestError{Model: model.Name, StatusCode: status, Err: err}
}

func (x *Executor) record(requestId string, attempt int, model Model, prompt string, outcome GenerationOutcome, err error) {
	entry := tracing.AuditEntry{
		RequestId: requestId,
		Attempt:   attempt,
		Model:     model.Name,
		Prompt:    prompt,
		TotalCost: x.ledger.Total().String(),
	}

	switch {
	case err == nil:
		entry.Outcome = outcomeSuccess
		entry.Response = outcome.Text
		entry.Cost = outcome.Cost.String()
	case isTransient(err):
		entry.Outcome = outcomeTransient
	case IsBackendProtocol(err):
		entry.Outcome = outcomeProtocol
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		entry.Outcome = outcomeCancelled
	default:
		entry.Outcome = outcomeRequest
	}

	if err != nil {
		entry.Error = err.Error()
	}

	x.audit.Record(entry)
	x.metrics.RecordAttempt(model.Name, entry.Outcome)
}
