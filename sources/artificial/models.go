package artificial

import (
	"fmt"
	"math/rand/v2"

	"storyforge/sources/configuration"

	"github.com/shopspring/decimal"
)

var million = decimal.NewFromInt(1_000_000)

// Model prices are USD per million tokens.
type Model struct {
	Name           string
	InputCostPerM  decimal.Decimal
	OutputCostPerM decimal.Decimal
}

// Cost of one call: (in × input + out × output) / 1_000_000.
func (m Model) Cost(inputTokens, outputTokens int) decimal.Decimal {
	in := decimal.NewFromInt(int64(inputTokens)).Mul(m.InputCostPerM)
	out := decimal.NewFromInt(int64(outputTokens)).Mul(m.OutputCostPerM)
	return in.Add(out).Div(million)
}

// ModelPool is read-only after construction and safe for concurrent Pick.
type ModelPool struct {
	models []Model
}

func NewModelPool(models []Model) (*ModelPool, error) {
	if len(models) == 0 {
		return nil, ErrEmptyModelCatalog
	}
	return &ModelPool{models: append([]Model(nil), models...)}, nil
}

func NewModelPoolFromConfig(config *configuration.Config) (*ModelPool, error) {
	models := make([]Model, 0, len(config.Models))
	for _, mc := range config.Models {
		input, err := decimal.NewFromString(mc.InputPricePerM)
		if err != nil {
			return nil, fmt.Errorf("model %s: invalid input price: %w", mc.Name, err)
		}
		output, err := decimal.NewFromString(mc.OutputPricePerM)
		if err != nil {
			return nil, fmt.Errorf("model %s: invalid output price: %w", mc.Name, err)
		}
		models = append(models, Model{Name: mc.Name, InputCostPerM: input, OutputCostPerM: output})
	}
	return NewModelPool(models)
}

func (p *ModelPool) Pick() Model {
	return p.models[rand.IntN(len(p.models))]
}

func (p *ModelPool) Models() []Model {
	return append([]Model(nil), p.models...)
}
