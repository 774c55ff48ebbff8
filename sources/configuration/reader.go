package configuration

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"storyforge/sources/platform"
	"storyforge/sources/tracing"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaults []byte

const (
	defaultFilePath     = "config.yaml"
	chatCompletionsPath = "/chat/completions"
)

var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::([^}]*))?\}`)

// NewYaml reads CONFIG_PATH (default: config.yaml) over the embedded defaults.
// A missing config.yaml is fine, a missing explicit CONFIG_PATH is not.
func NewYaml(log *tracing.Logger) (*Config, error) {
	return Load(log, platform.Get("CONFIG_PATH", ""))
}

func Load(log *tracing.Logger, filePath string) (*Config, error) {
	defer tracing.ProfilePoint(log, "Configuration loaded", "configuration.load")()

	var config Config
	if err := yaml.Unmarshal([]byte(expandEnv(string(defaults))), &config); err != nil {
		return nil, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}

	explicit := filePath != ""
	if !explicit {
		filePath = defaultFilePath
	}

	content, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		log.I("reading configuration", "path", filePath)
		if err := yaml.Unmarshal([]byte(expandEnv(string(content))), &config); err != nil {
			log.E("failed to parse configuration file", tracing.InnerError, err, "path", filePath)
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		log.I("no configuration file, using embedded defaults", "path", filePath)
	default:
		log.E("failed to read configuration file", tracing.InnerError, err, "path", filePath)
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config.Backend.Endpoint = normalizeEndpoint(config.Backend.Endpoint)

	if err := config.Validate(); err != nil {
		log.E("invalid configuration", tracing.InnerError, err)
		return nil, err
	}

	return &config, nil
}

// Validate reports every problem at once, each as a *ConfigurationError.
func (c *Config) Validate() error {
	var errs []error
	fail := func(field string, err error) {
		if err != nil {
			errs = append(errs, &ConfigurationError{Field: field, Reason: err.Error()})
		}
	}

	fail("backend.endpoint", platform.ValidateHttpUrl(c.Backend.Endpoint, "LLM_API_URL"))
	fail("backend.api_key", platform.ValidateNotEmpty(c.Backend.APIKey, "LLM_API_KEY"))
	fail("backend.timeout_seconds", platform.ValidatePositive(c.Backend.TimeoutSeconds, "timeout_seconds"))
	fail("generation.group_width", platform.ValidatePositive(c.Generation.GroupWidth, "group_width"))
	fail("generation.slot_attempts", platform.ValidatePositive(c.Generation.SlotAttempts, "slot_attempts"))
	fail("generation.max_attempts", platform.ValidatePositive(c.Generation.MaxAttempts, "max_attempts"))

	if c.Generation.BackoffBase < 0 {
		fail("generation.backoff_base", fmt.Errorf("must not be negative, got %s", c.Generation.BackoffBase))
	}
	if c.Progress.Enabled && c.Progress.Period <= 0 {
		fail("progress.period", fmt.Errorf("must be positive when progress is enabled, got %s", c.Progress.Period))
	}

	if len(c.Models) == 0 {
		fail("models", errors.New("at least one model is required"))
	}
	for i, model := range c.Models {
		field := fmt.Sprintf("models[%d]", i)
		fail(field+".name", platform.ValidateNotEmpty(model.Name, "name"))
		fail(field+".input_price_per_m", validatePrice(model.InputPricePerM))
		fail(field+".output_price_per_m", validatePrice(model.OutputPricePerM))
	}

	return errors.Join(errs...)
}

func validatePrice(value string) error {
	price, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("not a decimal: %q", value)
	}
	if price.IsNegative() {
		return fmt.Errorf("must not be negative, got %s", value)
	}
	return nil
}

// normalizeEndpoint accepts either the API base url or the full chat completions url.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return strings.TrimSuffix(endpoint, chatCompletionsPath)
}

// expandEnv replaces ${VAR} or ${VAR:default} with environment values.
func expandEnv(content string) string {
	return envPattern.ReplaceAllStringFunc(content, func(match string) string {
		matches := envPattern.FindStringSubmatch(match)
		key := matches[1]
		defaultValue := ""
		if len(matches) > 2 {
			defaultValue = matches[2]
		}

		value, exists := os.LookupEnv(key)
		if !exists {
			return defaultValue
		}
		return value
	})
}
