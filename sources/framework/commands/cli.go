package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"storyforge/sources/artificial"

	"github.com/alecthomas/kong"
)

const TemplatesCommand = "templates"

type Globals struct {
	Theme   string           `short:"t" help:"Setting theme for generated content. Defaults to the configured theme."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

type CLI struct {
	Globals

	Generate  GenerateCmd  `cmd:"" help:"Generate one text from a template."`
	Batch     BatchCmd     `cmd:"" help:"Generate several texts from one template concurrently."`
	Custom    CustomCmd    `cmd:"" help:"Send a raw prompt without templating."`
	Templates TemplatesCmd `cmd:"" help:"List template kinds and the parameters they need."`
}

// RequiresBackend reports whether the selected command talks to the generation backend.
func RequiresBackend(command string) bool {
	return command != TemplatesCommand
}

type GenerateCmd struct {
	Kind string `arg:"" help:"Template kind, see the templates command."`
	Type string `arg:"" optional:"" help:"Subject type, e.g. character or region."`
	ParamFlags

	MaxTokens  int    `default:"200" help:"Upper bound for generated tokens."`
	Label      string `help:"Loading label shown while waiting."`
	ShowPrompt bool   `help:"Also print the prompt the text was generated from."`
}

func (c *GenerateCmd) Run(ctx context.Context, generator *artificial.Generator, out io.Writer) error {
	params, err := c.Params()
	if err != nil {
		return err
	}

	text, prompt, err := generator.GenerateWithPrompt(ctx, artificial.GenerationRequest{
		Kind:         c.Kind,
		SubjectType:  c.Type,
		Params:       params,
		MaxTokens:    c.MaxTokens,
		LoadingLabel: loadingLabel(c.Label, c.Kind, c.Type),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, text)
	if c.ShowPrompt {
		fmt.Fprintf(out, "\nPrompt: %s\n", prompt)
	}
	return nil
}

type BatchCmd struct {
	Count int    `arg:"" help:"Number of texts to generate."`
	Kind  string `arg:"" help:"Template kind, see the templates command."`
	Type  string `arg:"" optional:"" help:"Subject type, e.g. character or region."`
	ParamFlags

	MaxTokens int    `default:"200" help:"Upper bound for generated tokens per item."`
	Label     string `help:"Loading label shown while waiting."`
}

func (c *BatchCmd) Run(ctx context.Context, generator *artificial.Generator, out io.Writer) error {
	params, err := c.Params()
	if err != nil {
		return err
	}

	results, err := generator.MultiGenerate(ctx, c.Count, artificial.GenerationRequest{
		Kind:         c.Kind,
		SubjectType:  c.Type,
		Params:       params,
		MaxTokens:    c.MaxTokens,
		LoadingLabel: loadingLabel(c.Label, c.Kind, c.Type),
	})
	if err != nil {
		return err
	}

	for i, result := range results {
		fmt.Fprintf(out, "%d. %s\n", i+1, result)
	}
	return nil
}

type CustomCmd struct {
	Prompt    string `arg:"" help:"Prompt sent to the backend as is."`
	MaxTokens int    `default:"200" help:"Upper bound for generated tokens."`
	Label     string `default:"Generating" help:"Loading label shown while waiting."`
}

func (c *CustomCmd) Run(ctx context.Context, generator *artificial.Generator, out io.Writer) error {
	text, err := generator.CustomGenerate(ctx, c.Prompt, c.MaxTokens, c.Label)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, text)
	return nil
}

type TemplatesCmd struct{}

func (c *TemplatesCmd) Run(out io.Writer) error {
	for _, kind := range artificial.Kinds() {
		keys, err := artificial.Placeholders(kind)
		if err != nil {
			return err
		}

		if len(keys) == 0 {
			fmt.Fprintln(out, kind)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", kind, strings.Join(keys, ", "))
	}
	return nil
}

func loadingLabel(label, kind, subjectType string) string {
	if label != "" {
		return label
	}
	if subjectType == "" {
		return "Generating " + kind
	}
	return "Generating " + subjectType + " " + kind
}
