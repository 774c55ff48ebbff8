package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return &cli, ctx
}

func TestParseBatch(t *testing.T) {
	cli, ctx := parse(t,
		"--theme", "noir",
		"batch", "3", "description", "character",
		"--each", "name=Ada|Brann|Cyra",
		"-p", "mood=grim",
		"--list", "avoid=Dex|Eli",
		"--max-tokens", "100",
	)

	if !strings.HasPrefix(ctx.Command(), "batch") {
		t.Errorf("command = %q", ctx.Command())
	}
	if cli.Theme != "noir" || cli.Batch.Count != 3 || cli.Batch.Kind != "description" || cli.Batch.MaxTokens != 100 {
		t.Errorf("parsed = %+v", cli.Batch)
	}

	params, err := cli.Batch.Params()
	if err != nil {
		t.Fatalf("Params() error = %v", err)
	}
	if err := params.Validate(3); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	second := params.At(1)
	if second["name"] != "Brann" || second["mood"] != "grim" || second["avoid"] != "Dex, Eli" {
		t.Errorf("At(1) = %v", second)
	}
}

func TestParseGenerateDefaults(t *testing.T) {
	cli, _ := parse(t, "generate", "name", "region")

	if cli.Generate.MaxTokens != 200 || cli.Generate.Type != "region" {
		t.Errorf("parsed = %+v", cli.Generate)
	}
	if got := loadingLabel(cli.Generate.Label, cli.Generate.Kind, cli.Generate.Type); got != "Generating region name" {
		t.Errorf("label = %q", got)
	}
}

func TestParamFlagsRejectDuplicates(t *testing.T) {
	flags := ParamFlags{
		Param: map[string]string{"name": "Ada"},
		Each:  map[string]string{"name": "Ada|Bo"},
	}

	if _, err := flags.Params(); err == nil {
		t.Error("expected an error for a key given twice")
	}
}

func TestRequiresBackend(t *testing.T) {
	if RequiresBackend(TemplatesCommand) {
		t.Error("templates must work without a backend")
	}
	if !RequiresBackend("generate <kind>") {
		t.Error("generate needs the backend")
	}
}

func TestTemplatesCommand(t *testing.T) {
	var out bytes.Buffer
	if err := (&TemplatesCmd{}).Run(&out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out.String())
	}
	if lines[0] != "currency" {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(out.String(), "description: name\n") {
		t.Errorf("output lacks description parameters:\n%s", out.String())
	}
}
