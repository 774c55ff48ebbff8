package artificial

import (
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
)

const maxSeed = 1_000_000

// templates is versioned together with the game content; change wording, not placeholders.
var templates = map[string]string{
	"name": "Generate a unique name for a {type} in a {theme} setting. Try to keep it realistic and not stereotypical. " +
		"Reply with just the name in plaintext with no formatting.",

	"description": "Generate a one-sentence description for a {type} named {name} in a {theme} setting. " +
		"Try to keep it realistic and not stereotypical. Reply with just the description and no additional formatting.",

	"specialized_description": "Generate a one-sentence description for a {type} named {name} in a {theme} setting. " +
		"The {type} is a {specialization}. Try to keep it realistic and not stereotypical. " +
		"Reply with just the description and no additional formatting.",

	"specialization": "Generate a unique/niche skill or ability for a {type} in a {theme} setting in 1 or 2 words. " +
		"Try to keep it realistic and not stereotypical. Reply with just the skill and no additional formatting.",

	"event": "In the {theme} themed region of {region}, {characters} encounter a(n) {type} event. " +
		"In 1 paragraph, describe the beginning of this encounter, before any actions are taken. " +
		"Try to keep it realistic and not stereotypical.\nRegion description: {region_description}.",

	"outcome": "Generate a 1-paragraph outcome for the event described below with the chosen action '{choice}' " +
		"and resulting outcome '{outcome}' in a {theme} setting. Try to keep it realistic and not stereotypical. " +
		"Reply with just the outcome.\nEvent prompt: {prompt}\nEvent description: {description}",

	"currency": "Create a unique name for a currency in a {theme} setting. " +
		"Reply with just the name and no additional formatting.",
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

type ResolvedPrompt struct {
	Text string
	Seed string
}

// SeedSource yields the diversity seed prepended to every prompt.
type SeedSource func() int

func RandomSeed() int {
	return rand.IntN(maxSeed + 1)
}

type PromptEngine struct {
	seed SeedSource
}

func NewPromptEngine(seed SeedSource) *PromptEngine {
	if seed == nil {
		seed = RandomSeed
	}
	return &PromptEngine{seed: seed}
}

// Resolve substitutes {key} placeholders; theme and subjectType are available as {theme} and {type},
// explicit values take precedence over both.
func (x *PromptEngine) Resolve(kind, theme, subjectType string, values map[string]string) (ResolvedPrompt, error) {
	body, ok := templates[kind]
	if !ok {
		return ResolvedPrompt{}, &TemplateNotFoundError{Kind: kind}
	}

	scope := make(map[string]string, len(values)+2)
	scope["theme"] = theme
	scope["type"] = subjectType
	for key, value := range values {
		scope[key] = value
	}

	missing := ""
	text := placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := scope[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return value
	})

	if missing != "" {
		return ResolvedPrompt{}, &MissingParameterError{Kind: kind, Key: missing}
	}

	seed := strconv.Itoa(x.seed())
	return ResolvedPrompt{Text: "Seed: " + seed + ". " + text, Seed: seed}, nil
}

func Kinds() []string {
	kinds := make([]string, 0, len(templates))
	for kind := range templates {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Placeholders lists the parameter keys a template needs beyond theme and type, in template order.
func Placeholders(kind string) ([]string, error) {
	body, ok := templates[kind]
	if !ok {
		return nil, &TemplateNotFoundError{Kind: kind}
	}

	seen := map[string]bool{"theme": true, "type": true}
	var keys []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(body, -1) {
		if key := match[1]; !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}
