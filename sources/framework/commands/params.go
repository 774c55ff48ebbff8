package commands

import (
	"fmt"
	"strings"

	"storyforge/sources/artificial"
)

const itemSeparator = "|"

// ParamFlags maps the three parameter shapes onto repeatable key=value flags.
type ParamFlags struct {
	Param map[string]string `short:"p" mapsep:"none" placeholder:"KEY=VALUE" help:"Template parameter shared by every item."`
	List  map[string]string `mapsep:"none" placeholder:"KEY=A|B" help:"Parameter rendered as a comma separated list."`
	Each  map[string]string `mapsep:"none" placeholder:"KEY=A|B" help:"Parameter with one value per batch item."`
}

func (f *ParamFlags) Params() (artificial.Params, error) {
	params := artificial.Params{}

	add := func(key string, value artificial.Value) error {
		if _, exists := params[key]; exists {
			return fmt.Errorf("parameter %q is given more than once", key)
		}
		params[key] = value
		return nil
	}

	for key, value := range f.Param {
		if err := add(key, artificial.Scalar(value)); err != nil {
			return nil, err
		}
	}
	for key, value := range f.List {
		if err := add(key, artificial.List(splitItems(value)...)); err != nil {
			return nil, err
		}
	}
	for key, value := range f.Each {
		if err := add(key, artificial.PerIndex(splitItems(value)...)); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func splitItems(value string) []string {
	items := strings.Split(value, itemSeparator)
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}
