package presets

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

// ErrNoPresets is returned when a file holds no usable preset.
var ErrNoPresets = errors.New("no valid presets found in config")

// Preset is a named filter that can be applied in one step.
type Preset struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Query       string        `json:"query"`
	Filter      domain.Filter `json:"filter"`
}

// Map converts the parsed file into presets. Entries without a name, with a
// repeated name or with a query that does not decode cleanly are skipped and
// reported in the returned error; the usable presets are returned alongside.
func Map(config Config, b domain.Bounds) ([]Preset, error) {
	out := make([]Preset, 0, len(config))
	seen := make(map[string]bool, len(config))
	var errs []error

	for i, e := range config {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("preset #%d: missing name", i+1))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("preset %q: duplicate name", name))
			continue
		}

		values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(e.Query), "?"))
		if err != nil {
			errs = append(errs, fmt.Errorf("preset %q: %w", name, err))
			continue
		}
		f, err := domain.DecodeQuery(values, b)
		if err != nil {
			errs = append(errs, fmt.Errorf("preset %q: %w", name, err))
			continue
		}

		seen[name] = true
		out = append(out, Preset{
			Name:        name,
			Description: strings.TrimSpace(e.Description),
			Query:       domain.EncodeQuery(f, b).Encode(),
			Filter:      f,
		})
	}

	if len(out) == 0 {
		errs = append(errs, ErrNoPresets)
		return nil, errors.Join(errs...)
	}
	return out, errors.Join(errs...)
}
