package presets

// Entry is one preset as written in presets.yaml.
//
//	- name: modern-classics
//	  description: Well rated films since 2000
//	  query: ratingFrom=7.5&ratingTo=10&yearFrom=2000&yearTo=2026
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Query       string `yaml:"query"`
}

// Config is the root structure for presets.yaml
type Config []Entry
