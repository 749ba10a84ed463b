// Package config provides configuration structures for the site search engine.
// It defines the search widget options, display strings and server settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSearchPath     = "/search.json"
	DefaultMinChars       = 2
	DefaultHighlightClass = "search-highlight"
	DefaultNoResultsText  = "No results found. Try different keywords."
	DefaultLoadingText    = "Loading search index..."
	DefaultExcerptLength  = 150
	DefaultMaxTags        = 3
	DefaultDebounce       = 200 * time.Millisecond
	DefaultListen         = ":8080"
	DefaultEnv            = "dev"
)

// envPrefix is prepended to every environment override, e.g. SITE_SEARCH_MIN_CHARS.
const envPrefix = "SITE_SEARCH_"

// Settings contains all configuration options for a search session and the server around it.
type Settings struct {
	SearchPath     string        `yaml:"search_path" json:"search_path"`         // URI or file path of the JSON index
	MinChars       int           `yaml:"min_chars" json:"min_chars"`             // Queries shorter than this are not executed
	HighlightClass string        `yaml:"highlight_class" json:"highlight_class"` // Class set on the <mark> element wrapping matches
	NoResultsText  string        `yaml:"no_results_text" json:"no_results_text"`
	LoadingText    string        `yaml:"loading_text" json:"loading_text"`
	ExcerptLength  int           `yaml:"excerpt_length" json:"excerpt_length"` // Excerpt length when the query is not in the content
	MaxTags        int           `yaml:"max_tags" json:"max_tags"`             // Tags shown per rendered result
	Debounce       time.Duration `yaml:"debounce" json:"debounce"`             // Quiet period after the last keystroke before searching

	Listen   string `yaml:"listen" json:"listen"`
	Env      string `yaml:"env" json:"env"` // prod, dev, local
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Load reads settings from a YAML file. An empty path yields defaults only.
func Load(path string) (*Settings, error) {
	settings := &Settings{}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
		}
	}
	settings.ApplyDefaults()
	return settings, nil
}

// ApplyDefaults applies default values to unset settings
func (s *Settings) ApplyDefaults() {
	if s.SearchPath == "" {
		s.SearchPath = DefaultSearchPath
	}
	if s.MinChars == 0 {
		s.MinChars = DefaultMinChars
	}
	if s.HighlightClass == "" {
		s.HighlightClass = DefaultHighlightClass
	}
	if s.NoResultsText == "" {
		s.NoResultsText = DefaultNoResultsText
	}
	if s.LoadingText == "" {
		s.LoadingText = DefaultLoadingText
	}
	if s.ExcerptLength == 0 {
		s.ExcerptLength = DefaultExcerptLength
	}
	if s.MaxTags == 0 {
		s.MaxTags = DefaultMaxTags
	}
	if s.Debounce == 0 {
		s.Debounce = DefaultDebounce
	}
	if s.Listen == "" {
		s.Listen = DefaultListen
	}
	if s.Env == "" {
		s.Env = DefaultEnv
	}
}

// ApplyEnv overrides settings from SITE_SEARCH_* variables found through lookup
// (normally os.LookupEnv).
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s '%s': %w", envPrefix, key, v, err)
		}
		*dst = n
		return nil
	}

	str("PATH", &s.SearchPath)
	str("HIGHLIGHT_CLASS", &s.HighlightClass)
	str("NO_RESULTS_TEXT", &s.NoResultsText)
	str("LOADING_TEXT", &s.LoadingText)
	str("LISTEN", &s.Listen)
	str("ENV", &s.Env)
	str("LOG_LEVEL", &s.LogLevel)

	if err := integer("MIN_CHARS", &s.MinChars); err != nil {
		return err
	}
	if err := integer("EXCERPT_LENGTH", &s.ExcerptLength); err != nil {
		return err
	}
	if err := integer("MAX_TAGS", &s.MaxTags); err != nil {
		return err
	}
	if v, ok := lookup(envPrefix + "DEBOUNCE"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEBOUNCE '%s': %w", envPrefix, v, err)
		}
		s.Debounce = d
	}
	return nil
}

// Validate returns a description of every invalid setting, or nil.
func (s *Settings) Validate() []string {
	var problems []string

	if strings.TrimSpace(s.SearchPath) == "" {
		problems = append(problems, "search_path cannot be empty or whitespace-only")
	}
	if s.MinChars < 1 {
		problems = append(problems, fmt.Sprintf("min_chars must be at least 1, got %d", s.MinChars))
	}
	if s.ExcerptLength < 1 {
		problems = append(problems, fmt.Sprintf("excerpt_length must be at least 1, got %d", s.ExcerptLength))
	}
	if s.MaxTags < 0 {
		problems = append(problems, fmt.Sprintf("max_tags cannot be negative, got %d", s.MaxTags))
	}
	if s.Debounce < 0 {
		problems = append(problems, fmt.Sprintf("debounce cannot be negative, got %s", s.Debounce))
	}
	if strings.ContainsAny(s.HighlightClass, `"<>`) {
		problems = append(problems, "highlight_class cannot contain quotes or angle brackets")
	}
	switch s.Env {
	case "prod", "dev", "local":
	default:
		problems = append(problems, "env must be one of 'prod', 'dev' or 'local', got '"+s.Env+"'")
	}

	return problems
}
