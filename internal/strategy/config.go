package strategy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/oakwood-commons/textcomplete/pkg/loader"
)

// Kind selects the searcher a Config builds.
type Kind string

const (
	KindWords     Kind = "words"
	KindFunctions Kind = "functions"
	KindRecords   Kind = "records"
)

var (
	// ErrUnknownKind is returned for a kind other than words, functions or records.
	ErrUnknownKind = errors.New("unknown strategy kind")
	// ErrMissingID is returned when a strategy has no id.
	ErrMissingID = errors.New("strategy id is required")
)

//go:embed data/words.txt
var defaultWords string

//go:embed data/people.yaml
var defaultPeople string

// Config describes a strategy in the config file.
type Config struct {
	ID   string `yaml:"id" toml:"id"`
	Kind Kind   `yaml:"kind" toml:"kind"`
	// Match is a regular expression matched against the text before the
	// caret. A trailing $ is added when missing.
	Match      string `yaml:"match,omitempty" toml:"match,omitempty"`
	Index      int    `yaml:"index,omitempty" toml:"index,omitempty"`
	IDProperty string `yaml:"id_property,omitempty" toml:"id_property,omitempty"`
	// Source is a dataset file. Empty uses the built-in dataset of the kind.
	Source string   `yaml:"source,omitempty" toml:"source,omitempty"`
	Words  []string `yaml:"words,omitempty" toml:"words,omitempty"`
	// Field is the key holding the records inside each document.
	Field string `yaml:"field,omitempty" toml:"field,omitempty"`
	// SearchField is the record key matched against the term.
	SearchField string `yaml:"search_field,omitempty" toml:"search_field,omitempty"`
	// Template renders a candidate row. Replace renders the inserted text.
	// Both are text/template bodies over {{.Value}} and {{.Term}}.
	Template string `yaml:"template,omitempty" toml:"template,omitempty"`
	Replace  string `yaml:"replace,omitempty" toml:"replace,omitempty"`
	Limit    int    `yaml:"limit,omitempty" toml:"limit,omitempty"`
}

type kindDefaults struct {
	match      string
	index      int
	idProperty string
	template   string
}

var defaultsByKind = map[Kind]kindDefaults{
	KindWords:     {match: `(^|\s)(\w{2,})$`, index: 2, template: `{{.Value}}`},
	KindFunctions: {match: `(^|\W)(\w+)$`, index: 2, idProperty: "name", template: `{{.Value.Signature}}`},
	KindRecords:   {match: `(^|\s)@(\w*)$`, index: 2, idProperty: "id", template: `{{.Value.name}}`},
}

// templateData is the dot of row and replace templates.
type templateData struct {
	Value any
	Term  string
}

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"join":  strings.Join,
}

// Build creates the strategy described by cfg, loading its dataset.
func Build(cfg Config) (*Strategy, error) {
	if cfg.ID == "" {
		return nil, ErrMissingID
	}
	defaults, ok := defaultsByKind[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("strategy %s: %w %q", cfg.ID, ErrUnknownKind, cfg.Kind)
	}

	pattern := cfg.Match
	index := cfg.Index
	if pattern == "" {
		pattern = defaults.match
		if index == 0 {
			index = defaults.index
		}
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern += "$"
	}
	match, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: invalid match: %w", cfg.ID, err)
	}
	if index < 0 || index > match.NumSubexp() {
		return nil, fmt.Errorf("strategy %s: index %d out of range for %d groups", cfg.ID, index, match.NumSubexp())
	}

	searcher, err := buildSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", cfg.ID, err)
	}

	s := &Strategy{
		Match:    match,
		Index:    index,
		Searcher: searcher,
		Limit:    cfg.Limit,
	}
	s.ID = cfg.ID
	s.IDProperty = cfg.IDProperty
	if s.IDProperty == "" {
		s.IDProperty = defaults.idProperty
	}

	body := cfg.Template
	if body == "" {
		body = defaults.template
	}
	row, err := parseTemplate(cfg.ID+"-template", body)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", cfg.ID, err)
	}
	s.Template = func(value any, term string) string {
		out, err := execute(row, templateData{Value: value, Term: term})
		if err != nil {
			return valueString(value)
		}
		return out
	}

	if cfg.Replace != "" {
		replace, err := parseTemplate(cfg.ID+"-replace", cfg.Replace)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", cfg.ID, err)
		}
		s.Replace = func(value any) string {
			out, err := execute(replace, templateData{Value: value})
			if err != nil {
				return valueString(value) + " "
			}
			return out
		}
	}
	return s, nil
}

// BuildAll builds every strategy, stopping at the first error.
func BuildAll(cfgs []Config) ([]*Strategy, error) {
	out := make([]*Strategy, 0, len(cfgs))
	seen := make(map[string]bool, len(cfgs))
	for _, cfg := range cfgs {
		if seen[cfg.ID] {
			return nil, fmt.Errorf("strategy %s: duplicate id", cfg.ID)
		}
		seen[cfg.ID] = true
		s, err := Build(cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func buildSearcher(cfg Config) (Searcher, error) {
	switch cfg.Kind {
	case KindWords:
		words := cfg.Words
		if len(words) == 0 {
			input := defaultWords
			if cfg.Source != "" {
				data, err := os.ReadFile(cfg.Source)
				if err != nil {
					return nil, err
				}
				input = string(data)
			}
			var err error
			if words, err = loader.Words(input); err != nil {
				return nil, err
			}
		}
		return NewWordIndex(words), nil

	case KindFunctions:
		return NewFunctionIndex(nil)

	case KindRecords:
		var (
			records []map[string]any
			err     error
		)
		if cfg.Source != "" {
			records, err = loader.LoadRecordsFile(cfg.Source, cfg.Field)
		} else {
			records, err = loader.LoadRecords(defaultPeople, cfg.Field)
		}
		if err != nil {
			return nil, err
		}
		return NewRecordIndex(records, cfg.SearchField), nil
	}
	return nil, ErrUnknownKind
}

func parseTemplate(name, body string) (*template.Template, error) {
	t, err := template.New(name).Funcs(templateFuncs).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}

func execute(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
