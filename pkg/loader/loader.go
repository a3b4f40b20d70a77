// Package loader reads the datasets that back completion strategies. Input
// format is detected from the content: JSON, newline-delimited JSON, TOML, and
// single or multi-document YAML are accepted.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrEmptyInput is returned when there is nothing to parse.
var ErrEmptyInput = errors.New("empty input")

var (
	// TOML section headers: [section], [[array]], ["quoted"], [a.b].
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// TOML key = value, as opposed to YAML key: value.
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// LoadData parses input into one value per document. Single-document formats
// return a one-element slice.
func LoadData(input string) ([]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return loadMultiDocYAML(input)
	}

	if lines := strings.Split(input, "\n"); len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(lines)
	}

	// TOML [section] headers look like JSON arrays, so TOML is checked first.
	if isLikelyTOML(input) {
		return decodeOne("TOML", toml.Unmarshal, input)
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return decodeOne("JSON", json.Unmarshal, input)
	}

	return decodeOne("YAML", yaml.Unmarshal, input)
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	docs, err := LoadData(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// LoadReader parses everything readable from r.
func LoadReader(r io.Reader) ([]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadData(string(data))
}

func decodeOne(format string, unmarshal func([]byte, any) error, input string) ([]any, error) {
	var data any
	if err := unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", format, err)
	}
	return []any{data}, nil
}

func loadMultiDocYAML(input string) ([]any, error) {
	var results []any
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// loadNDJSON parses one JSON value per line. Lines that are not JSON are kept
// as plain strings.
func loadNDJSON(lines []string) ([]any, error) {
	results := make([]any, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var obj any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			results = append(results, line)
			continue
		}
		results = append(results, obj)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

// isLikelyNDJSON requires several non-empty lines, most of them starting like
// a JSON object or array. YAML lists of bare words do not qualify.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

// isLikelyTOML reports a TOML section header anywhere, or a majority of
// key = value lines.
func isLikelyTOML(input string) bool {
	keyValueCount := 0
	nonEmptyCount := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			return true
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}
