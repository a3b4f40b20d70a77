package loader

import (
	"fmt"
	"slices"
	"strings"
)

// Records flattens parsed documents into a list of objects.
//
// When field is set, each document must be an object and the records are
// read from that key. Otherwise a document that is a list contributes its
// elements, an object whose only value is a list contributes that list (the
// shape of a TOML [[table]] array), and any other object is a record itself.
func Records(docs []any, field string) ([]map[string]any, error) {
	var out []map[string]any
	for i, doc := range docs {
		value := doc
		if field != "" {
			obj, ok := doc.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("document %d: want an object with %q, got %T", i, field, doc)
			}
			value, ok = obj[field]
			if !ok {
				return nil, fmt.Errorf("document %d: missing field %q", i, field)
			}
		} else if obj, ok := doc.(map[string]any); ok && len(obj) == 1 {
			for _, v := range obj {
				if list, ok := v.([]any); ok {
					value = list
				}
			}
		}

		switch v := value.(type) {
		case map[string]any:
			out = append(out, v)
		case []any:
			for j, elem := range v {
				obj, ok := elem.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("document %d record %d: want an object, got %T", i, j, elem)
				}
				out = append(out, obj)
			}
		default:
			return nil, fmt.Errorf("document %d: want an object or a list of objects, got %T", i, value)
		}
	}
	return out, nil
}

// LoadRecords parses input and flattens it with Records.
func LoadRecords(input, field string) ([]map[string]any, error) {
	docs, err := LoadData(input)
	if err != nil {
		return nil, err
	}
	return Records(docs, field)
}

// LoadRecordsFile reads path and flattens it with Records.
func LoadRecordsFile(path, field string) ([]map[string]any, error) {
	docs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := Records(docs, field)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Words reads a word list. A JSON or YAML list of strings is used as is; any
// other input is split on whitespace, skipping lines that start with '#'.
// Duplicates are dropped, keeping the first occurrence.
func Words(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	var words []string
	if docs, err := LoadData(input); err == nil && len(docs) == 1 {
		if list, ok := stringList(docs[0]); ok {
			words = list
		}
	}
	if words == nil {
		for _, line := range strings.Split(input, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "#") {
				continue
			}
			words = append(words, strings.Fields(line)...)
		}
	}

	seen := make(map[string]struct{}, len(words))
	out := words[:0]
	for _, w := range words {
		if _, dup := seen[w]; dup || w == "" {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return slices.Clip(out), nil
}

func stringList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
