package strategy

import (
	"context"
	"fmt"
	"strings"
)

// RecordIndex searches a dataset of objects by one field.
type RecordIndex struct {
	records []map[string]any
	field   string
}

// NewRecordIndex searches records by field, "name" when field is empty.
func NewRecordIndex(records []map[string]any, field string) *RecordIndex {
	if field == "" {
		field = "name"
	}
	return &RecordIndex{records: records, field: field}
}

// Len returns the number of records.
func (r *RecordIndex) Len() int { return len(r.records) }

// Search returns the records whose field starts with term, case-insensitively,
// in dataset order. Records without the field never match.
func (r *RecordIndex) Search(ctx context.Context, term string) ([]any, error) {
	lower := strings.ToLower(term)
	var out []any
	for _, rec := range r.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, ok := rec[r.field]
		if !ok || v == nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(fmt.Sprint(v)), lower) {
			out = append(out, rec)
		}
	}
	return out, nil
}
