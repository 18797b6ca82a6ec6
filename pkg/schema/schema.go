package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/lattice/pkg/domain"
)

// Schema is a map of field names to their expected types.
type Schema map[string]Type

var (
	textFields = Schema{"title": String(), "content": String()}

	payloadSchemas = map[domain.NodeType]Schema{
		domain.NodeModel:        {"provider": String(), "model": String(), "temperature": Custom("temperature", temperature)},
		domain.NodeCompiler:     {"title": String(), "lastRunId": String()},
		domain.NodeDesignSystem: textFields,
		domain.NodeCritique:     textFields,
		domain.NodeHypothesis:   {"strategyId": String(), "name": String(), "rationale": String()},
		domain.NodeVariant: {
			"strategyId":     String(),
			"activeResultId": String(),
			"versions":       Slice(String()),
			"pinnedRunId":    String(),
		},
	}
)

func temperature(v any) error {
	if err := Float().Validate(v); err != nil {
		return err
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	default:
		return nil
	}
	if f < 0 || f > 2 {
		return fmt.Errorf("must be within [0, 2]")
	}
	return nil
}

// For returns the payload schema of t. Unknown types have no schema.
func For(t domain.NodeType) Schema {
	if t.IsSection() {
		return textFields
	}
	return payloadSchemas[t]
}

// ValidatePartial checks only the fields present in data. Keys outside the
// schema are rejected.
func ValidatePartial(s Schema, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		value := data[key]
		fieldType, ok := s[key]
		if !ok {
			errs = append(errs, &ValidationError{Key: key, Reason: "not defined in schema"})
			continue
		}
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ErrNoSchema is returned when merging into a payload whose type has no schema.
var ErrNoSchema = errors.New("node type has no payload schema")
