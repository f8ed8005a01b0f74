package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func getStringField(m map[string]any, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", newValidationError(key, RuleMissingField, "is required")
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", newValidationError(key, RuleWrongType, fmt.Sprintf("has type %s, want string", jsonTypeName(v)))
	}
	if required && strings.TrimSpace(s) == "" {
		return "", newValidationError(key, RuleMissingField, "is empty")
	}
	return s, nil
}

// getOptionalStringField returns nil for absent or null values.
func getOptionalStringField(m map[string]any, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, newValidationError(key, RuleWrongType, fmt.Sprintf("has type %s, want string or null", jsonTypeName(v)))
	}
	return &s, nil
}

// getFloat64Field accepts JSON numbers and numeric strings.
// The bool result reports whether a value was present.
func getFloat64Field(m map[string]any, key string, required bool) (float64, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return 0, false, newValidationError(key, RuleMissingField, "is required")
		}
		return 0, false, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, true, newValidationError(key, RuleWrongType, err.Error())
	}
	return f, true, nil
}

func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, fmt.Errorf("has value %q, want number", val.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("has value %q, want number", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("has type %s, want number", jsonTypeName(v))
	}
}

func getLineItems(m map[string]any) ([]LineItem, error) {
	v, ok := m[FieldLineItems]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, newValidationError(FieldLineItems, RuleWrongType, fmt.Sprintf("has type %s, want array or null", jsonTypeName(v)))
	}

	items := make([]LineItem, 0, len(raw))
	for i, el := range raw {
		field := fmt.Sprintf("%s[%d]", FieldLineItems, i)
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, newValidationError(field, RuleWrongType, fmt.Sprintf("has type %s, want object", jsonTypeName(el)))
		}

		desc, err := getStringField(obj, FieldLineDescription, true)
		if err != nil {
			return nil, prefixField(field, err)
		}
		qty, present, err := getFloat64Field(obj, FieldLineQuantity, false)
		if err != nil {
			return nil, prefixField(field, err)
		}
		if !present {
			qty = DefaultQuantity
		}
		total, _, err := getFloat64Field(obj, FieldLineTotalPrice, true)
		if err != nil {
			return nil, prefixField(field, err)
		}

		items = append(items, LineItem{Description: desc, Quantity: qty, TotalPrice: total})
	}
	return items, nil
}

func prefixField(prefix string, err error) error {
	if ve, ok := err.(*ValidationError); ok {
		return newValidationError(prefix+"."+ve.Field, ve.Rule, ve.Reason)
	}
	return err
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
