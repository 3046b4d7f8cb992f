package ops

import (
	"encoding/json"
	"fmt"

	"github.com/dvirzg/Forge/internal/errors"
)

// Parameter decoding for handlers. JSON numbers arrive as float64; helpers
// accept the numeric forms a decoded request can carry.

func strParam(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", &errors.ParamError{Param: key, Reason: "is required"}
	}

	s, ok := v.(string)
	if !ok {
		return "", &errors.ParamError{Param: key, Reason: fmt.Sprintf("must be a string, got %T", v)}
	}

	return s, nil
}

func optStrParam(params map[string]any, key, def string) (string, error) {
	if _, ok := params[key]; !ok {
		return def, nil
	}

	return strParam(params, key)
}

func intParam(params map[string]any, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, &errors.ParamError{Param: key, Reason: "is required"}
	}

	return toInt(key, v)
}

func optIntParam(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}

	return toInt(key, v)
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, &errors.ParamError{Param: key, Reason: fmt.Sprintf("must be an integer, got %v", n)}
		}

		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &errors.ParamError{Param: key, Reason: fmt.Sprintf("must be an integer, got %q", n)}
		}

		return int(i), nil
	default:
		return 0, &errors.ParamError{Param: key, Reason: fmt.Sprintf("must be an integer, got %T", v)}
	}
}

func strSliceParam(params map[string]any, key string) ([]string, error) {
	v, ok := params[key]
	if !ok {
		return nil, nil
	}

	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))

		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &errors.ParamError{Param: key, Reason: fmt.Sprintf("must contain only strings, got %T", item)}
			}

			out = append(out, s)
		}

		return out, nil
	default:
		return nil, &errors.ParamError{Param: key, Reason: fmt.Sprintf("must be an array of strings, got %T", v)}
	}
}
