package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/volbatch/src/models"
)

// ErrUnsupportedType is returned when a value outside the closed set of
// encodable kinds reaches the coercion pass.
var ErrUnsupportedType = errors.New("unsupported type")

func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Normalize recursively replaces NaN leaves with nil so the coercion pass
// never sees one. Numeric slices are expanded to []interface{} here for the
// same reason. Input is assumed acyclic.
func Normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out

	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out

	case []float64:
		out := make([]interface{}, len(val))
		for i, f := range val {
			if math.IsNaN(f) {
				out[i] = nil
			} else {
				out[i] = f
			}
		}
		return out

	case float64:
		if math.IsNaN(val) {
			return nil
		}
		return val

	case float32:
		if math.IsNaN(float64(val)) {
			return nil
		}
		return val

	default:
		return v
	}
}

// Coerce resolves every leaf into one of {nil, bool, int, 2dp float,
// string}, rebuilding maps and sequences on the way down. Values outside
// the known set fail with ErrUnsupportedType.
func Coerce(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil

	case bool, string, int:
		return val, nil

	case int8:
		return int(val), nil
	case int16:
		return int(val), nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case uint:
		return int(val), nil
	case uint8:
		return int(val), nil
	case uint16:
		return int(val), nil
	case uint32:
		return int(val), nil
	case uint64:
		return int(val), nil

	case float32:
		return coerceFloat(float64(val)), nil

	case float64:
		return coerceFloat(val), nil

	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: json.Number %q", ErrUnsupportedType, val.String())
		}
		return coerceFloat(f), nil

	case time.Time:
		return isoDate(val), nil

	case []time.Time:
		out := make([]interface{}, len(val))
		for i, t := range val {
			out[i] = t.Format("2006-01-02")
		}
		return out, nil

	case []float64:
		out := make([]interface{}, len(val))
		for i, f := range val {
			out[i] = coerceFloat(f)
		}
		return out, nil

	case []int:
		out := make([]interface{}, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out, nil

	case []string:
		out := make([]interface{}, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, nil

	case models.Table:
		return coerceTable(val)

	case *models.Table:
		if val == nil {
			return nil, nil
		}
		return coerceTable(*val)

	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			coerced, err := Coerce(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %v", k, err)
			}
			out[k] = coerced
		}
		return out, nil

	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			coerced, err := Coerce(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %v", i, err)
			}
			out[i] = coerced
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// Encode runs the NaN scrub followed by the coercion pass. Re-encoding an
// already encoded tree is a no-op.
func Encode(v interface{}) (interface{}, error) {
	coerced, err := Coerce(Normalize(v))
	if err != nil {
		log.Errorf("failed to encode result tree: %v", err)
		return nil, err
	}

	return coerced, nil
}

// WriteJSONFile encodes v and writes it to path.
func WriteJSONFile(path string, v interface{}) error {
	encoded, err := Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %v", path, err)
	}

	data, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %v", path, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}

	return nil
}

// DeepCopyTree copies nested maps and sequences so later mutation of the
// source cannot reach the copy. Leaves are value types and shared as-is.
func DeepCopyTree(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = DeepCopyTree(item)
		}
		return out

	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = DeepCopyTree(item)
		}
		return out

	case []float64:
		out := make([]float64, len(val))
		copy(out, val)
		return out

	case []time.Time:
		out := make([]time.Time, len(val))
		copy(out, val)
		return out

	default:
		return v
	}
}

func coerceFloat(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}

	return Round2(f)
}

func coerceTable(t models.Table) (interface{}, error) {
	tree, err := Coerce(Normalize(t.Tree()))
	if err != nil {
		return nil, fmt.Errorf("table: %v", err)
	}

	data, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal table: %v", err)
	}

	return string(data), nil
}

func isoDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}

	return t.Format(time.RFC3339)
}
