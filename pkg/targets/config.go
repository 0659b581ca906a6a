package targets

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/leapcompat/pkg/engine"
	"github.com/leapstack-labs/leapcompat/pkg/version"
)

// FromConfig converts a structured config map into targets.
//
// Keys must be canonical engine names ("chrome", "ios", "opera_mobile").
// Values may be version strings or numbers; 15.4 is read as 15.4.0. The
// conversion fails as a whole on the first bad key or value, in key order.
func FromConfig(raw map[string]any) (EngineTargets, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var t EngineTargets
	for _, k := range keys {
		e, err := engine.Parse(k)
		if err != nil {
			return EngineTargets{}, &ConfigError{Key: k, Value: raw[k], Err: err}
		}

		s, err := decodeVersionString(raw[k])
		if err != nil {
			return EngineTargets{}, &ConfigError{Key: k, Value: raw[k], Err: err}
		}
		v, err := version.Parse(s)
		if err != nil {
			return EngineTargets{}, &ConfigError{Key: k, Value: raw[k], Err: err}
		}
		t.Set(e, v)
	}
	return t, nil
}

// decodeVersionString uses weak decoding so YAML numbers (80, 15.4) become
// version strings. Booleans and collections are rejected.
func decodeVersionString(value any) (string, error) {
	var out string
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       versionValueHook,
		Result:           &out,
	})
	if err != nil {
		return "", err
	}
	if err := dec.Decode(value); err != nil {
		return "", err
	}
	return out, nil
}

func versionValueHook(from reflect.Type, _ reflect.Type, data any) (any, error) {
	switch from.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return data, nil
	default:
		return nil, fmt.Errorf("expected a version string or number, got %T", data)
	}
}
