package targets

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders targets as an object keyed by canonical engine name.
func (t EngineTargets) MarshalJSON() ([]byte, error) {
	if t.floors == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t.floors)
}

// UnmarshalJSON decodes the config shape accepted by FromConfig.
func (t *EngineTargets) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*t = EngineTargets{}
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := FromConfig(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var (
	_ json.Marshaler   = EngineTargets{}
	_ json.Unmarshaler = (*EngineTargets)(nil)
)
