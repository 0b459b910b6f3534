package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that decodes YAML values like
// "5s" or "1h30m" instead of raw nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements custom YAML unmarshaling for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration '%s': %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON renders the duration in its human-readable string form
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts the same "1h30m" string form MarshalJSON produces
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration '%s': %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// ToDuration converts the wrapper back to time.Duration
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}
