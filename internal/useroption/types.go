package useroption

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Option is a single named preference. A nil Value means the preference is to be
// removed; a pointer to "" is a preference set to the empty string.
type Option struct {
	Key   string
	Value *string
}

// NewOption returns an Option with a present value.
func NewOption(key, value string) Option {
	return Option{Key: key, Value: &value}
}

// UserInfo is a snapshot of the user's identity and preferences.
type UserInfo struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Anon    bool         `json:"anon,omitempty"`
	Options OptionValues `json:"options"`
}

// OptionValues maps preference keys to their values. The API reports values as JSON
// strings, numbers, booleans or null; they are normalized to strings.
type OptionValues map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (v *OptionValues) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	values := make(OptionValues, len(raw))
	for key, msg := range raw {
		s, err := optionString(msg)
		if err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
		values[key] = s
	}
	*v = values
	return nil
}

func optionString(msg json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return "", err
	}

	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	default:
		// Arrays and objects are kept as compact JSON.
		var buf bytes.Buffer
		if err := json.Compact(&buf, msg); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}
