package event

import "encoding/json"

// DecodePayload converts an event payload to T. Payloads published on
// the in-process bus are already the right struct and pass the type
// assertion; payloads restored from JSON (dead letters, the audit log)
// arrive as maps and take the marshal round-trip instead.
func DecodePayload[T any](raw interface{}) (T, error) {
	if v, ok := raw.(T); ok {
		return v, nil
	}
	var decoded T
	data, err := json.Marshal(raw)
	if err != nil {
		return decoded, err
	}
	return decoded, json.Unmarshal(data, &decoded)
}
