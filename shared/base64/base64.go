package base64

import (
	stdBase64 "encoding/base64"
	"encoding/json"
	"fmt"
)

// EncodeJSON marshals v and returns it as standard base64.
func EncodeJSON(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	return stdBase64.StdEncoding.EncodeToString(payload), nil
}

func DecodeJSON(encoded string, v any) error {
	payload, err := stdBase64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	if err = json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
