package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"vlmbridge/models"
)

// DecodeCommand converts a validated payload map into a typed Command.
// Weakly-typed decoding covers the vector components the model sometimes
// emits as numeric strings ("1.5").
func DecodeCommand(payload map[string]any) (*models.Command, error) {
	var command models.Command

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &command,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}

	if err := decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("failed to decode command payload: %w", err)
	}

	return &command, nil
}
