package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decodeWeak decodes a raw document into a typed record, coercing string
// values to numbers. Older releases of these tools wrote every field as a
// string, so weak typing is part of the document contract.
func decodeWeak(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decoding parameter document: %w", err)
	}
	return nil
}
