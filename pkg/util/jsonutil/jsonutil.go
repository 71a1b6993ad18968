package jsonutil

import (
	"bytes"
	"encoding/json"
)

// ToString encodes the input as compact JSON ("" on failure)
func ToString(input interface{}) string {
	return string(toBytes(input, false))
}

// ToPretty encodes the input as indented JSON ("" on failure)
func ToPretty(input interface{}) string {
	return string(toBytes(input, true))
}

func toBytes(input interface{}, pretty bool) []byte {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(input); err != nil {
		return nil
	}

	return out.Bytes()
}
