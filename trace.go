package fakevalues

import (
	"encoding/json"
)

// Trace records which locales were consulted for a key and which one
// supplied the value.
type Trace struct {
	Key    string       `json:"key"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how one locale contributed to a traced key.
type Provenance struct {
	Locale   string `json:"locale"`
	Resource string `json:"resource,omitempty"`
	Value    any    `json:"value,omitempty"`
	Found    bool   `json:"found"`
}

// Winner returns the first layer that found a value.
func (t Trace) Winner() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
