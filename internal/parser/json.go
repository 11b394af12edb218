package parser

import (
	"encoding/json"
	"errors"
	"io"
)

type jsonStrategy struct{}

func (jsonStrategy) Parse(body io.Reader, _ map[string]string) (*Body, error) {
	dec := json.NewDecoder(body)

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newParseError(KindJSON, ReasonEmpty, nil)
		}
		return nil, newParseError(KindJSON, ReasonMalformed, err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, newParseError(KindJSON, ReasonNotObject, nil)
	}

	// Anything after the object means the body was not one JSON document.
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, newParseError(KindJSON, ReasonMalformed, errors.New("unexpected data after object"))
	}

	return &Body{Record: Record(obj)}, nil
}
