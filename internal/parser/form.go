package parser

import (
	"io"
	"net/url"
	"strings"
)

type formStrategy struct{}

func (formStrategy) Parse(body io.Reader, _ map[string]string) (*Body, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, newParseError(KindForm, ReasonMalformed, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, newParseError(KindForm, ReasonEmpty, nil)
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, newParseError(KindForm, ReasonMalformed, err)
	}

	return &Body{Record: recordFromValues(values)}, nil
}

// recordFromValues flattens form values: one value becomes a string,
// repeated keys become []string.
func recordFromValues(values map[string][]string) Record {
	rec := make(Record, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
			continue
		case 1:
			rec[key] = vals[0]
		default:
			rec[key] = append([]string(nil), vals...)
		}
	}
	return rec
}
