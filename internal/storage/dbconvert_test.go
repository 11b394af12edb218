package storage

import (
	"encoding/json"
	"testing"
	"time"

	"lusogate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactPayload(t *testing.T) {
	got, err := compactPayload(json.RawMessage("{ \"content\" : \"Olá\",\n \"n\": 1 }"))
	require.NoError(t, err)
	assert.Equal(t, `{"content":"Olá","n":1}`, string(got))

	_, err = compactPayload(json.RawMessage("{"))
	assert.Error(t, err)
}

func TestCopySubmission(t *testing.T) {
	orig := newSubmission("sub-1", models.KindMessage, time.Now())
	c := copySubmission(orig)
	c.Payload[0] = '['
	c.Kind = models.KindEvent

	assert.Equal(t, byte('{'), orig.Payload[0])
	assert.Equal(t, models.KindMessage, orig.Kind)
}

func TestUnixNanoRoundTrip(t *testing.T) {
	lisbon := time.FixedZone("WEST", 3600)
	ts := time.Date(2026, 6, 10, 13, 0, 0, 123456789, lisbon)

	got := fromUnixNano(toUnixNano(ts))
	assert.True(t, ts.Equal(got))
	assert.Equal(t, time.UTC, got.Location())
}

func TestPrepare(t *testing.T) {
	_, err := prepare(nil)
	assert.Error(t, err)

	bad := newSubmission("", models.KindMessage, time.Now())
	_, err = prepare(bad)
	assert.Error(t, err)

	s := newSubmission("sub-1", models.KindMessage, time.Date(2026, 6, 10, 13, 0, 0, 0, time.FixedZone("WEST", 3600)))
	s.Payload = json.RawMessage(`{ "content": "Olá" }`)
	got, err := prepare(s)
	require.NoError(t, err)
	assert.Equal(t, `{"content":"Olá"}`, string(got.Payload))
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	assert.Equal(t, `{ "content": "Olá" }`, string(s.Payload), "input is not modified")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, DefaultListLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxListLimit, clampLimit(MaxListLimit+1))
}
