package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"lusogate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func newSubmission(id, kind string, created time.Time) *models.Submission {
	return &models.Submission{
		ID:        id,
		Kind:      kind,
		ClientID:  "0123456789abcdef",
		Payload:   json.RawMessage(`{"content":"Olá a todos","recipientId":"` + id + `"}`),
		CreatedAt: created,
	}
}

// testStorage runs the behaviour every backend must share.
func testStorage(t *testing.T, s Storage) {
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})

	t.Run("Empty list", func(t *testing.T) {
		list, err := s.ListSubmissions(ctx, "", 0)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("Save and get", func(t *testing.T) {
		sub := newSubmission("msg-1", models.KindMessage, baseTime)
		require.NoError(t, s.SaveSubmission(ctx, sub))

		got, err := s.GetSubmission(ctx, "msg-1")
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		assert.Equal(t, sub.Kind, got.Kind)
		assert.Equal(t, sub.ClientID, got.ClientID)
		assert.JSONEq(t, string(sub.Payload), string(got.Payload))
		assert.True(t, sub.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, sub.CreatedAt)
	})

	t.Run("Missing submission", func(t *testing.T) {
		_, err := s.GetSubmission(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Invalid submission rejected", func(t *testing.T) {
		bad := newSubmission("bad-1", "poll", baseTime)
		assert.Error(t, s.SaveSubmission(ctx, bad))

		bad = newSubmission("bad-2", models.KindMessage, baseTime)
		bad.Payload = json.RawMessage(`{"content":`)
		assert.Error(t, s.SaveSubmission(ctx, bad))

		_, err := s.GetSubmission(ctx, "bad-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Save replaces", func(t *testing.T) {
		sub := newSubmission("msg-1", models.KindMessage, baseTime)
		sub.Payload = json.RawMessage(`{"content":"Editado"}`)
		require.NoError(t, s.SaveSubmission(ctx, sub))

		got, err := s.GetSubmission(ctx, "msg-1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"content":"Editado"}`, string(got.Payload))
	})

	t.Run("List newest first with kind filter and limit", func(t *testing.T) {
		require.NoError(t, s.SaveSubmission(ctx, newSubmission("msg-2", models.KindMessage, baseTime.Add(2*time.Minute))))
		require.NoError(t, s.SaveSubmission(ctx, newSubmission("evt-1", models.KindEvent, baseTime.Add(time.Minute))))
		require.NoError(t, s.SaveSubmission(ctx, newSubmission("msg-3", models.KindMessage, baseTime.Add(3*time.Minute))))

		all, err := s.ListSubmissions(ctx, "", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"msg-3", "msg-2", "evt-1", "msg-1"}, ids(all))

		messages, err := s.ListSubmissions(ctx, models.KindMessage, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"msg-3", "msg-2"}, ids(messages))

		none, err := s.ListSubmissions(ctx, models.KindUpload, 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Returned submissions are copies", func(t *testing.T) {
		got, err := s.GetSubmission(ctx, "msg-2")
		require.NoError(t, err)
		got.Kind = models.KindEvent
		got.Payload = json.RawMessage(`{}`)

		again, err := s.GetSubmission(ctx, "msg-2")
		require.NoError(t, err)
		assert.Equal(t, models.KindMessage, again.Kind)
		assert.NotEqual(t, `{}`, string(again.Payload))
	})

	t.Run("Concurrent saves", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sub := newSubmission(fmt.Sprintf("conc-%d", i), models.KindBusiness, baseTime.Add(time.Hour))
				assert.NoError(t, s.SaveSubmission(ctx, sub))
			}()
		}
		wg.Wait()

		list, err := s.ListSubmissions(ctx, models.KindBusiness, 0)
		require.NoError(t, err)
		assert.Len(t, list, 10)
	})
}

func ids(list []*models.Submission) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID
	}
	return out
}
