package guard

import (
	"context"
	"net/http"
)

type contextKey int

const (
	payloadKey contextKey = iota
	clientIDKey
)

func withPayload(ctx context.Context, payload any) context.Context {
	return context.WithValue(ctx, payloadKey, payload)
}

func withClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// Payload returns the validated payload for a guarded request, or nil for
// endpoints without a schema.
func Payload(r *http.Request) any {
	return r.Context().Value(payloadKey)
}

// PayloadAs returns the validated payload as *T.
func PayloadAs[T any](r *http.Request) (*T, bool) {
	p, ok := Payload(r).(*T)
	return p, ok
}

// ClientID returns the rate limit identifier computed for the request.
func ClientID(r *http.Request) string {
	id, _ := r.Context().Value(clientIDKey).(string)
	return id
}
