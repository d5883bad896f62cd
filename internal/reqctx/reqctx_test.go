package reqctx

import (
	"context"
	"testing"
)

func TestAuthorizationRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := Authorization(ctx); got != "" {
		t.Fatalf("Authorization sin valor = %q, want vacío", got)
	}

	ctx = WithAuthorization(ctx, "Bearer abc")
	if got := Authorization(ctx); got != "Bearer abc" {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("RequestID sin valor = %q, want vacío", got)
	}
}
