package ctxutil

import (
	"context"
	"testing"
)

func TestWithUserID_And_UserIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), 12345)

	got, ok := UserIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for valid user id")
	}
	if got != 12345 {
		t.Errorf("got %d, want 12345", got)
	}
}

func TestUserIDFromCtx_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := UserIDFromCtx(context.Background()); ok {
		t.Error("expected ok=false for empty context")
	}
}

func TestUserIDFromCtx_Zero(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), 0)
	if _, ok := UserIDFromCtx(ctx); ok {
		t.Error("expected ok=false for zero user id")
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromCtx(ctx); got != "req-1" {
		t.Errorf("got %q, want %q", got, "req-1")
	}

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
