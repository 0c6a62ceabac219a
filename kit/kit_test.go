package kit

import (
	"context"
	"errors"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name+"_before")
				resp, err := next(ctx, req)
				order = append(order, name+"_after")
				return resp, err
			}
		}
	}

	base := func(_ context.Context, _ any) (any, error) {
		order = append(order, "endpoint")
		return "ok", nil
	}

	chained := Chain(mw("a"), mw("b"))(base)
	resp, err := chained(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp != "ok" {
		t.Fatalf("response: got %v", resp)
	}

	expected := []string{"a_before", "b_before", "endpoint", "b_after", "a_after"}
	if len(order) != len(expected) {
		t.Fatalf("order length: got %d, want %d", len(order), len(expected))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Fatalf("order[%d]: got %q, want %q", i, order[i], v)
		}
	}
}

func TestChain_ErrorPropagation(t *testing.T) {
	errFail := errors.New("fail")
	base := func(_ context.Context, _ any) (any, error) {
		return nil, errFail
	}

	noop := func(next Endpoint) Endpoint { return next }
	chained := Chain(noop)(base)

	_, err := chained(context.Background(), nil)
	if !errors.Is(err, errFail) {
		t.Fatalf("error: got %v, want %v", err, errFail)
	}
}

func TestWithTransportTag(t *testing.T) {
	var seen string
	base := func(ctx context.Context, _ any) (any, error) {
		seen = GetTransport(ctx)
		return nil, nil
	}

	if _, err := WithTransportTag(TransportHTTP)(base)(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if seen != TransportHTTP {
		t.Fatalf("transport: got %q, want %q", seen, TransportHTTP)
	}
}

func TestWithBuildIDTag(t *testing.T) {
	calls := 0
	newID := func() string { calls++; return "bld_new" }
	var seen string
	base := func(ctx context.Context, _ any) (any, error) {
		seen = GetBuildID(ctx)
		return nil, nil
	}
	ep := WithBuildIDTag(newID)(base)

	if _, err := ep(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if seen != "bld_new" || calls != 1 {
		t.Fatalf("fresh context: id=%q calls=%d", seen, calls)
	}

	if _, err := ep(WithBuildID(context.Background(), "bld_given"), nil); err != nil {
		t.Fatal(err)
	}
	if seen != "bld_given" || calls != 1 {
		t.Fatalf("preset id: id=%q calls=%d", seen, calls)
	}
}

func TestContext_Transport_Default(t *testing.T) {
	if v := GetTransport(context.Background()); v != TransportCLI {
		t.Fatalf("default transport: got %q, want %q", v, TransportCLI)
	}
}

func TestContext_BuildID(t *testing.T) {
	ctx := context.Background()
	if v := GetBuildID(ctx); v != "" {
		t.Fatalf("empty context: got %q", v)
	}
	ctx = WithBuildID(ctx, "bld_123")
	if v := GetBuildID(ctx); v != "bld_123" {
		t.Fatalf("build_id: got %q", v)
	}
}

func TestContext_RequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_abc")
	if v := GetRequestID(ctx); v != "req_abc" {
		t.Fatalf("request_id: got %q", v)
	}
}
