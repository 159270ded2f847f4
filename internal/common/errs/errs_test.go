package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatchesSentinelOfSameKind(t *testing.T) {
	err := New(KindNotFound, "resolve", "redis", errors.New("no stable version"))

	if !errors.Is(err, ErrNotFound) {
		t.Error("expected NotFound error to match ErrNotFound")
	}
	if errors.Is(err, ErrFetch) {
		t.Error("NotFound error should not match ErrFetch")
	}
}

func TestErrorMatchesThroughWrapping(t *testing.T) {
	inner := New(KindConflict, "update file", "apps/versions.toml", nil)
	wrapped := fmt.Errorf("publishing redis: %w", inner)

	if !errors.Is(wrapped, ErrConflict) {
		t.Error("expected wrapped conflict to match ErrConflict")
	}
	if KindOf(wrapped) != KindConflict {
		t.Errorf("KindOf = %v, want %v", KindOf(wrapped), KindConflict)
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(KindFetch, "fetch index", "https://charts.example.com/index.yaml", cause)

	if !errors.Is(err, cause) {
		t.Error("expected error to unwrap to its cause")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Error("plain errors should be KindUnknown")
	}
	if KindOf(nil) != KindUnknown {
		t.Error("nil should be KindUnknown")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "full",
			err:  New(KindRefExists, "create branch", "u-redis-17.0.5", errors.New("HTTP 422")),
			want: "create branch u-redis-17.0.5: HTTP 422",
		},
		{
			name: "sentinel",
			err:  ErrDecode,
			want: "decode",
		},
		{
			name: "no op",
			err:  &Error{Kind: KindConfig, Err: errors.New("GITHUB_TOKEN is not set")},
			want: "config: GITHUB_TOKEN is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindHostingAPI.String() != "hosting api" {
		t.Errorf("unexpected name %q", KindHostingAPI.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("unexpected name %q", Kind(99).String())
	}
}
