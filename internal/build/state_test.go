package build

import (
	"errors"
	"testing"
)

func TestNewLifecycle(t *testing.T) {
	l := newLifecycle()
	if l.current() != StateLoaded {
		t.Fatalf("state = %q, want %q", l.current(), StateLoaded)
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr bool
	}{
		{name: "loaded to copied", from: StateLoaded, to: StateFilesCopied},
		{name: "copied to rendered", from: StateFilesCopied, to: StateManifestRendered},
		{name: "repeat copied", from: StateFilesCopied, to: StateFilesCopied},
		{name: "skip copy", from: StateLoaded, to: StateManifestRendered, wantErr: true},
		{name: "backwards", from: StateManifestRendered, to: StateFilesCopied, wantErr: true},
		{name: "unknown target", from: StateLoaded, to: State("bundled"), wantErr: true},
		{name: "unknown source", from: State("bundled"), to: StateLoaded, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &lifecycle{state: tt.from}
			err := l.advance(tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrState) {
					t.Fatalf("err = %v, want %v", err, ErrState)
				}
				if l.current() != tt.from {
					t.Fatalf("state changed to %q on error", l.current())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l.current() != tt.to {
				t.Fatalf("state = %q, want %q", l.current(), tt.to)
			}
		})
	}
}

func TestReset(t *testing.T) {
	l := newLifecycle()
	if err := l.advance(StateFilesCopied); err != nil {
		t.Fatal(err)
	}
	if err := l.advance(StateManifestRendered); err != nil {
		t.Fatal(err)
	}

	l.reset()
	if l.current() != StateLoaded {
		t.Fatalf("state = %q, want %q", l.current(), StateLoaded)
	}
}
