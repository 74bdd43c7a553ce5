package xerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", New(KindTransport, "socket closed"), KindTransport},
		{"wrapped classified", fmt.Errorf("start: %w", New(KindRemoteTeardown, "Meeting has ended")), KindRemoteTeardown},
		{"bad password", fmt.Errorf("sign in: %w", ErrInvalidCredentials), KindInvalidCredential},
		{"bad token", ErrInvalidSession, KindInvalidCredential},
		{"missing config", ErrConfigMissing, KindConfigMissing},
		{"plain", errors.New("boom"), ""},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("%s: KindOf() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("connection refused")
	err := WrapKind(KindPersistence, "save feedback", base)
	if !errors.Is(err, base) {
		t.Fatalf("errors.Is(wrapped, base) = false, want true")
	}
	if err.Error() != "persistence_error: save feedback: connection refused" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
