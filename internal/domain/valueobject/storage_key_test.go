package valueobject

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewStorageKey_FormatsLocation(t *testing.T) {
	fileID := uuid.MustParse("6f1c2f0e-2d7e-4a57-9d0b-3f2b8a9c1e11")

	key, err := NewStorageKey(fileID, 3)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "6f1c2f0e-2d7e-4a57-9d0b-3f2b8a9c1e11/v3.txt"
	if key.String() != want {
		t.Errorf("got %q, want %q", key.String(), want)
	}
	if key.Namespace() != fileID.String() {
		t.Errorf("namespace: got %q, want %q", key.Namespace(), fileID.String())
	}
}

func TestNewStorageKey_SameIdentity_SameLocation(t *testing.T) {
	fileID := uuid.New()

	a, _ := NewStorageKey(fileID, 7)
	b, _ := NewStorageKey(fileID, 7)

	if a.String() != b.String() {
		t.Errorf("expected stable location, got %q and %q", a.String(), b.String())
	}
}

func TestNewStorageKey_InvalidInput_ReturnsError(t *testing.T) {
	if _, err := NewStorageKey(uuid.Nil, 1); !errors.Is(err, ErrInvalidStorageKey) {
		t.Errorf("nil id: expected ErrInvalidStorageKey, got %v", err)
	}
	if _, err := NewStorageKey(uuid.New(), 0); !errors.Is(err, ErrInvalidStorageKey) {
		t.Errorf("version 0: expected ErrInvalidStorageKey, got %v", err)
	}
}

func TestParseStorageKey_RoundTrip(t *testing.T) {
	key, _ := NewStorageKey(uuid.New(), 12)

	parsed, err := ParseStorageKey(key.String())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != key {
		t.Errorf("got %+v, want %+v", parsed, key)
	}
}

func TestParseStorageKey_Malformed_ReturnsError(t *testing.T) {
	for _, s := range []string{"", "no-slash", "not-a-uuid/v1.txt", uuid.NewString() + "/latest"} {
		if _, err := ParseStorageKey(s); !errors.Is(err, ErrInvalidStorageKey) {
			t.Errorf("%q: expected ErrInvalidStorageKey, got %v", s, err)
		}
	}
}
