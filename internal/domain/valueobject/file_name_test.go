package valueobject

import (
	"strings"
	"testing"
)

func TestNewFileName_ValidName_ReturnsFileName(t *testing.T) {
	fn, err := NewFileName("report.txt")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Value() != "report.txt" {
		t.Errorf("got %q, want %q", fn.Value(), "report.txt")
	}
}

func TestNewFileName_TrimsSurroundingSpaces(t *testing.T) {
	fn, err := NewFileName("  notes.md ")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Value() != "notes.md" {
		t.Errorf("got %q, want %q", fn.Value(), "notes.md")
	}
}

func TestNewFileName_Empty_ReturnsErrFileNameEmpty(t *testing.T) {
	_, err := NewFileName("   ")

	if err != ErrFileNameEmpty {
		t.Errorf("expected ErrFileNameEmpty, got: %v", err)
	}
}

func TestNewFileName_Reserved_ReturnsErrFileNameReserved(t *testing.T) {
	for _, name := range []string{".", ".."} {
		if _, err := NewFileName(name); err != ErrFileNameReserved {
			t.Errorf("%q: expected ErrFileNameReserved, got: %v", name, err)
		}
	}
}

func TestNewFileName_PathSeparator_ReturnsErrFileNameForbiddenChars(t *testing.T) {
	for _, name := range []string{"../etc/passwd", `dir\file.txt`} {
		if _, err := NewFileName(name); err != ErrFileNameForbiddenChars {
			t.Errorf("%q: expected ErrFileNameForbiddenChars, got: %v", name, err)
		}
	}
}

func TestNewFileName_TooLong_ReturnsErrFileNameTooLong(t *testing.T) {
	_, err := NewFileName(strings.Repeat("a", FileNameMaxLength+1))

	if err != ErrFileNameTooLong {
		t.Errorf("expected ErrFileNameTooLong, got: %v", err)
	}
}

func TestFileName_Extension_IsLowercased(t *testing.T) {
	fn, _ := NewFileName("Spec.DOCX")

	if fn.Extension() != ".docx" {
		t.Errorf("got %q, want %q", fn.Extension(), ".docx")
	}
}
