package services

import (
	"errors"
	"testing"
)

func TestWrapClassification(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := Wrap(ErrExternalProvider, "audio", "synthesize voiceover", "provider rejected request", cause)

	if !errors.Is(err, ErrExternalProvider) {
		t.Fatalf("expected external provider marker, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected validation marker in %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected original cause to be preserved in %v", err)
	}
}

func TestDetailsStripsMarkerPrefix(t *testing.T) {
	err := Wrap(ErrValidation, "script", "parse payload", "scenes missing", nil)
	details := Details(err)
	if details.Kind != KindValidation {
		t.Fatalf("expected validation kind, got %q", details.Kind)
	}
	if details.Message != "script: parse payload: scenes missing" {
		t.Fatalf("unexpected message %q", details.Message)
	}
}

func TestDetailsUnknown(t *testing.T) {
	details := Details(errors.New("boom"))
	if details.Kind != KindUnknown {
		t.Fatalf("expected unknown kind, got %q", details.Kind)
	}
	if details.Message != "boom" {
		t.Fatalf("unexpected message %q", details.Message)
	}
	if Details(nil).Kind != KindUnknown {
		t.Fatal("nil error should classify as unknown")
	}
}
