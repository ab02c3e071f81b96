package clipboard

import (
	"errors"
	"testing"
)

func TestServiceCopy(t *testing.T) {
	var received []string
	service := &Service{write: func(text string) error {
		received = append(received, text)
		return nil
	}}
	if err := service.Copy(""); err != nil {
		t.Fatalf("unexpected error for empty text: %v", err)
	}
	if err := service.Copy("Snapshot Report"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 1 || received[0] != "Snapshot Report" {
		t.Fatalf("unexpected clipboard writes: %v", received)
	}
}

func TestServiceCopyWrapsErrors(t *testing.T) {
	service := &Service{write: func(string) error { return ErrUnavailable }}
	err := service.Copy("text")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
