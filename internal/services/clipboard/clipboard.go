// Package clipboard copies rendered reports to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is installed.
var ErrUnavailable = errors.New("system clipboard is unavailable")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	write func(string) error
}

// NewService constructs a clipboard service backed by the system clipboard.
func NewService() *Service {
	return &Service{write: writeSystemClipboard}
}

func writeSystemClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Copy writes text to the clipboard. Empty text is not copied.
func (service *Service) Copy(text string) error {
	if text == "" {
		return nil
	}
	if err := service.write(text); err != nil {
		return fmt.Errorf("copying %d bytes to clipboard: %w", len(text), err)
	}
	return nil
}

var _ Copier = (*Service)(nil)
