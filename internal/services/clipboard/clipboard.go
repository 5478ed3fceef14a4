// Package clipboard places rendered trees on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	systemclipboard "github.com/atotto/clipboard"
)

// ErrUnsupported reports that no clipboard utility is available on this system.
var ErrUnsupported = errors.New("system clipboard is not available")

const errorWriteFormat = "write clipboard: %w"

// Copier copies text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// Service is the Copier backed by the operating system clipboard.
type Service struct {
	unsupported bool
	write       func(string) error
}

// NewService returns a Service that writes through github.com/atotto/clipboard.
func NewService() *Service {
	return &Service{unsupported: systemclipboard.Unsupported, write: systemclipboard.WriteAll}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if service.unsupported {
		return ErrUnsupported
	}
	if writeError := service.write(text); writeError != nil {
		return fmt.Errorf(errorWriteFormat, writeError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
