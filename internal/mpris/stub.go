//go:build !linux

package mpris

import (
	"errors"

	"go.uber.org/zap"
)

// Adapter is unavailable without a freedesktop session bus.
type Adapter struct{}

// New reports that media keys need MPRIS on Linux.
func New(Host, *zap.Logger) (*Adapter, error) {
	return nil, errors.ErrUnsupported
}

func (*Adapter) Close() error { return nil }
