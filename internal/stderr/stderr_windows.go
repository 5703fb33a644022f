//go:build windows

// Package stderr provides a no-op implementation for Windows.
// Windows audio backends don't produce the same stderr noise as ALSA.
package stderr

import "go.uber.org/zap"

// Capture is empty on Windows.
type Capture struct{}

// Start is a no-op on Windows.
func Start(_ *zap.Logger) (*Capture, error) {
	return &Capture{}, nil
}

// Stop is a no-op on Windows.
func (c *Capture) Stop() {}
