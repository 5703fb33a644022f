//go:build !windows

// Package stderr captures output that C audio libraries (ALSA through oto)
// write straight to file descriptor 2, so it lands in the log instead of on
// top of the TUI.
package stderr

import (
	"os"
	"syscall"

	"go.uber.org/zap"
)

// Capture redirects fd 2 into a pipe while active.
type Capture struct {
	origStderr int
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
}

// Start begins capturing stderr and forwards each line to log at warn
// level. Must be called before the audio output is initialised. On error
// the program can continue; output just goes to the original stderr.
func Start(log *zap.Logger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	// Save original stderr file descriptor
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	// Redirect stderr (fd 2) to the pipe's write end
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		origStderr: orig,
		pipeRead:   r,
		pipeWrite:  w,
		done:       make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		Forward(r, log.Named("stderr"))
	}()
	return c, nil
}

// Stop restores the original stderr and waits for pending lines to be
// logged.
func (c *Capture) Stop() {
	if c == nil {
		return
	}

	_ = syscall.Dup2(c.origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(c.origStderr)
	c.origStderr = 0

	// fd 2 no longer references the pipe, so this is the last writer.
	c.pipeWrite.Close()
	<-c.done
	c.pipeRead.Close()
}
