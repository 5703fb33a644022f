package playback

// Scheduler runs blocking work away from the event loop and hands its
// result back to the loop. done must run on the loop, never concurrently
// with another controller method.
type Scheduler interface {
	Go(work func() error, done func(error))
}

// Inline runs work and done immediately on the calling goroutine.
type Inline struct{}

// Go implements Scheduler.
func (Inline) Go(work func() error, done func(error)) {
	done(work())
}
