package ingest

import (
	"errors"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher publishes files that appear in a drop folder.
type Watcher struct {
	dir   string
	fsw   *fsnotify.Watcher
	files chan *File
	log   *zap.Logger
	stop  chan struct{}
	done  chan struct{}
}

// NewWatcher starts watching dir for newly created files.
func NewWatcher(dir string, log *zap.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch folder %s: not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:   dir,
		fsw:   fsw,
		files: make(chan *File, 16),
		log:   log.Named("watch"),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Files returns the channel new files are published on. It is closed
// when the watcher stops.
func (w *Watcher) Files() <-chan *File {
	return w.files
}

// Dir returns the watched folder.
func (w *Watcher) Dir() string {
	return w.dir
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.stop)
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.files)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			f, err := FromPath(ev.Name)
			if err != nil {
				// Directories and files removed before we could stat them.
				w.log.Debug("skip dropped entry", zap.String("path", ev.Name), zap.Error(err))
				continue
			}
			select {
			case w.files <- f:
			case <-w.stop:
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("drop folder events overflowed", zap.String("dir", w.dir))
				continue
			}
			w.log.Error("watch error", zap.Error(err))
		}
	}
}
