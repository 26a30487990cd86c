// Package fixture feeds externally-edited fixture files into a testlet
// session.
//
// A Source watches a file with fsnotify and decodes it into the state's load
// type whenever it is written. Decoded values are buffered; the test drains
// them on its own goroutine with Process, keeping the session single-threaded:
//
//	src := fixture.New[Counter](path, session.When()["load"])
//	if err := src.Start(ctx); err != nil { ... }
//
//	testlet.WaitFor(t, time.Second, src.Process)
//	session.Then(func(current, previous Counter) { ... })
//
// Combined with WaitUntil, this lets tests assert on state changes driven by
// something outside the runtime entirely.
package fixture

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	testlet "github.com/Fluxlet/fluxlet-testlet"
)

// Source watches a fixture file and forwards each decoded value to a
// dispatcher as its single argument.
type Source[S any] struct {
	path     string
	codec    Codec
	dispatch testlet.Dispatcher

	changes chan S
	started bool
}

// New creates a Source for the given file path. Values are decoded with
// JSONCodec by default.
func New[S any](path string, dispatch testlet.Dispatcher) *Source[S] {
	return &Source[S]{
		path:     path,
		codec:    JSONCodec{},
		dispatch: dispatch,
		changes:  make(chan S, 16),
	}
}

// WithCodec sets the codec used to decode file contents. Must be called
// before Start().
func (s *Source[S]) WithCodec(c Codec) *Source[S] {
	s.codec = c
	return s
}

// Start begins watching the file. The current contents are decoded and
// buffered immediately; subsequent writes buffer a new value each. Watching
// stops when ctx is canceled. Start can only be called once.
func (s *Source[S]) Start(ctx context.Context) error {
	if s.started {
		return fmt.Errorf("fixture: source already started")
	}
	s.started = true

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fixture: failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return fmt.Errorf("fixture: failed to watch %s: %w", s.path, err)
	}

	go s.watch(ctx, watcher)
	return nil
}

// Process dispatches the next buffered value, if any, and reports whether
// one was dispatched. Call it from the test goroutine; fixture values never
// enter the session from the watch goroutine.
func (s *Source[S]) Process() bool {
	select {
	case v, ok := <-s.changes:
		if !ok {
			return false
		}
		s.dispatch(v)
		return true
	default:
		return false
	}
}

func (s *Source[S]) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(s.changes)
	defer watcher.Close()

	s.read(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.read(ctx)

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Keep watching despite transient errors.
		}
	}
}

// read decodes the current file contents and buffers the value. Unreadable
// or undecodable contents are skipped; the next write gets another chance.
func (s *Source[S]) read(ctx context.Context) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var v S
	if err := s.codec.Unmarshal(data, &v); err != nil {
		return
	}
	select {
	case s.changes <- v:
	case <-ctx.Done():
	}
}
