package appconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// ErrNothingToWatch is returned when no backing file currently exists.
var ErrNothingToWatch = errors.New("no backing files to watch")

// Watch emits the path of every backing file that is modified externally
// while the session is open, until ctx is canceled. It is purely advisory:
// the engine stays single-writer, and hosts typically use the events to show
// the same warning CheckBackingFiles produces without polling.
func (s *Session) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	watched := 0
	for path := range s.snapshots {
		if !s.snapshots[path].exists {
			continue
		}

		err := watcher.Add(path)
		if err != nil {
			slog.Debug("cannot watch backing file",
				slog.String("path", path),
				slog.Any("error", err),
			)

			continue
		}

		watched++
	}

	if watched == 0 {
		_ = watcher.Close()

		return nil, ErrNothingToWatch
	}

	ch := make(chan string)

	go func() {
		defer close(ch)
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Write | fsnotify.Remove | fsnotify.Rename | fsnotify.Create) {
					select {
					case ch <- event.Name:
					case <-ctx.Done():
						return
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				slog.Warn("watch error", slog.Any("error", err))
			}
		}
	}()

	return ch, nil
}
