package stream

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileSource replays a recorded event stream from disk. With Follow set it
// keeps reading as the file grows, like tail -f, until the file is removed
// or ctx is cancelled.
type FileSource struct {
	Path   string
	Follow bool
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return "file://" + s.Path
}

// Stream decodes the file's frames in order.
func (s *FileSource) Stream(ctx context.Context, emit func(Event)) error {
	file, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("open event file: %w", err)
	}
	defer file.Close()

	var watcher *fsnotify.Watcher
	if s.Follow {
		watcher, err = fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()
		// Watch the directory so removals and renames are reported even on
		// platforms that drop the watch with the file.
		if err := watcher.Add(filepath.Dir(s.Path)); err != nil {
			return fmt.Errorf("watch %s: %w", s.Path, err)
		}
	}

	target := filepath.Clean(s.Path)
	dec := NewDecoder(file)
	for {
		ev, err := dec.Next()
		if err == nil {
			emit(ev)
			continue
		}
		if err != io.EOF {
			return fmt.Errorf("read event file: %w", err)
		}
		if !s.Follow {
			return nil
		}

		grown, err := waitForWrite(ctx, watcher, target)
		if err != nil {
			return err
		}
		if !grown {
			return nil
		}
	}
}

// waitForWrite blocks until target is written. It returns false when the
// file goes away or ctx ends.
func waitForWrite(ctx context.Context, watcher *fsnotify.Watcher, target string) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, nil
		case event, ok := <-watcher.Events:
			if !ok {
				return false, nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return false, nil
			}
			if event.Op&fsnotify.Write != 0 {
				return true, nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return false, nil
			}
			return false, fmt.Errorf("watch event file: %w", err)
		}
	}
}
