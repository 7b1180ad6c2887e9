// Package tailer follows a growing log file and emits each appended line.
//
// Change detection is fsnotify on the file's directory, backed by a polling
// ticker: inotify misses writes over some network filesystems, and watching
// the directory rather than the file keeps rotation (rename + recreate)
// visible. Truncation restarts from offset zero.
package tailer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Tailer follows one log file from its current end.
//
// Thread-safe: Start/Stop can be called from any goroutine, but lines are
// delivered from a single goroutine, so the callback never runs concurrently
// with itself.
type Tailer struct {
	path         string
	pollInterval time.Duration

	callback func(line string) // called for each complete line
	onError  func(error)       // called for watch errors (optional)

	offset int64

	mu      sync.Mutex
	done    chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

// Config holds parameters for creating a Tailer.
type Config struct {
	// Path is the log file to follow. The file may not exist yet; it is
	// picked up on creation.
	Path string

	// PollInterval is the fallback scan interval. Default: 500ms.
	PollInterval time.Duration

	// FromStart reads the file's existing content before following new
	// writes. Default is to seek to the end and deliver only new lines.
	FromStart bool

	// Callback is called for each complete appended line, without the
	// trailing newline. Must be non-nil.
	Callback func(line string)

	// OnError is called for watcher errors. Optional.
	OnError func(error)
}

// New creates a Tailer. Does not start following until Start is called.
func New(cfg Config) (*Tailer, error) {
	if cfg.Callback == nil {
		return nil, fmt.Errorf("tailer: callback is required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("tailer: resolve %s: %w", cfg.Path, err)
	}
	interval := cfg.PollInterval
	if interval == 0 {
		interval = 500 * time.Millisecond
	}
	t := &Tailer{
		path:         abs,
		pollInterval: interval,
		callback:     cfg.Callback,
		onError:      cfg.OnError,
		done:         make(chan struct{}),
	}
	if !cfg.FromStart {
		if info, err := os.Stat(abs); err == nil {
			t.offset = info.Size()
		}
	}
	return t, nil
}

// Start begins following in a background goroutine.
func (t *Tailer) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tailer: watcher: %w", err)
	}
	// Watch the directory: rotation replaces the file, and events for a
	// recreated file only arrive through its parent.
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("tailer: watch %s: %w", filepath.Dir(t.path), err)
	}

	t.wg.Add(1)
	go t.loop(watcher)
	return nil
}

// Stop terminates the follow loop and waits for it to finish.
// Safe to call multiple times.
func (t *Tailer) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	close(t.done)
	t.mu.Unlock()
	t.wg.Wait()
}

// Path returns the file being followed.
func (t *Tailer) Path() string {
	return t.path
}

func (t *Tailer) loop(watcher *fsnotify.Watcher) {
	defer t.wg.Done()
	defer watcher.Close()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	// Catch up anything written between New and Start.
	t.readNewLines()

	for {
		select {
		case <-t.done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != t.path {
				continue
			}
			if event.Has(fsnotify.Create) {
				// Rotated: a fresh file starts from the beginning.
				t.offset = 0
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				t.readNewLines()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if t.onError != nil {
				t.onError(err)
			}
		case <-ticker.C:
			t.readNewLines()
		}
	}
}

// readNewLines delivers content appended since the last read. Uses
// ReadBytes('\n') to track exact byte offsets (bufio.Scanner reads ahead and
// corrupts file position tracking). A partially written last line stays
// unconsumed until its newline arrives.
func (t *Tailer) readNewLines() {
	f, err := os.Open(t.path)
	if err != nil {
		return // file gone or not yet created — next cycle
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return
	}
	if info.Size() < t.offset {
		// Truncated in place — start over.
		t.offset = 0
	}
	if info.Size() == t.offset {
		return
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return
	}

	reader := bufio.NewReaderSize(f, 256*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			// Incomplete trailing line: leave it for the next read.
			return
		}
		t.offset += int64(len(line))
		t.callback(string(trimNewline(line)))
	}
}

// trimNewline removes a trailing \n and \r\n from a line.
func trimNewline(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line
}
