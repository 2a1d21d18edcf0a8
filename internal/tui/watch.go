package tui

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fileChangedMsg signals that the backing file was modified on disk.
type fileChangedMsg struct{}

// watchErrMsg carries a watcher failure into the update loop.
type watchErrMsg struct{ err error }

// watchDebounce coalesces the write bursts editors emit on save.
const watchDebounce = 200 * time.Millisecond

// fileWatcher bridges fsnotify events into Bubble Tea messages. Changes are
// debounced, and saves made by the editor itself are suppressed so they do
// not bounce back as a reload.
type fileWatcher struct {
	path   string
	logger *slog.Logger

	changes chan struct{}
	done    chan struct{}

	mu            sync.Mutex
	suppressUntil time.Time
	closeOnce     sync.Once
}

func newFileWatcher(path string, logger *slog.Logger) *fileWatcher {
	return &fileWatcher{
		path:    path,
		logger:  logger,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// start begins watching and returns the command waiting for the first change.
func (w *fileWatcher) start() tea.Cmd {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return func() tea.Msg { return watchErrMsg{err} }
	}
	// Watch the directory, not the file: editors that write via
	// rename-and-replace would otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return func() tea.Msg { return watchErrMsg{err} }
	}

	go w.loop(watcher)
	return w.next()
}

func (w *fileWatcher) loop(watcher *fsnotify.Watcher) {
	defer func() { _ = watcher.Close() }()

	var debounceTimer *time.Timer

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if w.suppressed() {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				w.logger.Debug("backing file changed", "file", event.Name)
				select {
				case w.changes <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// next returns a command that blocks until the next debounced change.
func (w *fileWatcher) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.done:
			return nil
		case <-w.changes:
			return fileChangedMsg{}
		}
	}
}

// suppress ignores events for a short window around the editor's own saves.
func (w *fileWatcher) suppress() {
	w.mu.Lock()
	w.suppressUntil = time.Now().Add(time.Second)
	w.mu.Unlock()
}

func (w *fileWatcher) suppressed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Now().Before(w.suppressUntil)
}

func (w *fileWatcher) stop() {
	w.closeOnce.Do(func() { close(w.done) })
}
