// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     watch
// Description: Re-checks fnlang sources whenever they change on disk
// Author:      msto63
// Created:     2025-12-11
// License:     MIT
// ============================================================================

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang"
)

// DefaultDebounce is used when Options.Debounce is zero
const DefaultDebounce = 200 * time.Millisecond

// Result is the outcome of checking one file
type Result struct {
	Path       string
	Source     string
	Statements int
	Elapsed    time.Duration
	Err        error
	Diagnostic lang.Diagnostic
}

// OK reports whether the file parsed without errors
func (r Result) OK() bool {
	return r.Err == nil
}

// Handler receives check results
type Handler func(Result)

// Options configures a Watcher
type Options struct {
	Debounce   time.Duration
	Extensions []string
	Logger     *mdwlog.Logger
}

// Watcher checks files with the engine on create and write events
type Watcher struct {
	engine  *lang.Engine
	handler Handler
	logger  *mdwlog.Logger

	debounceDelay time.Duration
	extensions    []string

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	dirs    map[string]bool // directories watched as a whole
	files   map[string]bool // single files watched through their directory
	pending map[string]*time.Timer

	ready     chan string // paths whose debounce window elapsed
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a watcher. The handler is called from the goroutine running Run.
func New(engine *lang.Engine, opts Options, handler Handler) (*Watcher, error) {
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".fn"}
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeWatchFailed).
			WithOperation("watch.new")
	}

	return &Watcher{
		engine:        engine,
		handler:       handler,
		logger:        opts.Logger.WithField("component", "watch"),
		debounceDelay: opts.Debounce,
		extensions:    opts.Extensions,
		watcher:       watcher,
		dirs:          make(map[string]bool),
		files:         make(map[string]bool),
		pending:       make(map[string]*time.Timer),
		ready:         make(chan string),
		done:          make(chan struct{}),
	}, nil
}

// Add watches a file or a directory
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return mdwerror.Wrap(err, "invalid path").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("watch.add").
			WithDetail("path", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return mdwerror.Wrap(err, "cannot watch path").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("watch.add").
			WithDetail("path", path)
	}

	dir := abs
	w.mu.Lock()
	if info.IsDir() {
		w.dirs[abs] = true
	} else {
		// Editors replace files on save, so the directory is watched instead
		dir = filepath.Dir(abs)
		w.files[abs] = true
	}
	w.mu.Unlock()

	if err := w.watcher.Add(dir); err != nil {
		return mdwerror.Wrap(err, "failed to watch directory").
			WithCode(mdwerror.CodeWatchFailed).
			WithOperation("watch.add").
			WithDetail("path", dir)
	}

	w.logger.Info("Watching", mdwlog.Fields{"path": abs})
	return nil
}

// Files lists the watched files that currently exist, sorted by path
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]bool)
	for file := range w.files {
		if _, err := os.Stat(file); err == nil {
			seen[file] = true
		}
	}
	for dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !w.hasExtension(entry.Name()) {
				continue
			}
			seen[filepath.Join(dir, entry.Name())] = true
		}
	}

	files := make([]string, 0, len(seen))
	for file := range seen {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// CheckAll checks every watched file once
func (w *Watcher) CheckAll(ctx context.Context) {
	for _, file := range w.Files() {
		w.handler(w.CheckFile(ctx, file))
	}
}

// CheckFile reads and checks a single file
func (w *Watcher) CheckFile(ctx context.Context, path string) Result {
	result := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = mdwerror.Wrap(err, "failed to read file").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("watch.check").
			WithDetail("path", path)
		result.Diagnostic = lang.DiagnosticFrom(result.Err)
		return result
	}
	result.Source = string(data)

	parsed, err := w.engine.Parse(ctx, result.Source)
	if err != nil {
		result.Err = err
		result.Diagnostic = lang.DiagnosticFrom(err)
		return result
	}

	result.Statements = len(parsed.Statements)
	result.Elapsed = parsed.Duration
	return result
}

// Run processes events until ctx is done and closes the watcher afterwards
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping file watcher (context cancelled)")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case path := <-w.ready:
			w.logger.Debug("File settled", mdwlog.Fields{"file": filepath.Base(path)})
			w.handler(w.CheckFile(ctx, path))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorWithErr("Watcher error", err)
		}
	}
}

// Close stops watching without waiting for Run
func (w *Watcher) Close() error {
	w.stopPending()
	return w.watcher.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.matches(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		w.logger.Debug("File changed", mdwlog.Fields{"file": filepath.Base(event.Name), "op": event.Op.String()})
		w.schedule(event.Name)

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.cancel(event.Name)
		w.logger.Debug("File removed", mdwlog.Fields{"file": filepath.Base(event.Name)})
	}
}

// schedule (re)starts the debounce timer of path. The check runs once the
// file has been quiet for the whole window.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounceDelay, func() {
		w.mu.Lock()
		current := w.pending[path] == t
		if current {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		if !current {
			return
		}
		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
	w.pending[path] = t
}

// cancel drops a pending check of path
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// stopPending drops all pending checks and releases timers blocked on Run
func (w *Watcher) stopPending() {
	w.closeOnce.Do(func() { close(w.done) })

	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// matches reports whether path belongs to a watched file or directory
func (w *Watcher) matches(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[path] {
		return true
	}
	return w.dirs[filepath.Dir(path)] && w.hasExtension(path)
}

func (w *Watcher) hasExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range w.extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
