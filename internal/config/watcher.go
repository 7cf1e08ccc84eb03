// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc receives the freshly loaded config, or the error that kept it
// from loading. On error the previous config stays in effect.
type ReloadFunc func(cfg *Config, err error)

// Watcher re-reads the config file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself, so editors
// that save by rename-and-replace are still picked up.
type Watcher struct {
	path     string
	onReload ReloadFunc
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *zap.Logger

	mu    sync.Mutex
	timer *time.Timer

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewWatcher creates a watcher for path. Call Start to begin watching.
func NewWatcher(path string, onReload ReloadFunc, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     filepath.Clean(path),
		onReload: onReload,
		debounce: DefaultDebounce,
		watcher:  fw,
		logger:   logger.Named("config"),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce overrides the debounce window. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Path returns the watched config file.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. The directory must already exist.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.started = true
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources. Pending reloads are dropped.
// It is safe to call after a failed Start.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("config watcher panic", zap.Any("panic", r))
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}

	cfg, err := LoadFromPath(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
	} else {
		SetGlobal(cfg)
		w.logger.Info("config reloaded",
			zap.String("path", w.path),
			zap.String("model", cfg.Gemini.Model),
			zap.Bool("grounding", cfg.Gemini.Grounding),
			zap.Bool("has_key", cfg.HasAPIKey()))
	}

	if w.onReload != nil {
		w.onReload(cfg, err)
	}
}
