package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ============================================================================
// WATCHER — Hot reload for configuration files
// ============================================================================

// ChangeCallback is called when the configuration changes.
type ChangeCallback func(oldConfig, newConfig *Config)

// Watcher watches a configuration file and reloads it on change.
type Watcher struct {
	configFile string
	loader     *Loader

	config   *Config
	configMu sync.RWMutex

	fsWatcher *fsnotify.Watcher

	callbacks   []ChangeCallback
	callbacksMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher and loads the initial configuration.
func NewWatcher(configFile string, loader *Loader) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigWatchError, err)
	}

	cfg, err := loader.LoadFromFile(configFile)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		configFile: configFile,
		loader:     loader,
		config:     cfg,
		fsWatcher:  fsWatcher,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.configMu.RLock()
	defer w.configMu.RUnlock()
	return w.config
}

// OnChange registers a callback invoked after each successful reload.
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.callbacksMu.Lock()
	defer w.callbacksMu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching. Editors often replace files instead of writing
// in place, so the parent directory is watched rather than the file.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.configFile)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigWatchError, err)
	}

	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Stop stops watching and releases the file system watcher.
func (w *Watcher) Stop() {
	w.cancel()
	w.fsWatcher.Close()
	w.wg.Wait()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	// Debounce: editors fire several events per save.
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.configFile) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(100*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️ Workerforge: config watch error: %v", err)

		case <-reload:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	newCfg, err := w.loader.LoadFromFile(w.configFile)
	if err != nil {
		log.Printf("⚠️ Workerforge: config reload failed: %v", err)
		return
	}
	if err := newCfg.Validate(); err != nil {
		log.Printf("⚠️ Workerforge: reloaded config invalid, keeping current: %v", err)
		return
	}

	w.configMu.Lock()
	oldCfg := w.config
	w.config = newCfg
	w.configMu.Unlock()

	log.Printf("🔁 Workerforge: configuration reloaded from %s", w.configFile)

	w.callbacksMu.RLock()
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.callbacksMu.RUnlock()

	for _, cb := range callbacks {
		cb(oldCfg, newCfg)
	}
}

// ============================================================================
// FILE WATCH — One-shot helper for watching arbitrary files
// ============================================================================

// WatchFiles invokes fn with the path of any listed file that changes,
// until ctx is cancelled. Used by the CLI's --watch lint mode.
func WatchFiles(ctx context.Context, paths []string, fn func(path string)) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigWatchError, err)
	}
	defer fsWatcher.Close()

	watched := make(map[string]bool, len(paths))
	for _, p := range paths {
		watched[filepath.Clean(p)] = true
		if err := fsWatcher.Add(filepath.Dir(p)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfigWatchError, p, err)
		}
	}

	var timers sync.Map // path → *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if !watched[name] || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if t, ok := timers.Load(name); ok {
				t.(*time.Timer).Stop()
			}
			timers.Store(name, time.AfterFunc(100*time.Millisecond, func() {
				fn(name)
			}))

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("⚠️ Workerforge: file watch error: %v", err)
		}
	}
}
