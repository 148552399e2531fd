// Package watcher reloads the config file when it changes on disk and
// publishes the result so a running demo can pick up new settings.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/log"
	"github.com/zjrosen/chaindemo/internal/pubsub"
)

// Reload is published after each debounced change. Exactly one of Config
// and Err is set.
type Reload struct {
	Config *config.Config
	Err    error
}

// Watcher monitors one config file and publishes reloads.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[Reload]
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns the defaults for watching path.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 250 * time.Millisecond,
	}
}

// New creates a config watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      filepath.Clean(cfg.Path),
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBrokerWithBuffer[Reload](4),
		done:      make(chan struct{}),
	}, nil
}

// Subscribe returns a channel of reloads, closed when ctx is done or the
// watcher stops.
func (w *Watcher) Subscribe(ctx context.Context) <-chan pubsub.Event[Reload] {
	return w.broker.Subscribe(ctx)
}

// Start begins watching. The directory is watched rather than the file so
// editors that replace the file on save are still seen.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "Watching config", "path", w.path)

	go w.loop()
	return nil
}

// Stop terminates the watcher and closes all subscriptions.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.broker.Close()
	return err
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := config.Load(w.path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Config reload failed", err, "path", w.path)
		w.broker.Publish(pubsub.UpdatedEvent, Reload{Err: err})
		return
	}
	log.Info(log.CatWatcher, "Config reloaded", "path", w.path)
	w.broker.Publish(pubsub.UpdatedEvent, Reload{Config: &cfg})
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}
