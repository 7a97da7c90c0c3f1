package content

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before
// a sync pass runs, so an editor's multi-write save triggers one pass.
const DefaultDebounce = 300 * time.Millisecond

// Watcher re-syncs the content directory after debounced file events.
// Intended for long-running development processes; one-shot contexts
// call Syncer.Sync directly.
type Watcher struct {
	syncer   *Syncer
	debounce time.Duration
	fsw      *fsnotify.Watcher
	done     chan struct{}

	syncFn func() // replaced in tests to observe sync passes
}

func NewWatcher(syncer *Syncer, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		syncer:   syncer,
		debounce: debounce,
		done:     make(chan struct{}),
	}
	w.syncFn = func() { syncer.Sync() }
	return w
}

// Start begins observing the content directory. The startup sync pass
// already covers existing files, so nothing is re-reported at boot.
// Failures are logged and leave the watcher inert; they never crash the
// host process.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Error creating file watcher: %v", err)
		return err
	}

	if err := fsw.Add(w.syncer.dir); err != nil {
		log.Printf("Error watching %s: %v", w.syncer.dir, err)
		fsw.Close()
		return err
	}

	w.fsw = fsw
	go w.loop()
	log.Printf("Watching %s for markdown changes", w.syncer.dir)
	return nil
}

func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if strings.ToLower(filepath.Ext(event.Name)) != ".md" {
				continue
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// Deletions never remove records; operators delete
				// posts through the admin API.
				log.Printf("%s removed, keeping its post record", filepath.Base(event.Name))
				continue
			}

			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timer.C:
			w.syncFn()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

// Stop ends observation. Safe to call when Start failed.
func (w *Watcher) Stop() {
	if w.fsw == nil {
		return
	}
	close(w.done)
	w.fsw.Close()
	w.fsw = nil
}
