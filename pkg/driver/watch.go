package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"

	"modlint/pkg/diag"
)

// Watch re-checks files as they change. Each write event re-parses the one
// file and drives the incremental single-script path; results go to onResult.
// Events are handled one at a time on this goroutine, so re-checks never
// overlap. Watch returns when ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, dirs []string, onResult func(path string, diags []diag.Diagnostic, err error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("driver: watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("driver: watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".js") || !r.admits(event.Name) {
				continue
			}
			r.logger.Debug("rechecking", "file", event.Name)
			diags, err := r.RecheckFile(event.Name)
			onResult(event.Name, diags, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", "err", err)
		}
	}
}
