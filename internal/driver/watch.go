package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch checks paths once, then again every time one of them is written or
// created, until ctx is done. Directories are watched rather than files so
// editors that replace a file on save keep working.
// onCheck, if not nil, is called after every run with the checked paths.
func (r *Runner) Watch(ctx context.Context, paths []string, onCheck func(paths []string, err error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true

		if err := w.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	run := func(paths []string) {
		err := r.CheckFiles(ctx, paths)
		if onCheck != nil {
			onCheck(paths, err)
		}
	}

	run(paths)

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if !watched[name] {
				continue
			}
			pending[name] = true
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if r.Stderr != nil {
				fmt.Fprintf(r.Stderr, "rbc: watch: %v\n", err)
			}
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			slices.Sort(changed)
			run(changed)
		}
	}
}
