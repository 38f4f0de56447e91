package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadSettle is how long Watch waits after the last write event before
// reloading. Editors and provisioning tools often emit several events per
// save; collapsing them avoids reloading a half-written file.
const reloadSettle = 250 * time.Millisecond

// Watch monitors path and calls onChange with the freshly loaded Config
// after each change settles. It runs until ctx is cancelled.
//
// A failed reload (e.g., invalid YAML) is logged and onChange is not
// called, so the previously applied config stays active.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	var settle *time.Timer
	var settleC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Writes and creates both count: atomic saves replace the file
			// rather than writing it in place.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if settle == nil {
				settle = time.NewTimer(reloadSettle)
				settleC = settle.C
			} else {
				if !settle.Stop() {
					<-settle.C
				}
				settle.Reset(reloadSettle)
			}

		case <-settleC:
			settle = nil
			settleC = nil

			// An atomic save may have replaced the inode; re-add before
			// loading so the next save is seen too.
			_ = watcher.Add(path)

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", path, "err", err)
				continue
			}
			slog.Info("config: reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
