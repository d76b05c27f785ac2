package config

import (
	"context"
	"path/filepath"

	"service-request-form/internal/logger"

	"gopkg.in/fsnotify.v1"
)

// Watch reloads the config whenever the file is written or replaced and
// hands the new value to onChange. Invalid files are reported and skipped.
// The directory is watched because editors often replace the file.
func Watch(ctx context.Context, configPath string, onChange func(*Conf)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return err
	}

	target := filepath.Clean(configPath)

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				logger.Debug("Config event:", event.String())
				cnf, err := GetConfig(configPath)
				if err != nil {
					logger.Warning("Invalid config, keeping the previous one:", err)
					continue
				}
				logger.Info("Config reloaded")
				onChange(cnf)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warning("Config watcher error:", err)
			}
		}
	}()

	return nil
}
