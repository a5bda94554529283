package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/graphgen/internal/config"
)

// debounce is the quiet period after a config change before regenerating.
const debounce = 200 * time.Millisecond

func (a *app) watchCommand() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate every profile whenever the config file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.File == "" {
				return fmt.Errorf("watch needs a config file; use --config or create %s.yaml", config.FileName)
			}
			f.all = true
			return a.watch(cmd, &f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "write a schema snapshot: yaml or msgpack")
	return cmd
}

// watch generates all profiles, then again after every change of the config
// file until the command context is done.
func (a *app) watch(cmd *cobra.Command, f *generateFlags) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()
	file, err := filepath.Abs(a.cfg.File)
	if err != nil {
		return err
	}
	// Editors replace files on save, so the directory is watched.
	if err := w.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(file), err)
	}

	a.regenerate(cmd, f)
	ctx := cmd.Context()
	changed := make(chan struct{}, 1)
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isChange(event, file) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
		case <-changed:
			cfg, err := config.Load(a.cfg.File)
			if err != nil {
				failure(cmd.ErrOrStderr(), err)
				continue
			}
			a.cfg = cfg
			a.regenerate(cmd, f)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", zap.Error(err))
		}
	}
}

func isChange(event fsnotify.Event, file string) bool {
	if filepath.Clean(event.Name) != file {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (a *app) regenerate(cmd *cobra.Command, f *generateFlags) {
	notice(cmd.OutOrStdout(), "[%s] generating from %s", time.Now().Format(time.TimeOnly), a.cfg.File)
	jobs, err := a.jobs(f)
	if err == nil {
		err = a.run(cmd, jobs)
	}
	if err != nil {
		failure(cmd.ErrOrStderr(), err)
	}
}
