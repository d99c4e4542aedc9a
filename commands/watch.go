package commands

import (
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounce window for bursts of file events, editors often write several
// times per save.
const watchSettle = 300 * time.Millisecond

func watchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-validate the store whenever a record changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			root := m.Config().Paths.GovRoot
			err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return watcher.Add(path)
				}
				return nil
			})
			if err != nil {
				return err
			}

			runCheck := func() {
				report, err := m.Check("")
				if err != nil {
					warnf("check: %v", err)
					return
				}
				printReport(report)
			}

			step("watching %s", root)
			runCheck()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

			var settle *time.Timer
			settleC := make(chan struct{}, 1)

			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if strings.HasSuffix(ev.Name, ".tmp") || strings.Contains(filepath.Base(ev.Name), ".tmp-") {
						continue
					}
					// New subdirectories need their own watch.
					if ev.Has(fsnotify.Create) {
						if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
							_ = watcher.Add(ev.Name)
						}
					}
					if settle != nil {
						settle.Stop()
					}
					settle = time.AfterFunc(watchSettle, func() {
						select {
						case settleC <- struct{}{}:
						default:
						}
					})
				case <-settleC:
					step("change detected")
					runCheck()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					warnf("watch: %v", err)
				case <-sig:
					return nil
				}
			}
		},
	}
}
