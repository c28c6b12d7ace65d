package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacepod/pkg/catalog"
	"github.com/harrisonrobin/spacepod/pkg/config"
	"github.com/harrisonrobin/spacepod/pkg/google"
	"github.com/harrisonrobin/spacepod/pkg/kv"
	"github.com/harrisonrobin/spacepod/pkg/notify"
	"github.com/harrisonrobin/spacepod/pkg/reminder"
	"github.com/harrisonrobin/spacepod/pkg/store"
)

const name = "spacepod"

// app holds everything a command needs once config is loaded.
type app struct {
	cfgPath string
	cfg     *config.Config
	logger  log.Logger

	slot    kv.Store
	catalog *catalog.Static
	sched   *reminder.Scheduler
	store   *store.Store
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           name,
		Short:         "Track study tasks, awards and same-day reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cfg.Logging.Level)
			log.SetLogger(a.logger)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.slot != nil {
				return a.slot.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ~/.config/spacepod/config.yaml)")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newEditCmd(a),
		newRmCmd(a),
		newUnlockCmd(a),
		newAwardsCmd(a),
		newRemindersCmd(a),
		newAuthCmd(a),
		newSetCalendarCmd(a),
	)
	return root
}

func newLogger(level string) log.Logger {
	l := log.With(log.NewStdLogger(os.Stderr),
		"ts", log.Timestamp(time.DateTime),
		"service.name", name,
	)
	return log.NewFilter(l, log.FilterLevel(log.ParseLevel(level)))
}

// open builds the store from config and loads persisted state.
func (a *app) open(ctx context.Context) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	path := a.cfg.Storage.Path
	if path == "" {
		path = kv.DefaultPath(dir, a.cfg.Storage.Backend)
	}
	slot, err := kv.Open(a.cfg.Storage.Backend, path)
	if err != nil {
		return err
	}
	a.slot = slot

	a.catalog = catalog.Default()
	if a.cfg.Catalog.Path != "" {
		if a.catalog, err = catalog.Load(a.cfg.Catalog.Path); err != nil {
			return err
		}
	}

	a.sched = reminder.New(a.notifier(ctx),
		reminder.WithLogger(a.logger),
		reminder.WithTimeOfDay(a.cfg.Reminders.Hour, a.cfg.Reminders.Minute),
	)
	a.store = store.New(slot, a.catalog, a.sched, store.WithLogger(a.logger))

	helper := log.NewHelper(a.logger)
	a.store.Subscribe(func(e store.Event) {
		helper.Debugw("msg", "store changed", "event", e.Kind.String(), "task", e.TaskID, "award", e.AwardID)
	})
	a.store.Load(ctx)
	return nil
}

// notifier picks the reminder backend. Google failures fall back to logging
// because reminders are best-effort.
func (a *app) notifier(ctx context.Context) notify.Notifier {
	switch a.cfg.Reminders.Backend {
	case "google":
		n, err := google.NewClient(ctx, a.cfg.Reminders.Calendar, a.logger)
		if err == nil {
			return n
		}
		log.NewHelper(a.logger).Warnf("google reminders unavailable, logging instead: %v", err)
		return notify.NewLog(a.logger)
	case "none":
		return &notify.Recorder{}
	default:
		return notify.NewLog(a.logger)
	}
}
