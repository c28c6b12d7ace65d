package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacepod/pkg/auth"
	"github.com/harrisonrobin/spacepod/pkg/config"
	"github.com/harrisonrobin/spacepod/pkg/google"
	"github.com/harrisonrobin/spacepod/pkg/model"
	"github.com/harrisonrobin/spacepod/pkg/reminder"
	"github.com/harrisonrobin/spacepod/pkg/store"
	"github.com/harrisonrobin/spacepod/pkg/util"
)

func newAddCmd(a *app) *cobra.Command {
	var subject, emoji, priority, due string
	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := model.Task{
				Subject: subject,
				Name:    strings.Join(args, " "),
				Emoji:   emoji,
			}
			p, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}
			task.Priority = p
			if due != "" {
				t, err := util.ParseDue(due, time.Now())
				if err != nil {
					return err
				}
				task.DueAt = model.At(t)
			}

			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			added, err := a.store.Add(cmd.Context(), task)
			if err := nonFatal(cmd, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", added.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "subject the task belongs to")
	cmd.Flags().StringVarP(&emoji, "emoji", "e", "", "display emoji")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityLow), "low, medium or high")
	cmd.Flags().StringVarP(&due, "due", "d", "", "due date: +2d, 2026-10-20 18:00, tomorrow at 5pm")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), a.store.Tasks(), time.Now(), all)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	return cmd
}

func printTasks(w io.Writer, tasks []model.Task, now time.Time, all bool) {
	for _, t := range tasks {
		state := reminder.Classify(t, now, now.Location())
		if state == reminder.Completed && !all {
			continue
		}

		prefix := " "
		switch state {
		case reminder.Completed:
			prefix = "✓"
		case reminder.Overdue:
			prefix = "!"
		case reminder.DueToday:
			prefix = "‣"
		}

		due := ""
		if t.DueAt != nil {
			due = "  (" + util.HumanDue(t.DueAt.Time, now) + ")"
		}
		fmt.Fprintf(w, "%s %s  %s %s %s: %s%s\n",
			prefix, shortID(t.ID), priorityColor(t.Priority).Sprintf("%-6s", t.Priority), t.Emoji, t.Subject, t.Name, due)
	}
}

func priorityColor(p model.Priority) *color.Color {
	switch p {
	case model.PriorityHigh:
		return color.New(color.FgRed, color.Bold)
	case model.PriorityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			task, err := resolveTask(a.store, args[0])
			if err != nil {
				return err
			}
			task.CompletedAt = model.At(time.Now())
			if err := nonFatal(cmd, a.store.Update(cmd.Context(), task)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s: %s\n", task.Subject, task.Name)
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var subject, name, emoji, priority, due string
	var clearDue, reopen bool
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			task, err := resolveTask(a.store, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("subject") {
				task.Subject = subject
			}
			if flags.Changed("name") {
				task.Name = name
			}
			if flags.Changed("emoji") {
				task.Emoji = emoji
			}
			if flags.Changed("priority") {
				if task.Priority, err = model.ParsePriority(priority); err != nil {
					return err
				}
			}
			if flags.Changed("due") {
				t, err := util.ParseDue(due, time.Now())
				if err != nil {
					return err
				}
				task.DueAt = model.At(t)
			}
			if clearDue {
				task.DueAt = nil
			}
			if reopen {
				task.CompletedAt = nil
			}

			if err := nonFatal(cmd, a.store.Update(cmd.Context(), task)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", task.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "new subject")
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&emoji, "emoji", "e", "", "new emoji")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&due, "due", "d", "", "new due date")
	cmd.Flags().BoolVar(&clearDue, "no-due", false, "remove the due date")
	cmd.Flags().BoolVar(&reopen, "reopen", false, "mark the task pending again")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			task, err := resolveTask(a.store, args[0])
			if err != nil {
				return err
			}
			if err := nonFatal(cmd, a.store.Delete(cmd.Context(), task)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", task.ID)
			return nil
		},
	}
}

func newUnlockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock SUBJECT",
		Short: "Unlock the first award of a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			added, err := a.store.UnlockAward(cmd.Context(), args[0])
			if err := nonFatal(cmd, err); err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(cmd.OutOrStdout(), "%s award already unlocked\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s award unlocked\n", args[0])
			return nil
		},
	}
}

func newAwardsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "awards",
		Short: "Show the award catalog and what is unlocked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			unlocked := make(map[string]time.Time)
			for _, u := range a.store.UnlockedAwards() {
				unlocked[u.AwardID] = u.UnlockedAt.Time
			}

			w := cmd.OutOrStdout()
			for _, s := range a.catalog.Subjects() {
				fmt.Fprintln(w, s.Name)
				for _, aw := range s.Awards {
					if at, ok := unlocked[aw.ImageName]; ok {
						fmt.Fprintf(w, "  %s %s (%s)\n", color.GreenString("★"), aw.Title, at.Local().Format(time.DateOnly))
					} else {
						fmt.Fprintf(w, "  ☆ %s\n", aw.Title)
					}
				}
			}
			return nil
		},
	}
}

func newRemindersCmd(a *app) *cobra.Command {
	var sync bool
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show today's reminders; --sync pushes them to the notifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			if sync {
				if err := nonFatal(cmd, a.store.Save(cmd.Context())); err != nil {
					return err
				}
			}
			alerts := a.sched.Alerts(a.store.Tasks(), time.Now())
			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reminders for today")
			}
			for _, al := range alerts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", al.Trigger.Format("15:04"), al.Body)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sync, "sync", false, "re-register reminders with the notification backend")
	return cmd
}

func newAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := auth.RemoveToken(); err != nil {
				return fmt.Errorf("could not delete token file, please delete it manually: %w", err)
			}
			if _, err := google.NewClient(cmd.Context(), a.cfg.Reminders.Calendar, a.logger); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Authentication successful!")
			return nil
		},
	}
}

func newSetCalendarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-calendar NAME",
		Short: "Set the Google Calendar used for reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.Update(a.cfgPath, func(c *config.Config) {
				c.Reminders.Calendar = args[0]
				c.Reminders.Backend = "google"
			})
			if err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			a.cfg.Reminders.Calendar = args[0]
			a.cfg.Reminders.Backend = "google"
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder calendar set to: %s\n", args[0])
			return nil
		},
	}
}

// resolveTask finds a task by full ID or unique prefix.
func resolveTask(s *store.Store, ref string) (model.Task, error) {
	if t, ok := s.Task(ref); ok {
		return t, nil
	}
	var matches []model.Task
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("task %s not found", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("task prefix %s is ambiguous (%d matches)", ref, len(matches))
	}
}

// nonFatal downgrades a persistence failure to a warning; the change is
// still applied in memory.
func nonFatal(cmd *cobra.Command, err error) error {
	var perr *store.PersistError
	if errors.As(err, &perr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", perr)
		return nil
	}
	return err
}
