package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kapilsuryawanshi/ReminderCLI/internal/config"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/proc"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/schedule"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/storage"
)

func openStore() (*storage.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("opening storage: %w", err)
	}
	return store, cfg, nil
}

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add <message...> <time>",
	Short: "Add a new reminder",
	Long: `Add a new reminder. The last argument is the time, everything before
it is the message.

Examples:
  remind add Pay rent 25m
  remind add "Stand-up meeting" 09:45
  remind add Stretch 2h`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args[:len(args)-1], " ")
		token := args[len(args)-1]

		scheduled, duration, err := schedule.Parse(token, time.Now())
		if err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Create(message, scheduled, duration)
		if err != nil {
			return fmt.Errorf("saving reminder: %w", err)
		}

		fmt.Printf("Reminder added with ID: %d\n", id)
		fmt.Printf("Message: %s\n", message)
		fmt.Printf("Scheduled for: %s\n", scheduled.Format("2006-01-02 15:04:05"))
		return nil
	},
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

func runList() error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	reminders, err := store.ListAll()
	if err != nil {
		return fmt.Errorf("listing reminders: %w", err)
	}

	now := time.Now()
	if len(reminders) == 0 {
		fmt.Println("No reminders found.")
	} else {
		fmt.Printf("%-3s %-30s %-10s %-20s %-15s %-20s %-25s\n",
			"ID", "Message", "Duration", "Scheduled Time", "Remaining Time", "Last Shown", "Status")
		fmt.Println(strings.Repeat("-", 128))

		for _, r := range reminders {
			lastShown := "Never"
			if r.LastShown != nil {
				lastShown = formatStamp(*r.LastShown, now)
			}
			fmt.Printf("%-3d %-30s %-10s %-20s %-15s %-20s %-25s\n",
				r.ID,
				truncate(r.Message, 30),
				r.Duration,
				formatStamp(r.ScheduledTime, now),
				schedule.Remaining(r.ScheduledTime, now),
				lastShown,
				statusDisplay(r, now),
			)
		}
	}

	ctrl := proc.New(cfg.Storage.DataDir)
	if _, running := ctrl.IsRunning(); running {
		fmt.Println("\nDaemon Status: Active")
	} else {
		fmt.Println("\nDaemon Status: Inactive")
	}
	return nil
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// formatStamp renders t as time-only when it falls on the same day as
// now, and date+time otherwise.
func formatStamp(t, now time.Time) string {
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("2006-01-02 15:04")
}

// statusDisplay derives the live status column. A snoozed reminder
// whose snooze has not yet expired shows when it will return; an
// expired snooze reads as active even before the store catches up.
func statusDisplay(r storage.Reminder, now time.Time) string {
	if r.Status == storage.StatusSnoozed && r.SnoozeUntil != nil && now.Before(*r.SnoozeUntil) {
		return "Snoozed until " + formatStamp(*r.SnoozeUntil, now)
	}
	return "Active"
}

// --- remove ---

var removeCmd = &cobra.Command{
	Use:   "remove <id[,id...]>",
	Short: "Remove reminder(s) by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDList(args[0])
		if err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		removed := 0
		for _, id := range ids {
			switch err := store.Delete(id); {
			case err == nil:
				fmt.Printf("Reminder %d removed successfully\n", id)
				removed++
			case errors.Is(err, storage.ErrNotFound):
				fmt.Printf("Reminder %d not found\n", id)
			default:
				return fmt.Errorf("removing reminder %d: %w", id, err)
			}
		}

		if removed == 0 {
			fmt.Println("No reminders were removed")
		} else {
			fmt.Printf("Successfully removed %d reminder(s)\n", removed)
		}
		return nil
	},
}

// parseIDList parses a comma-separated list of reminder IDs.
func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID format, use comma-separated integers (e.g. 1,2,5): %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
