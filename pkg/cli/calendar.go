package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/todo/pkg/app"
	"github.com/harrisonrobin/todo/pkg/auth"
	"github.com/harrisonrobin/todo/pkg/config"
	"github.com/harrisonrobin/todo/pkg/google"
	"github.com/harrisonrobin/todo/pkg/index"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Mirror tasks into Google Calendar",
	}

	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar, replacing any cached token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			if err := auth.RemoveToken(dir); err != nil {
				return fmt.Errorf("could not delete cached token: %w", err)
			}
			if _, err := auth.GetCalendarService(cmd.Context(), dir); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved in %s\n", dir)
			return nil
		},
	}

	var calendarName string
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Push changed tasks to the calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(cfg *config.Config, s *app.Session) error {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				name := cfg.Calendar
				if calendarName != "" {
					name = calendarName
				}

				idx, err := index.NewEventIndex(dir)
				if err != nil {
					return fmt.Errorf("failed to load event index: %w", err)
				}
				client, err := google.NewClient(cmd.Context(), dir, name, idx)
				if err != nil {
					return err
				}
				syncer, err := google.NewSyncer(client, idx, dir)
				if err != nil {
					return err
				}
				report, err := syncer.Sync(cmd.Context(), s.Tasks(), time.Now())
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %d, marked overdue %d, deleted %d, skipped %d\n",
					report.Synced, report.MarkedOverdue, report.Deleted, report.Skipped)
				return err
			})
		},
	}
	syncCmd.Flags().StringVar(&calendarName, "calendar", "", "calendar name (overrides config)")

	setCmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Set the default calendar name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile()
			if err != nil {
				return err
			}
			cfg.Calendar = args[0]
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default calendar set to: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(authCmd, syncCmd, setCmd)
	return cmd
}
