package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/todo/pkg/app"
	"github.com/harrisonrobin/todo/pkg/config"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/todo"
	"github.com/harrisonrobin/todo/pkg/util"
)

func newAddCmd() *cobra.Command {
	var (
		d        model.Draft
		estimate string
	)
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Text = strings.Join(args, " ")
			if estimate != "" {
				minutes, err := util.ParseEstimate(estimate)
				if err != nil {
					return fmt.Errorf("invalid estimate: %w", err)
				}
				d.TimeEstimate = &minutes
			}
			if d.DueDate != "" {
				if _, err := model.ParseDate(d.DueDate); err != nil {
					return fmt.Errorf("invalid due date: %w", err)
				}
			}
			return withSession(cmd.Context(), func(_ *config.Config, s *app.Session) error {
				task, ok, err := s.Add(cmd.Context(), d)
				if !ok {
					return fmt.Errorf("task text must not be blank")
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s\n", task.ID, task.Text)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&d.Category, "category", "c", "", "category: "+strings.Join(model.Categories, ", "))
	f.StringVarP(&d.DueDate, "due", "d", "", "due date (YYYY-MM-DD, default today)")
	f.StringVarP(&d.Priority, "priority", "p", "", "priority: low, medium or high")
	f.StringVarP(&d.Notes, "notes", "n", "", "free-form notes")
	f.StringArrayVarP(&d.Tags, "tag", "t", nil, "tag, may be repeated")
	f.StringVarP(&estimate, "estimate", "e", "", "time estimate (45, 1h30m or PT1H30M)")
	return cmd
}

func newListCmd() *cobra.Command {
	var filter, search, sortBy string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}
			sk, err := model.ParseSort(sortBy)
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(_ *config.Config, s *app.Session) error {
				tasks, stats := s.Snapshot(todo.Query{Filter: f, Search: search, Sort: sk})
				printTasks(cmd.OutOrStdout(), tasks, time.Now())
				printStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active, completed or overdue")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive search over text, category and tags")
	cmd.Flags().StringVar(&sortBy, "sort", "created", "dueDate, priority, alphabetical, created or modified")
	return cmd
}

func printTasks(w io.Writer, tasks []model.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range tasks {
		mark := "[ ]"
		switch {
		case t.Completed:
			mark = "[x]"
		case t.IsOverdue(now):
			mark = "[!]"
		}
		var tags string
		for _, tag := range t.Tags {
			tags += " #" + tag
		}
		fmt.Fprintf(tw, "%s\t%d\t%s%s\t%s\t%s\t%s\n", mark, t.ID, t.Text, tags, t.Category, t.Priority, t.DueDate)
	}
	tw.Flush()
}

func printStats(w io.Writer, st todo.Stats) {
	fmt.Fprintf(w, "%d total, %d completed, %d overdue. Time: %s planned, %s remaining\n",
		st.Total, st.Completed, st.Overdue,
		todo.FormatMinutes(st.TotalMinutes), todo.FormatMinutes(st.RemainingMinutes))
}

// newMutationCmd builds the commands that act on one task id.
func newMutationCmd(use, short string, args cobra.PositionalArgs, verb string,
	fn func(cmd *cobra.Command, s *app.Session, id int64, rest []string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(_ *config.Config, s *app.Session) error {
				found, err := fn(cmd, s, id, args[1:])
				if !found {
					return fmt.Errorf("no task with id %d", id)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", verb, id)
				return nil
			})
		},
	}
}

func newToggleCmd() *cobra.Command {
	return newMutationCmd("toggle ID", "Flip a task between active and completed", cobra.ExactArgs(1), "Toggled",
		func(cmd *cobra.Command, s *app.Session, id int64, _ []string) (bool, error) {
			_, found, err := s.Toggle(cmd.Context(), id)
			return found, err
		})
}

func newEditCmd() *cobra.Command {
	return newMutationCmd("edit ID TEXT...", "Replace a task's text", cobra.MinimumNArgs(2), "Edited",
		func(cmd *cobra.Command, s *app.Session, id int64, rest []string) (bool, error) {
			_, found, err := s.EditText(cmd.Context(), id, strings.Join(rest, " "))
			return found, err
		})
}

func newRemoveCmd() *cobra.Command {
	return newMutationCmd("rm ID", "Delete a task", cobra.ExactArgs(1), "Removed",
		func(cmd *cobra.Command, s *app.Session, id int64, _ []string) (bool, error) {
			return s.Remove(cmd.Context(), id)
		})
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals for the whole list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(_ *config.Config, s *app.Session) error {
				printStats(cmd.OutOrStdout(), s.Stats())
				return nil
			})
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the available categories",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range model.Categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
		},
	}
}
