package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/todo/pkg/app"
	"github.com/harrisonrobin/todo/pkg/config"
	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/orgmode"
	"github.com/harrisonrobin/todo/pkg/taskwarrior"
)

// imported is one task ready to be added.
type imported struct {
	draft     model.Draft
	completed bool
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tasks from other tools",
	}

	var fromTask bool
	tw := &cobra.Command{
		Use:   "taskwarrior [FILE...]",
		Short: "Import Taskwarrior export JSON from files or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := taskwarrior.NewClient()
			var tasks []taskwarrior.Task
			switch {
			case fromTask:
				var err error
				if tasks, err = client.GetTasks(args); err != nil {
					return err
				}
			case len(args) == 0:
				var err error
				if tasks, err = client.ParseTasks(cmd.InOrStdin()); err != nil {
					return err
				}
			default:
				for _, path := range args {
					parsed, err := parseTaskwarriorFile(client, path)
					if err != nil {
						return err
					}
					tasks = append(tasks, parsed...)
				}
			}

			var items []imported
			for _, t := range tasks {
				if taskwarrior.Importable(t) {
					items = append(items, imported{draft: taskwarrior.ToDraft(t), completed: t.Status == taskwarrior.COMPLETED})
				}
			}
			return addImported(cmd, items)
		},
	}
	tw.Flags().BoolVar(&fromTask, "run", false, "run 'task export', treating arguments as a task filter")

	var tag string
	org := &cobra.Command{
		Use:   "org FILE...",
		Short: "Import TODO and DONE headings from Org-mode files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := orgmode.ParseFiles(args)
			if err != nil {
				return err
			}
			if tag != "" {
				entries = orgmode.FilterEntries(entries, tag)
			}
			items := make([]imported, 0, len(entries))
			for _, e := range entries {
				items = append(items, imported{draft: e.Draft, completed: e.Completed})
			}
			return addImported(cmd, items)
		},
	}
	org.Flags().StringVar(&tag, "tag", "", "only import headings carrying this tag")

	cmd.AddCommand(tw, org)
	return cmd
}

func parseTaskwarriorFile(client *taskwarrior.Client, path string) ([]taskwarrior.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tasks, err := client.ParseTasks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

func addImported(cmd *cobra.Command, items []imported) error {
	return withSession(cmd.Context(), func(_ *config.Config, s *app.Session) error {
		n, err := importInto(cmd.Context(), s, items)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d tasks\n", n, len(items))
		return err
	})
}

// importInto adds each item, completing those marked done. It stops at the
// first persistence failure.
func importInto(ctx context.Context, s *app.Session, items []imported) (int, error) {
	n := 0
	for _, it := range items {
		task, ok, err := s.Add(ctx, it.draft)
		if err != nil {
			return n, err
		}
		if !ok {
			continue
		}
		if it.completed {
			if _, _, err := s.Toggle(ctx, task.ID); err != nil {
				return n, err
			}
		}
		n++
	}
	return n, nil
}
