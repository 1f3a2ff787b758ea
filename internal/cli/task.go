package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"tagdo/internal/tasks/data"
	"tagdo/internal/tasks/query"
)

func newTaskCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Task management commands",
	}
	cmd.AddCommand(newAddCommand(o), newListCommand(o), newDoneCommand(o), newTagCommand(o), newDeleteCommand(o))
	return cmd
}

func newAddCommand(o *options) *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:     "add SUMMARY...",
		Aliases: []string{"a"},
		Short:   "Add a new task",
		Example: `  tagdo task add "Buy milk" -t errands -t home`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			summary := strings.Join(args, " ")
			id, err := e.session.List().Add(summary, tags)
			if err != nil {
				return fmt.Errorf("adding task: %w", err)
			}
			if err := e.session.Save(); err != nil {
				return err
			}
			t, _ := e.session.List().Get(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", formatTask(t, e.session.List().TagNames(t)))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "tag to attach (repeatable)")
	return cmd
}

func newListCommand(o *options) *cobra.Command {
	var filter, order, tabName string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List tasks matching a query",
		Example: `  tagdo task list
  tagdo task list --query "tag:work & !complete" --sort alpha
  tagdo task list --tab inbox`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			var q query.Query
			if tabName != "" {
				tab := findTab(e, tabName)
				if tab < 0 {
					return fmt.Errorf("no tab named %q", tabName)
				}
				q = e.session.Tabs()[tab].Query()
			} else {
				q, err = query.Compile(filter, order)
				if err != nil {
					return err
				}
				if err := q.Validate(e.session.List().Tags()); err != nil {
					return err
				}
			}

			list := e.session.List()
			ids := query.Evaluate(list, q)
			printTasks(cmd.OutOrStdout(), list, ids)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "query", "q", "", "filter expression, e.g. \"tag:work & !complete\"")
	cmd.Flags().StringVarP(&order, "sort", "s", "list", "order: list, alpha or completion")
	cmd.Flags().StringVar(&tabName, "tab", "", "use the query of a saved tab")
	return cmd
}

func newDoneCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "done ID",
		Aliases: []string{"do", "d"},
		Short:   "Mark a task as complete",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			t, ok := e.session.List().Get(id)
			if !ok {
				return fmt.Errorf("no task found with ID: %s", id)
			}
			if t.Complete {
				fmt.Fprintf(cmd.OutOrStdout(), "Task already completed: %s\n", t.Summary)
				return nil
			}
			err = e.session.List().Update(id, func(t *data.Task) error {
				t.Complete = true
				return nil
			})
			if err != nil {
				return err
			}
			if err := e.session.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s\n", t.Summary)
			return nil
		},
	}
}

func newTagCommand(o *options) *cobra.Command {
	var add, remove []string
	cmd := &cobra.Command{
		Use:     "tag ID",
		Short:   "Add or remove tags on a task",
		Example: `  tagdo task tag 3 -a urgent -r someday`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if len(add) == 0 && len(remove) == 0 {
				return errors.New("nothing to do: pass --add or --remove")
			}
			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.session.RetagTask(id, add, remove); err != nil {
				if errors.Is(err, data.ErrNotFound) {
					return fmt.Errorf("no task found with ID: %s", id)
				}
				return fmt.Errorf("tagging task: %w", err)
			}
			if err := e.session.Save(); err != nil {
				return err
			}
			t, _ := e.session.List().Get(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Tagged: %s\n", formatTask(t, e.session.List().TagNames(t)))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&add, "add", "a", nil, "tag to attach (repeatable)")
	cmd.Flags().StringArrayVarP(&remove, "remove", "r", nil, "tag to detach (repeatable)")
	return cmd
}

func newDeleteCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete", "del"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			t, ok := e.session.List().Get(id)
			if !ok {
				return fmt.Errorf("no task found with ID: %s", id)
			}
			e.session.List().Remove(id)
			if err := e.session.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", t.Summary)
			return nil
		},
	}
}

func parseID(s string) (data.TaskID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, errors.New("task ID must be a number")
	}
	return data.TaskID(n), nil
}

func findTab(e *env, name string) int {
	for i, tab := range e.session.Tabs() {
		if strings.EqualFold(tab.Name, name) {
			return i
		}
	}
	return -1
}

func formatTask(t data.Task, tags []string) string {
	status := " "
	if t.Complete {
		status = "x"
	}
	line := fmt.Sprintf("%4s [%s] %s", t.ID(), status, t.Summary)
	for _, name := range tags {
		line += " #" + name
	}
	return line
}

func printTasks(w io.Writer, list *data.TaskList, ids []data.TaskID) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	for _, id := range ids {
		t, _ := list.Get(id)
		fmt.Fprintln(w, formatTask(t, list.TagNames(t)))
	}
	fmt.Fprintf(w, "\n%d task(s)\n", len(ids))
}
