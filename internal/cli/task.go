package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/models"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTaskAddCmd(a), newTaskListCmd(a), newTaskSetCmd(a), newTaskDeleteCmd(a))
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var (
		user, title, description string
		priority, status, due    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Long: `Add creates a task owned by a user.

Example:
  taskboard task add --user alice --title "Write report" --description "Q3 numbers"
  taskboard task add --user 1 --title Ship --description "Cut the release" --priority high --due 2026-12-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := models.ParsePriority(priority)
			if err != nil {
				return err
			}
			s, err := models.ParseStatus(status)
			if err != nil {
				return err
			}
			limit, err := parseDate(due)
			if err != nil {
				return err
			}

			return a.withStore(func(m *models.Manager) error {
				owner, err := lookupUser(m, user)
				if err != nil {
					return err
				}
				t := m.NewTask()
				err = t.Create(models.TaskAttributes{
					UserID:      owner.ID(),
					Title:       title,
					Description: description,
					Priority:    p,
					Status:      s,
					LimitDate:   limit,
				})
				if err != nil {
					return err
				}
				if !t.Save() {
					return entityError("create task", t)
				}
				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), t.View())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s\n", t.ID(), t.Title())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner id or username (required)")
	cmd.Flags().StringVar(&title, "title", "", "title, 1 to 50 characters (required)")
	cmd.Flags().StringVar(&description, "description", "", "description, 1 to 255 characters (required)")
	cmd.Flags().StringVar(&priority, "priority", "low", "low, medium or high")
	cmd.Flags().StringVar(&status, "status", "pending", "pending, in_progress or done")
	cmd.Flags().StringVar(&due, "due", "", "limit date, YYYY-MM-DD or unix seconds")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				owner, err := lookupUser(m, user)
				if err != nil {
					return err
				}
				tasks, err := m.GetAllTaskByUserID(owner.ID())
				if err != nil {
					return err
				}
				if a.jsonMode {
					views := make([]models.TaskView, len(tasks))
					for i, t := range tasks {
						views[i] = t.View()
					}
					return printJSON(cmd.OutOrStdout(), views)
				}
				printTasks(cmd, tasks)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner id or username (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printTasks(cmd *cobra.Command, tasks []*models.Task) {
	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return
	}
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{
			strconv.FormatInt(t.ID(), 10),
			truncate(t.Title(), 40),
			t.Priority().String(),
			t.Status().String(),
			formatDate(t.LimitDate()),
		}
	}
	printTable(out, []string{"ID", "TITLE", "PRIORITY", "STATUS", "DUE"}, rows)
	fmt.Fprintf(out, "Total: %d task(s)\n", len(tasks))
}

func newTaskSetCmd(a *app) *cobra.Command {
	var title, description, priority, status, due string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Change task fields",
		Long: `Set changes the given fields and saves the task. Only columns whose
value differs from the stored row are written.

Example:
  taskboard task set 3 --status done
  taskboard task set 3 --title "New title" --priority medium`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return a.withStore(func(m *models.Manager) error {
				t, err := lookupTask(m, args[0])
				if err != nil {
					return err
				}

				if flags.Changed("title") {
					if err := t.SetTitle(title); err != nil {
						return err
					}
				}
				if flags.Changed("description") {
					if err := t.SetDescription(description); err != nil {
						return err
					}
				}
				if flags.Changed("priority") {
					p, err := models.ParsePriority(priority)
					if err != nil {
						return err
					}
					if err := t.SetPriority(p); err != nil {
						return err
					}
				}
				if flags.Changed("status") {
					s, err := models.ParseStatus(status)
					if err != nil {
						return err
					}
					if err := t.SetStatus(s); err != nil {
						return err
					}
				}
				if flags.Changed("due") {
					limit, err := parseDate(due)
					if err != nil {
						return err
					}
					if err := t.SetLimitDate(limit); err != nil {
						return err
					}
				}

				if !t.Save() {
					return entityError("save task", t)
				}
				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), t.View())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", t.ID())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&status, "status", "", "pending, in_progress or done")
	cmd.Flags().StringVar(&due, "due", "", "limit date, YYYY-MM-DD or unix seconds")
	return cmd
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task and its tag assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				t, err := lookupTask(m, args[0])
				if err != nil {
					return err
				}
				if !t.Delete() {
					return entityError("delete task", t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", t.ID())
				return nil
			})
		},
	}
}
