package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/models"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags and their task assignments",
	}
	cmd.AddCommand(
		newTagAddCmd(a),
		newTagListCmd(a),
		newTagDeleteCmd(a),
		newTagAssignCmd(a),
		newTagRemoveCmd(a),
	)
	return cmd
}

func newTagAddCmd(a *app) *cobra.Command {
	var user, name, color string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a tag",
		Long: `Add creates a tag owned by a user. The color is #RRGGBB or #RGB.

Example:
  taskboard tag add --user alice --name urgent --color "#f00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				owner, err := lookupUser(m, user)
				if err != nil {
					return err
				}
				t := m.NewTag()
				if err := t.Create(models.TagAttributes{UserID: owner.ID(), Name: name, Color: color}); err != nil {
					return err
				}
				if !t.Save() {
					return entityError("create tag", t)
				}
				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), t.View())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created tag %d: %s\n", t.ID(), t.Name())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner id or username (required)")
	cmd.Flags().StringVar(&name, "name", "", "name, 1 to 20 characters (required)")
	cmd.Flags().StringVar(&color, "color", "", "color, #RRGGBB or #RGB (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func newTagListCmd(a *app) *cobra.Command {
	var user, task string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tags of a user or of a task",
		Long: `List shows the tags owned by --user, or the tags assigned to --task.

Example:
  taskboard tag list --user alice
  taskboard tag list --task 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (user == "") == (task == "") {
				return usageErrorf("exactly one of --user or --task is required")
			}
			return a.withStore(func(m *models.Manager) error {
				var (
					tags []*models.Tag
					err  error
				)
				if user != "" {
					owner, lerr := lookupUser(m, user)
					if lerr != nil {
						return lerr
					}
					tags, err = m.GetAllTagsOfUser(owner.ID())
				} else {
					t, lerr := lookupTask(m, task)
					if lerr != nil {
						return lerr
					}
					tags, err = m.GetAllTagsOfTask(t.ID())
				}
				if err != nil {
					return err
				}

				if a.jsonMode {
					views := make([]models.TagView, len(tags))
					for i, t := range tags {
						views[i] = t.View()
					}
					return printJSON(cmd.OutOrStdout(), views)
				}
				printTags(cmd, tags)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner id or username")
	cmd.Flags().StringVar(&task, "task", "", "task id")
	return cmd
}

func printTags(cmd *cobra.Command, tags []*models.Tag) {
	out := cmd.OutOrStdout()
	if len(tags) == 0 {
		fmt.Fprintln(out, "No tags found.")
		return
	}
	rows := make([][]string, len(tags))
	for i, t := range tags {
		rows[i] = []string{strconv.FormatInt(t.ID(), 10), t.Name(), t.Color()}
	}
	printTable(out, []string{"ID", "NAME", "COLOR"}, rows)
	fmt.Fprintf(out, "Total: %d tag(s)\n", len(tags))
}

func newTagDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag and remove it from every task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				t, err := lookupTag(m, args[0])
				if err != nil {
					return err
				}
				if !t.Delete() {
					return entityError("delete tag", t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %d\n", t.ID())
				return nil
			})
		},
	}
}

func newTagAssignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task-id> <tag-id>",
		Short: "Assign a tag to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				task, tag, err := lookupPair(m, args[0], args[1])
				if err != nil {
					return err
				}
				if err := m.AssignTagToTask(task.ID(), tag.ID()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tag %s assigned to task %d\n", tag.Name(), task.ID())
				return nil
			})
		},
	}
}

func newTagRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <task-id> <tag-id>",
		Short: "Remove a tag from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(m *models.Manager) error {
				task, tag, err := lookupPair(m, args[0], args[1])
				if err != nil {
					return err
				}
				if err := m.RemoveTagOfTask(task.ID(), tag.ID()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tag %s removed from task %d\n", tag.Name(), task.ID())
				return nil
			})
		},
	}
}

func lookupTask(m *models.Manager, arg string) (*models.Task, error) {
	id, err := parseID("task id", arg)
	if err != nil {
		return nil, err
	}
	t, err := m.FindTaskByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: task %d", types.ErrNotFound, id)
	}
	return t, nil
}

func lookupTag(m *models.Manager, arg string) (*models.Tag, error) {
	id, err := parseID("tag id", arg)
	if err != nil {
		return nil, err
	}
	t, err := m.FindTagByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: tag %d", types.ErrNotFound, id)
	}
	return t, nil
}

func lookupPair(m *models.Manager, taskArg, tagArg string) (*models.Task, *models.Tag, error) {
	task, err := lookupTask(m, taskArg)
	if err != nil {
		return nil, nil, err
	}
	tag, err := lookupTag(m, tagArg)
	if err != nil {
		return nil, nil, err
	}
	return task, tag, nil
}
