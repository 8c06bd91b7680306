package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
	"github.com/harrisonrobin/taskweb/pkg/view"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, &taskwarrior.ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return id, nil
}

func newListCommand(a *app) *cobra.Command {
	var filter view.Filter

	cmd := &cobra.Command{
		Use:   "list [filter...]",
		Short: "List tasks",
		Long:  "List tasks. Arguments are passed to `task export` as a filter.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			tasks, err := client.ExportTasks(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			tasks = filter.Apply(tasks)
			if len(tasks) == 0 {
				printf(cmd, "No tasks found matching the current filters.\n")
				return nil
			}
			printf(cmd, "%s", renderTable(tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Status, "status", view.All, "status: All, Pending, Completed")
	cmd.Flags().StringVar(&filter.Priority, "priority", view.All, "priority: All, H, M, L, None")
	cmd.Flags().StringVar(&filter.Project, "project", view.All, "project name, None, or All")
	return cmd
}

func newAddCommand(a *app) *cobra.Command {
	var priority, project string

	cmd := &cobra.Command{
		Use:   "add <description...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.AddTask(cmd.Context(), strings.Join(args, " "), priority, project); err != nil {
				return fmt.Errorf("error adding task: %w", err)
			}
			printf(cmd, "Task added successfully!\n")
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority: H, M or L")
	cmd.Flags().StringVarP(&project, "project", "P", "", "project name")
	return cmd
}

func newDoneCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.CompleteTask(cmd.Context(), id); err != nil {
				return err
			}
			printf(cmd, "Task %d completed.\n", id)
			return nil
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			printf(cmd, "Task %d deleted.\n", id)
			return nil
		},
	}
}

func newModifyCommand(a *app) *cobra.Command {
	var m taskwarrior.Modification

	cmd := &cobra.Command{
		Use:   "modify <id>",
		Short: "Change a task's description, priority or project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.ModifyTask(cmd.Context(), id, m); err != nil {
				return err
			}
			printf(cmd, "Task %d updated.\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&m.Description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&m.Priority, "priority", "p", "", "new priority: H, M or L")
	cmd.Flags().StringVarP(&m.Project, "project", "P", "", "new project")
	return cmd
}

func newVersionCommand(a *app, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print taskweb and Taskwarrior versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			tw, err := client.Version(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd, "taskweb %s\ntask %s\n", version, tw)
			return nil
		},
	}
}
