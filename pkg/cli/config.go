package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskweb/pkg/config"
	"github.com/harrisonrobin/taskweb/pkg/taskrc"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change taskweb settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set-calendar <name>",
			Short: "Set the default Google Calendar name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := a.v.ConfigFileUsed()
				if err := config.SetCalendar(path, args[0]); err != nil {
					return err
				}
				printf(cmd, "Default calendar set to: %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c := a.cfg
				printf(cmd, "config:              %s\n", a.v.ConfigFileUsed())
				printf(cmd, "listen:              %s\n", c.Listen)
				printf(cmd, "task.binary:         %s\n", c.Task.Binary)
				printf(cmd, "task.rc:             %s\n", c.Task.RC)
				printf(cmd, "task.data:           %s\n", c.Task.Data)
				printf(cmd, "task.list_timeout:   %s\n", c.Task.ListTimeout)
				printf(cmd, "task.mutate_timeout: %s\n", c.Task.MutateTimeout)
				printf(cmd, "log.level:           %s\n", c.Log.Level)
				printf(cmd, "calendar.name:       %s\n", c.Calendar.Name)

				settings, err := taskrc.Load(c.Task.RC)
				if err != nil {
					printf(cmd, "\n%s not readable: %v\n", c.Task.RC, err)
					return nil
				}
				var keys []string
				for k := range settings {
					if strings.HasPrefix(k, "urgency.") {
						keys = append(keys, k)
					}
				}
				sort.Strings(keys)
				if len(keys) > 0 {
					printf(cmd, "\nurgency coefficients in %s:\n", c.Task.RC)
				}
				for _, k := range keys {
					printf(cmd, "  %s=%s\n", k, settings[k])
				}
				return nil
			},
		},
	)
	return cmd
}
