// Package cli provides the taskweb command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harrisonrobin/taskweb/pkg/config"
	"github.com/harrisonrobin/taskweb/pkg/logging"
	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
	"github.com/harrisonrobin/taskweb/pkg/web"
)

// TaskClient is what the commands need from *taskwarrior.Client.
type TaskClient interface {
	web.TaskService
	Version(ctx context.Context) (string, error)
}

// ClientFactory builds the task client once configuration is loaded.
type ClientFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (TaskClient, error)

// NewTaskwarriorClient is the production ClientFactory.
func NewTaskwarriorClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (TaskClient, error) {
	return taskwarrior.New(ctx, taskwarrior.Options{
		Binary:        cfg.Task.Binary,
		TaskRC:        cfg.Task.RC,
		TaskData:      cfg.Task.Data,
		ListTimeout:   cfg.Task.ListTimeout,
		MutateTimeout: cfg.Task.MutateTimeout,
		Logger:        logger,
	})
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"log.level":     "log-level",
	"task.binary":   "task-binary",
	"task.rc":       "taskrc",
	"task.data":     "taskdata",
	"listen":        "listen",
	"calendar.name": "calendar",
}

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	log        *slog.Logger
	newClient  ClientFactory
	configPath string
}

func (a *app) client(ctx context.Context) (TaskClient, error) {
	return a.newClient(ctx, a.cfg, a.log)
}

// NewRootCommand creates the root command with the real task client.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, NewTaskwarriorClient)
}

func newRootCommand(version string, factory ClientFactory) *cobra.Command {
	a := &app{newClient: factory}

	root := &cobra.Command{
		Use:   "taskweb",
		Short: "Web front end for Taskwarrior",
		Long: `taskweb serves a small web page over the Taskwarrior CLI.
Every operation shells out to the task binary; taskweb keeps no state of its own.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New(a.configPath)
			if err != nil {
				return err
			}
			for key, name := range flagKeys {
				if f := cmd.Flags().Lookup(name); f != nil {
					if err := v.BindPFlag(key, f); err != nil {
						return err
					}
				}
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			a.v = v
			a.cfg = cfg
			a.log = logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
			slog.SetDefault(a.log)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.config/taskweb/config.toml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("task-binary", "task", "Taskwarrior binary")
	pf.String("taskrc", "", "Taskwarrior settings file (default ~/.taskrc)")
	pf.String("taskdata", "", "Taskwarrior data directory")

	root.AddCommand(
		newServeCommand(a),
		newListCommand(a),
		newAddCommand(a),
		newDoneCommand(a),
		newDeleteCommand(a),
		newModifyCommand(a),
		newVersionCommand(a, version),
		newAuthCommand(a),
		newSyncCommand(a),
		newConfigCommand(a),
	)
	return root
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
