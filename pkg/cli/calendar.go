package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskweb/pkg/auth"
	"github.com/harrisonrobin/taskweb/pkg/config"
)

func newAuthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar",
		Long: `Run the Google OAuth flow and cache the token.
Place the OAuth client credentials.json in ~/.config/taskweb first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			if err := auth.Authorize(cmd.Context(), dir, auth.Scopes); err != nil {
				return err
			}
			printf(cmd, "Authentication successful! Token saved to %s\n", auth.TokenFile)
			return nil
		},
	}
}

func newSyncCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [filter...]",
		Short: "Push tasks with a due date to Google Calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			syncer, err := newSyncerFunc(cmd.Context(), a.cfg.Calendar.Name)
			if err != nil {
				return err
			}

			tasks, err := client.ExportTasks(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			var synced, skipped, failed int
			for _, t := range tasks {
				if !t.Due.IsSet() {
					skipped++
					continue
				}
				if _, err := syncer.SyncTask(cmd.Context(), t); err != nil {
					a.log.Warn("sync task", "id", t.ID, "uuid", t.UUID, "error", err)
					failed++
					continue
				}
				synced++
			}
			printf(cmd, "Synced %d tasks to %q (%d without due date, %d failed)\n", synced, a.cfg.Calendar.Name, skipped, failed)
			return nil
		},
	}
	cmd.Flags().String("calendar", "", "Google Calendar name (overrides config)")
	return cmd
}
