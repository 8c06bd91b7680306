package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskweb/pkg/config"
	"github.com/harrisonrobin/taskweb/pkg/google"
	"github.com/harrisonrobin/taskweb/pkg/web"
)

// newSyncerFunc is a function variable so tests can run serve without Google.
var newSyncerFunc = newCalendarSyncer

func newCalendarSyncer(ctx context.Context, calendarName string) (web.CalendarSyncer, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	c, err := google.NewClient(ctx, dir, calendarName)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// serveFunc is a function variable so tests can stop before listening.
var serveFunc = func(ctx context.Context, s *web.Server, addr string) error {
	return s.ListenAndServe(ctx, addr)
}

func newServeCommand(a *app) *cobra.Command {
	var withCalendar bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := a.client(ctx)
			if err != nil {
				return err
			}

			var syncer web.CalendarSyncer
			if withCalendar {
				syncer, err = newSyncerFunc(ctx, a.cfg.Calendar.Name)
				if err != nil {
					a.log.Warn("calendar export disabled", "error", err)
				}
			}

			server := web.NewServer(client, syncer, a.log)
			return serveFunc(ctx, server, a.cfg.Listen)
		},
	}
	cmd.Flags().String("listen", ":8080", "address to listen on")
	cmd.Flags().String("calendar", "", "Google Calendar to export to (overrides config)")
	cmd.Flags().BoolVar(&withCalendar, "with-calendar", false, "enable the Google Calendar export button")
	return cmd
}
