package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/calendar"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) exportCommand() *cobra.Command {
	var out, tz, event string
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "data",
		Short:   "Write events as an iCalendar (.ics) feed",
		Example: `  gatherly export -o events.ics
  gatherly export --event 3f2a --tz Europe/Riga`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := a.loc
			if tz != "" {
				l, err := time.LoadLocation(tz)
				if err != nil {
					return err
				}
				loc = l
			}

			w := a.out
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return a.Export(cmd.Context(), w, event, loc)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	cmd.Flags().StringVar(&tz, "tz", "", "time zone event times are given in (default local)")
	cmd.Flags().StringVarP(&event, "event", "e", "", "export a single event")
	return cmd
}

// Export writes all events, or the one matching eventPrefix, with their
// guests as attendees.
func (a *App) Export(ctx context.Context, w io.Writer, eventPrefix string, loc *time.Location) error {
	events, err := a.events.ListEvents(ctx)
	if err != nil {
		return err
	}
	if eventPrefix != "" {
		e, err := a.findEvent(ctx, eventPrefix)
		if err != nil {
			return err
		}
		events = []*models.Event{e}
	}

	entries := make([]calendar.Entry, 0, len(events))
	for _, e := range events {
		guests, err := a.events.ListInvitations(ctx, e.ID)
		if err != nil {
			return err
		}
		entries = append(entries, calendar.Entry{Event: e, Guests: guests})
	}
	return calendar.Write(w, entries, a.now(), loc)
}
